package rpc

import (
	"github.com/pkg/errors"
)

// CodecName is the content subtype of the frame codec.
const CodecName = "netdemo-frame"

// Frame is one wire frame carried as a gRPC message.
type Frame struct {
	Data []byte
}

// Codec passes frames through untouched.
type Codec struct{}

// Marshal returns the frame bytes.
func (Codec) Marshal(v interface{}) ([]byte, error) {
	f, ok := v.(*Frame)
	if !ok {
		return nil, errors.Errorf("cannot marshal %T", v)
	}
	return f.Data, nil
}

// Unmarshal copies data into the frame.
func (Codec) Unmarshal(data []byte, v interface{}) error {
	f, ok := v.(*Frame)
	if !ok {
		return errors.Errorf("cannot unmarshal into %T", v)
	}
	f.Data = append(f.Data[:0], data...)
	return nil
}

// Name returns CodecName.
func (Codec) Name() string {
	return CodecName
}
