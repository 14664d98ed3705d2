// Package wire implements the fixed layout binary frames exchanged between
// client and server.
//
// Every frame starts with one MessageType byte. Integers are 4 byte little
// endian two's complement, floats are 4 byte little endian IEEE 754.
//
//	Connected (server→client): type, entity id
//	Connected (client→server): type                        (join request)
//	Input     (client→server): type, move x, move y, sequence, entity id
//	WorldState(server→client): type, then per slot: present byte,
//	                           [entity id, x, y, last processed input]
//
// The number of WorldState slots is implied by the frame length.
package wire

import (
	"encoding/binary"
	"math"

	"netdemo/internal/pkg/entity"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MessageType identifies the frame layout.
type MessageType byte

// Message types.
const (
	MessageTypeConnected  MessageType = 1
	MessageTypeInput      MessageType = 2
	MessageTypeWorldState MessageType = 3
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeConnected:
		return "connected"
	case MessageTypeInput:
		return "input"
	case MessageTypeWorldState:
		return "world_state"
	}
	return "unknown"
}

const (
	inputSize = 1 + 4 + 4 + 4 + 4
	stateSize = 4 + 4 + 4 + 4
)

// Message is a decoded frame.
type Message interface {
	Type() MessageType
}

// Connected tells a client which entity it controls.
type Connected struct {
	EntityID int32
}

// Join is the body-less Connected frame a client sends once its handshake was approved.
type Join struct{}

// Input carries one client input.
type Input struct {
	entity.Input
}

// WorldState carries a full snapshot.
type WorldState struct {
	entity.WorldState
}

func (Connected) Type() MessageType  { return MessageTypeConnected }
func (Join) Type() MessageType       { return MessageTypeConnected }
func (Input) Type() MessageType      { return MessageTypeInput }
func (WorldState) Type() MessageType { return MessageTypeWorldState }

// EncodeConnected encodes a server→client Connected frame.
func EncodeConnected(entityID int32) []byte {
	b := make([]byte, 0, 5)
	b = append(b, byte(MessageTypeConnected))
	return appendInt32(b, entityID)
}

// EncodeJoin encodes a client→server Connected frame.
func EncodeJoin() []byte {
	return []byte{byte(MessageTypeConnected)}
}

// EncodeInput encodes an Input frame.
func EncodeInput(in entity.Input) []byte {
	b := make([]byte, 0, inputSize)
	b = append(b, byte(MessageTypeInput))
	b = appendVec2(b, in.Move)
	b = appendInt32(b, in.Sequence)
	return appendInt32(b, in.EntityID)
}

// EncodeWorldState encodes a WorldState frame.
func EncodeWorldState(ws entity.WorldState) []byte {
	b := make([]byte, 0, 1+len(ws.Slots)*(1+stateSize))
	b = append(b, byte(MessageTypeWorldState))
	for _, slot := range ws.Slots {
		if !slot.Present {
			b = append(b, 0)
			continue
		}
		b = append(b, 1)
		b = AppendEntityState(b, slot.State)
	}
	return b
}

// AppendEntityState appends the fixed layout of one entity state.
func AppendEntityState(b []byte, s entity.EntityState) []byte {
	b = appendInt32(b, s.EntityID)
	b = appendVec2(b, s.Position)
	return appendInt32(b, s.LastProcessedInput)
}

// ReadEntityState reads one entity state from the front of b.
func ReadEntityState(b []byte) (entity.EntityState, error) {
	if len(b) < stateSize {
		return entity.EntityState{}, ErrShortFrame
	}
	return entity.EntityState{
		EntityID:           readInt32(b[0:]),
		Position:           readVec2(b[4:]),
		LastProcessedInput: readInt32(b[12:]),
	}, nil
}

// DecodeServerMessage decodes a frame sent by the server.
func DecodeServerMessage(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, ErrShortFrame
	}
	switch t := MessageType(b[0]); t {
	case MessageTypeConnected:
		if len(b) != 5 {
			return nil, errors.Wrapf(ErrShortFrame, "connected frame of %d bytes", len(b))
		}
		return Connected{EntityID: readInt32(b[1:])}, nil
	case MessageTypeWorldState:
		ws, err := decodeWorldState(b[1:])
		if err != nil {
			return nil, errors.Wrap(err, "decode world state failed")
		}
		return WorldState{ws}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownType, "server message type %d", t)
	}
}

// DecodeClientMessage decodes a frame sent by a client.
func DecodeClientMessage(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, ErrShortFrame
	}
	switch t := MessageType(b[0]); t {
	case MessageTypeConnected:
		if len(b) != 1 {
			return nil, errors.Wrapf(ErrTrailingBytes, "join frame of %d bytes", len(b))
		}
		return Join{}, nil
	case MessageTypeInput:
		if len(b) < inputSize {
			return nil, errors.Wrapf(ErrShortFrame, "input frame of %d bytes", len(b))
		}
		if len(b) > inputSize {
			return nil, errors.Wrapf(ErrTrailingBytes, "input frame of %d bytes", len(b))
		}
		return Input{entity.Input{
			Move:     readVec2(b[1:]),
			Sequence: readInt32(b[9:]),
			EntityID: readInt32(b[13:]),
		}}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownType, "client message type %d", t)
	}
}

func decodeWorldState(b []byte) (entity.WorldState, error) {
	var ws entity.WorldState
	for len(b) > 0 {
		present := b[0]
		b = b[1:]
		switch present {
		case 0:
			ws.Slots = append(ws.Slots, entity.Slot{})
		case 1:
			s, err := ReadEntityState(b)
			if err != nil {
				return entity.WorldState{}, errors.Wrapf(err, "slot %d", len(ws.Slots))
			}
			ws.Slots = append(ws.Slots, entity.Slot{Present: true, State: s})
			b = b[stateSize:]
		default:
			return entity.WorldState{}, errors.Wrapf(ErrBadPresence, "slot %d flag %d", len(ws.Slots), present)
		}
	}
	return ws, nil
}

func appendInt32(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

func appendVec2(b []byte, v mgl32.Vec2) []byte {
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v[0]))
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v[1]))
}

func readInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func readVec2(b []byte) mgl32.Vec2 {
	return mgl32.Vec2{
		math.Float32frombits(binary.LittleEndian.Uint32(b)),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
	}
}
