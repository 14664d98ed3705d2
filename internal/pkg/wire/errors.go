package wire

import "github.com/pkg/errors"

// ErrShortFrame indicates a frame ended before its fixed layout was complete.
var ErrShortFrame = errors.New("short frame")

// ErrTrailingBytes indicates a frame carried more bytes than its layout allows.
var ErrTrailingBytes = errors.New("trailing bytes")

// ErrUnknownType indicates a frame type byte that is not valid in this direction.
var ErrUnknownType = errors.New("unknown message type")

// ErrBadPresence indicates a world state slot flag that is neither 0 nor 1.
var ErrBadPresence = errors.New("invalid slot presence flag")
