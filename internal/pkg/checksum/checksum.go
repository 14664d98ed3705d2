// Package checksum computes a deterministic digest of entity states so a
// recorded world can be checked against a replay.
package checksum

import (
	"hash/fnv"
	"math"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/wire"

	"github.com/pkg/errors"
)

// ErrTooManyStates is returned when the sequence contains too many states.
var ErrTooManyStates = errors.New("too many states")

// ErrChecksumMismatch indicates that a digest does not match the expected value.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Sum hashes the wire layout of the states in order.
// At most 0xffff states are accepted.
func Sum(states ...entity.EntityState) (uint64, error) {
	if len(states) > math.MaxUint16 {
		return 0, ErrTooManyStates
	}
	h := fnv.New64a()
	buf := make([]byte, 0, 16)
	for _, s := range states {
		buf = wire.AppendEntityState(buf[:0], s)
		_, _ = h.Write(buf)
	}
	return h.Sum64(), nil
}

// Verify recomputes the digest of states and compares it with want.
func Verify(want uint64, states ...entity.EntityState) error {
	got, err := Sum(states...)
	if err != nil {
		return errors.Wrap(err, "checksum failed")
	}
	if got != want {
		return ErrChecksumMismatch
	}
	return nil
}
