// Package interpolation renders remote entities one server frame in the past
// by blending between the two buffered authoritative positions that bracket
// the render time.
package interpolation

import (
	"netdemo/internal/pkg/entity"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderTimestamp returns the time remote entities are drawn at: one full
// server frame before now.
func RenderTimestamp(nowMS int64, serverTickRate int) int64 {
	if serverTickRate <= 0 {
		return nowMS
	}
	return nowMS - 1000/int64(serverTickRate)
}

// Push records an authoritative position received at nowMS.
func Push(e *entity.Entity, nowMS int64, position mgl32.Vec2) {
	e.Buffer = append(e.Buffer, entity.TimedPosition{TimestampMS: nowMS, Position: position})
}

// Sample evicts positions older than the bracket around renderMS and, if
// the remaining buffer brackets it, moves the entity to the interpolated
// position. It reports whether the position was updated; otherwise the
// entity keeps its last computed position.
func Sample(e *entity.Entity, renderMS int64) bool {
	buf := e.Buffer
	for len(buf) >= 2 && buf[1].TimestampMS <= renderMS {
		buf = buf[1:]
	}
	e.Buffer = compact(e.Buffer, buf)
	buf = e.Buffer

	if len(buf) < 2 || buf[0].TimestampMS > renderMS || renderMS > buf[1].TimestampMS {
		return false
	}
	e.Position = Lerp(buf[0], buf[1], renderMS)
	return true
}

// Lerp returns the position between a and b at time ms.
func Lerp(a, b entity.TimedPosition, ms int64) mgl32.Vec2 {
	span := b.TimestampMS - a.TimestampMS
	if span <= 0 {
		return b.Position
	}
	f := float32(ms-a.TimestampMS) / float32(span)
	return a.Position.Add(b.Position.Sub(a.Position).Mul(f))
}

// compact moves the surviving tail to the front of the backing array so the
// buffer does not grow without bound under steady eviction.
func compact(orig, tail []entity.TimedPosition) []entity.TimedPosition {
	if len(tail) == len(orig) {
		return orig
	}
	n := copy(orig, tail)
	for i := n; i < len(orig); i++ {
		orig[i] = entity.TimedPosition{}
	}
	return orig[:n]
}
