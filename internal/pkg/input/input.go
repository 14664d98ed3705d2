// Package input turns host key state into movement intent.
package input

import "github.com/go-gl/mathgl/mgl32"

// Intent is the set of directions currently held.
type Intent struct {
	Left, Right, Up, Down bool
}

// Direction returns the unit direction of the intent, or the zero vector.
// Right wins over left and up wins over down when both are held.
func (i Intent) Direction() mgl32.Vec2 {
	var v mgl32.Vec2
	if i.Right {
		v[0] = 1
	} else if i.Left {
		v[0] = -1
	}
	if i.Up {
		v[1] = 1
	} else if i.Down {
		v[1] = -1
	}
	if v == (mgl32.Vec2{}) {
		return v
	}
	return v.Normalize()
}

// Source reports the intent held at a given time.
type Source interface {
	Intent(nowMS int64) Intent
}

// Idle never moves.
type Idle struct{}

// Intent returns the zero intent.
func (Idle) Intent(int64) Intent {
	return Intent{}
}

// Patrol walks back and forth: right for half of every period, then left.
type Patrol struct {
	PeriodMS int64
}

// Intent returns the direction for the current half period.
func (p Patrol) Intent(nowMS int64) Intent {
	if p.PeriodMS <= 0 {
		return Intent{}
	}
	if nowMS%p.PeriodMS < p.PeriodMS/2 {
		return Intent{Right: true}
	}
	return Intent{Left: true}
}

// Held reports the same intent regardless of time.
type Held Intent

// Intent returns the held intent.
func (h Held) Intent(int64) Intent {
	return Intent(h)
}
