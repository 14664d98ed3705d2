// Package tick gates role updates on a monotonic millisecond clock.
//
// The host calls each role as often as it likes; a role only runs an update
// once its Throttle reports the configured period has elapsed. Deadlines
// advance from the previous deadline rather than from the call time, so a
// jittery host loop does not make the update rate drift.
package tick

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Clock returns monotonic milliseconds.
type Clock interface {
	NowMS() int64
}

// SystemClock is a monotonic Clock anchored at its creation.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMS returns the milliseconds elapsed since the clock was created.
func (c *SystemClock) NowMS() int64 {
	return time.Since(c.start).Milliseconds()
}

// ManualClock is a Clock advanced explicitly, for tests and replays.
type ManualClock struct {
	ms atomic.Int64
}

// NowMS returns the current manual time.
func (c *ManualClock) NowMS() int64 {
	return c.ms.Load()
}

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms int64) {
	c.ms.Add(ms)
}

// Set sets the clock to ms.
func (c *ManualClock) Set(ms int64) {
	c.ms.Store(ms)
}

// RateToPeriodMS converts an update rate in Hz to a period in milliseconds.
func RateToPeriodMS(hz int) int64 {
	if hz <= 0 {
		return 0
	}
	return 1000 / int64(hz)
}

// Throttle admits at most one update per period.
type Throttle struct {
	period  int64
	next    int64
	started bool
}

// NewThrottle creates a Throttle firing at the given rate in Hz.
func NewThrottle(hz int) *Throttle {
	return &Throttle{period: RateToPeriodMS(hz)}
}

// SetRate changes the update rate. The current deadline is kept.
func (t *Throttle) SetRate(hz int) {
	t.period = RateToPeriodMS(hz)
}

// PeriodMS returns the update period.
func (t *Throttle) PeriodMS() int64 {
	return t.period
}

// Ready reports whether an update is due at nowMS, and if so consumes it.
func (t *Throttle) Ready(nowMS int64) bool {
	if !t.started {
		t.started = true
		t.next = nowMS + t.period
		return true
	}
	if nowMS < t.next {
		return false
	}
	t.next += t.period
	if t.next <= nowMS {
		// stalled for more than a period, re-anchor instead of bursting
		t.next = nowMS + t.period
	}
	return true
}

// Drive calls every fn each interval until ctx is done or a fn fails.
func Drive(ctx context.Context, interval time.Duration, fns ...func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, fn := range fns {
				if err := fn(); err != nil {
					return errors.Wrap(err, "tick failed")
				}
			}
		}
	}
}
