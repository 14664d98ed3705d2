package tick

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestThrottleFiresOncePerPeriod(t *testing.T) {
	th := NewThrottle(50)
	require.Equal(t, int64(20), th.PeriodMS())

	require.True(t, th.Ready(1000))
	require.False(t, th.Ready(1010))
	require.True(t, th.Ready(1020))
	require.False(t, th.Ready(1020))
	require.False(t, th.Ready(1030))
	require.True(t, th.Ready(1045))
}

func TestThrottleTicksTenApart(t *testing.T) {
	th := NewThrottle(50)
	fired := 0
	for now := int64(0); now < 20; now += 10 {
		if th.Ready(now) {
			fired++
		}
	}
	require.Equal(t, 1, fired)
}

func TestThrottleNoDrift(t *testing.T) {
	th := NewThrottle(10)
	require.True(t, th.Ready(0))
	// late by 30ms, the next deadline is still 200 and not 230
	require.True(t, th.Ready(130))
	require.False(t, th.Ready(199))
	require.True(t, th.Ready(200))
}

func TestThrottleNoBurstAfterStall(t *testing.T) {
	th := NewThrottle(10)
	require.True(t, th.Ready(0))
	require.True(t, th.Ready(1000))
	require.False(t, th.Ready(1001))
	require.False(t, th.Ready(1099))
	require.True(t, th.Ready(1100))
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	require.Equal(t, int64(0), c.NowMS())
	c.Advance(25)
	require.Equal(t, int64(25), c.NowMS())
	c.Set(5)
	require.Equal(t, int64(5), c.NowMS())
}

func TestRateToPeriodMS(t *testing.T) {
	require.Equal(t, int64(100), RateToPeriodMS(10))
	require.Equal(t, int64(20), RateToPeriodMS(50))
	require.Equal(t, int64(0), RateToPeriodMS(0))
}

func TestDriveStopsOnError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Drive(context.Background(), time.Millisecond, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	require.True(t, errors.Is(err, boom))
	require.Equal(t, 3, calls)
}

func TestDriveStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, Drive(ctx, time.Millisecond, func() error { return nil }))
}
