package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/roster"
	"netdemo/internal/pkg/server"
	"netdemo/internal/pkg/tick"
	"netdemo/internal/pkg/wire"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const secret = "NetworkedDemoHail"

// startServer returns the host:port of a test server.
func startServer(t *testing.T, cfgs ...server.Cfg) string {
	t.Helper()
	s, err := server.NewServer(append([]server.Cfg{server.WithSecret(secret), server.WithTickRate(100)}, cfgs...)...)
	require.NoError(t, err)
	w, err := NewServer(WithServer(s))
	require.NoError(t, err)
	ts := httptest.NewServer(w.Handler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tick.Drive(ctx, time.Millisecond, s.Tick)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = s.TearDown()
		ts.Close()
	})
	return strings.TrimPrefix(ts.URL, "http://")
}

func dial(t *testing.T, addr string, cfgs ...DialCfg) *Driver {
	t.Helper()
	d, err := Dial(context.Background(), addr, secret, cfgs...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// pollUntil polls d until fn accepts a message or the driver fails.
func pollUntil(t *testing.T, d *Driver, fn func(wire.Message) bool) error {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msgs, err := d.Poll()
		for _, msg := range msgs {
			if fn(msg) {
				return nil
			}
		}
		if err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	return errors.New("timed out")
}

func TestConnect(t *testing.T) {
	addr := startServer(t)
	d := dial(t, addr, WithPingInterval(10*time.Millisecond))

	require.NoError(t, pollUntil(t, d, func(msg wire.Message) bool {
		return msg == wire.Connected{EntityID: 0}
	}))
	require.NoError(t, d.Send(entity.Input{Sequence: 1, EntityID: 0, Move: mgl32.Vec2{0.1, 0}}))
	require.NoError(t, pollUntil(t, d, func(msg wire.Message) bool {
		ws, ok := msg.(wire.WorldState)
		return ok && ws.Slots[0].Present && ws.Slots[0].State.LastProcessedInput == 1
	}))
	require.Eventually(t, func() bool {
		_, _ = d.Poll()
		return d.RTT() > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConnectDenied(t *testing.T) {
	addr := startServer(t)
	_, err := Dial(context.Background(), addr, "wrong")
	require.ErrorIs(t, err, client.ErrConnectionDenied)
}

func TestConnectServerFull(t *testing.T) {
	addr := startServer(t, server.WithRoster(roster.Roster{
		MaxPlayers:  1,
		Speed:       entity.DefaultSpeed,
		SpawnPoints: []roster.Point{{0, 0}},
	}))
	first := dial(t, addr)
	require.NoError(t, pollUntil(t, first, func(msg wire.Message) bool {
		_, ok := msg.(wire.Connected)
		return ok
	}))

	second := dial(t, addr)
	err := pollUntil(t, second, func(wire.Message) bool { return false })
	require.ErrorIs(t, err, client.ErrServerFull)
}

func TestWithPingInterval(t *testing.T) {
	_, err := Dial(context.Background(), "localhost:1", secret, WithPingInterval(0))
	require.Error(t, err)
}
