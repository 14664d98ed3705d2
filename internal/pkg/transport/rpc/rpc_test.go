package rpc

import (
	"context"
	"net"
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
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const secret = "NetworkedDemoHail"

func startServer(t *testing.T, cfgs ...server.Cfg) *bufconn.Listener {
	t.Helper()
	s, err := server.NewServer(append([]server.Cfg{server.WithSecret(secret), server.WithTickRate(100)}, cfgs...)...)
	require.NoError(t, err)
	r, err := NewServer(WithServer(s))
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() {
		_ = r.Serve(lis)
		done <- struct{}{}
	}()
	go func() {
		_ = tick.Drive(ctx, time.Millisecond, s.Tick)
		done <- struct{}{}
	}()
	t.Cleanup(func() {
		cancel()
		r.Stop()
		<-done
		<-done
		_ = s.TearDown()
	})
	return lis
}

func dial(t *testing.T, lis *bufconn.Listener, secret string) *Driver {
	t.Helper()
	d, err := Dial(context.Background(), "bufnet", secret,
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
	)
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

func TestCodec(t *testing.T) {
	c := Codec{}
	b, err := c.Marshal(&Frame{Data: []byte{1, 2}})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b)
	var f Frame
	require.NoError(t, c.Unmarshal(b, &f))
	require.Equal(t, []byte{1, 2}, f.Data)
	_, err = c.Marshal("nope")
	require.Error(t, err)
	require.Equal(t, CodecName, c.Name())
}

func TestConnect(t *testing.T) {
	lis := startServer(t)
	d := dial(t, lis, secret)

	require.NoError(t, pollUntil(t, d, func(msg wire.Message) bool {
		return msg == wire.Connected{EntityID: 0}
	}))
	require.NoError(t, d.Send(entity.Input{Sequence: 1, EntityID: 0, Move: mgl32.Vec2{0, 0.1}}))
	require.NoError(t, pollUntil(t, d, func(msg wire.Message) bool {
		ws, ok := msg.(wire.WorldState)
		return ok && ws.Slots[0].Present && ws.Slots[0].State.LastProcessedInput == 1
	}))
	require.Zero(t, d.RTT())
}

func TestConnectDenied(t *testing.T) {
	lis := startServer(t)
	d := dial(t, lis, "wrong")
	err := pollUntil(t, d, func(wire.Message) bool { return false })
	require.ErrorIs(t, err, client.ErrConnectionDenied)
}

func TestConnectServerFull(t *testing.T) {
	lis := startServer(t, server.WithRoster(roster.Roster{
		MaxPlayers:  1,
		Speed:       entity.DefaultSpeed,
		SpawnPoints: []roster.Point{{0, 0}},
	}))
	first := dial(t, lis, secret)
	require.NoError(t, pollUntil(t, first, func(msg wire.Message) bool {
		_, ok := msg.(wire.Connected)
		return ok
	}))

	second := dial(t, lis, secret)
	err := pollUntil(t, second, func(wire.Message) bool { return false })
	require.ErrorIs(t, err, client.ErrServerFull)
}
