package apps_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"netdemo/internal/app/apps"
	"netdemo/internal/app/cfg"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/input"
	"netdemo/internal/pkg/record"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct {
	mu     sync.Mutex
	frames int
	last   []entity.Entity
}

func (r *countingRenderer) Render(es []*entity.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.last = r.last[:0]
	for _, e := range es {
		r.last = append(r.last, *e)
	}
}

func (r *countingRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

type rendererCfg struct {
	r *countingRenderer
}

func (c rendererCfg) ApplyHostApp(app *apps.HostApp) error {
	app.Renderer = c.r
	return nil
}

func (c rendererCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Renderer = c.r
	return nil
}

func freePort(t *testing.T) uint16 {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return uint16(port)
}

func TestHostApp(t *testing.T) {
	renderer := &countingRenderer{}
	dir := t.TempDir()
	app, err := apps.NewHostApp(
		cfg.NewAddrCfg("127.0.0.1"),
		cfg.NewPortCfg(freePort(t)),
		cfg.NewRecordCfg(dir),
		cfg.NewInputCfg(input.Patrol{PeriodMS: 200}),
		rendererCfg{renderer},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, app.Run(ctx, nil))
	require.Greater(t, renderer.Frames(), 5)

	replay, err := cfg.ReplayFromDir(dir)
	require.NoError(t, err)
	r, err := apps.NewReplayApp(replay)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background(), nil))
	require.Greater(t, r.Entries, 0)
}

func TestServerAndClientApps(t *testing.T) {
	for _, transport := range []string{apps.TransportGRPC, apps.TransportWebSocket} {
		t.Run(transport, func(t *testing.T) {
			port := cfg.NewPortCfg(freePort(t))
			server, err := apps.NewServerApp(cfg.NewAddrCfg("127.0.0.1"), port, cfg.NewTransportCfg(transport))
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			serverDone := make(chan error, 1)
			go func() {
				serverDone <- server.Run(ctx, nil)
			}()

			renderer := &countingRenderer{}
			client, err := apps.NewClientApp(cfg.NewAddrCfg("127.0.0.1"), port, cfg.NewTransportCfg(transport), rendererCfg{renderer})
			require.NoError(t, err)
			clientCtx, clientCancel := context.WithTimeout(ctx, time.Second)
			defer clientCancel()
			require.Eventually(t, func() bool {
				return client.Run(clientCtx, nil) == nil
			}, 2*time.Second, 50*time.Millisecond)
			require.Greater(t, renderer.Frames(), 0)

			cancel()
			require.NoError(t, <-serverDone)
		})
	}
}

func TestReplayAppDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	w := record.NewWriter(dir, "snapshots")
	e, err := record.NewEntry(1, 100, []entity.EntityState{{EntityID: 0, Position: mgl32.Vec2{1, 2}}})
	require.NoError(t, err)
	e.Checksum++
	require.NoError(t, w.Write(e))
	require.NoError(t, w.Close())

	app, err := apps.NewReplayApp(cfg.NewReplayCfg(w.Path()))
	require.NoError(t, err)
	require.Error(t, app.Run(context.Background(), nil))
}
