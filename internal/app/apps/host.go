package apps

import (
	"context"
	"fmt"
	"time"

	"netdemo/internal"
	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/input"
	"netdemo/internal/pkg/render"
	"netdemo/internal/pkg/transport/local"
	"netdemo/internal/pkg/validate"

	"github.com/pkg/errors"
)

// HostAppCfg configures a HostApp.
type HostAppCfg interface {
	ApplyHostApp(*HostApp) error
}

// HostApp runs a server and a local client in one loop. Remote clients may
// join over the network transport.
type HostApp struct {
	ServerApp
	ClientTickRate int `validate:"min=1,max=1000"`
	Features       Features
	Input          input.Source    `validate:"required"`
	Renderer       client.Renderer `validate:"required"`
}

// NewHostApp creates a new HostApp.
func NewHostApp(cfgs ...HostAppCfg) (*HostApp, error) {
	server, err := NewServerApp()
	if err != nil {
		return nil, errors.Wrap(err, "new ServerApp failed")
	}
	app := &HostApp{
		ServerApp:      *server,
		ClientTickRate: client.DefaultTickRate,
		Features:       Features{Prediction: true, Reconciliation: true, Interpolation: true},
		Input:          input.Patrol{PeriodMS: PatrolPeriodMS},
		Renderer:       render.NewLogger(client.DefaultTickRate),
	}
	app.LoopMS = internal.HostLoopMS
	for _, cfg := range cfgs {
		if err := cfg.ApplyHostApp(app); err != nil {
			return nil, errors.Wrap(err, "apply HostApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate HostApp failed")
	}
	return app, nil
}

// Run hosts until ctx is cancelled.
func (app *HostApp) Run(ctx context.Context, _ []string) error {
	s, err := app.newServer()
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	defer func() {
		_ = s.TearDown()
	}()
	d, err := local.Dial(s, app.Secret)
	if err != nil {
		return errors.Wrap(err, "dial local server failed")
	}
	c, err := client.NewSynchronizer(synchronizerCfgs(d, app.Input, app.Renderer, app.ClientTickRate, app.TickRate, app.Roster.Speed, app.Features)...)
	if err != nil {
		_ = d.Close()
		return errors.Wrap(err, "create client failed")
	}
	addr := fmt.Sprintf("%s:%d", app.Addr, app.Port)
	logger.WithField("addr", addr).WithField("transport", app.Transport).Info("starting host")

	err = serve(ctx, s, app.Transport, addr, time.Duration(app.LoopMS)*time.Millisecond, c.Tick)
	if terr := c.TearDown(); err == nil {
		err = terr
	}
	return errors.Wrap(err, "run host failed")
}
