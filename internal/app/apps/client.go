package apps

import (
	"context"
	"fmt"
	"time"

	"netdemo/internal"
	"netdemo/internal/pkg/client"
	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/input"
	"netdemo/internal/pkg/render"
	"netdemo/internal/pkg/tick"
	"netdemo/internal/pkg/transport/rpc"
	"netdemo/internal/pkg/transport/ws"
	"netdemo/internal/pkg/validate"

	"github.com/pkg/errors"
)

// PatrolPeriodMS is the period of the scripted patrol input.
const PatrolPeriodMS = 4000

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is a networked client.
type ClientApp struct {
	Addr           string  `validate:"required"`
	Port           uint16  `validate:"required"`
	Transport      string  `validate:"oneof=grpc ws"`
	Secret         string  `validate:"required"`
	TickRate       int     `validate:"min=1,max=1000"`
	ServerTickRate int     `validate:"min=1,max=1000"`
	LoopMS         int     `validate:"min=1"`
	Speed          float32 `validate:"gt=0"`
	Features       Features
	Input          input.Source    `validate:"required"`
	Renderer       client.Renderer `validate:"required"`
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{
		Addr:           internal.Addr,
		Port:           uint16(internal.Port),
		Transport:      TransportGRPC,
		Secret:         internal.Secret,
		TickRate:       client.DefaultTickRate,
		ServerTickRate: client.DefaultServerTickRate,
		LoopMS:         internal.HostLoopMS,
		Speed:          entity.DefaultSpeed,
		Features:       Features{Prediction: true, Reconciliation: true, Interpolation: true},
		Input:          input.Patrol{PeriodMS: PatrolPeriodMS},
		Renderer:       render.NewLogger(client.DefaultTickRate),
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

func (app *ClientApp) dial(ctx context.Context) (client.Driver, error) {
	addr := fmt.Sprintf("%s:%d", app.Addr, app.Port)
	switch app.Transport {
	case TransportGRPC:
		return rpc.Dial(ctx, addr, app.Secret)
	case TransportWebSocket:
		return ws.Dial(ctx, addr, app.Secret)
	}
	return nil, errors.Errorf("unknown transport %q", app.Transport)
}

func synchronizerCfgs(d client.Driver, src input.Source, r client.Renderer, tickRate, serverTickRate int, speed float32, f Features) []client.Cfg {
	return []client.Cfg{
		client.WithDriver(d),
		client.WithInputSource(src),
		client.WithRenderer(r),
		client.WithTickRate(tickRate),
		client.WithServerTickRate(serverTickRate),
		client.WithSpeed(speed),
		client.WithPrediction(f.Prediction),
		client.WithReconciliation(f.Reconciliation),
		client.WithInterpolation(f.Interpolation),
	}
}

// Run connects to the server and synchronizes until ctx is cancelled or the
// connection fails.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	d, err := app.dial(ctx)
	if err != nil {
		return errors.Wrap(err, "dial server failed")
	}
	c, err := client.NewSynchronizer(synchronizerCfgs(d, app.Input, app.Renderer, app.TickRate, app.ServerTickRate, app.Speed, app.Features)...)
	if err != nil {
		_ = d.Close()
		return errors.Wrap(err, "create client failed")
	}
	logger.WithField("transport", app.Transport).WithField("port", app.Port).Info("client started")

	err = tick.Drive(ctx, time.Duration(app.LoopMS)*time.Millisecond, c.Tick)
	if terr := c.TearDown(); err == nil {
		err = terr
	}
	return errors.Wrap(err, "run client failed")
}
