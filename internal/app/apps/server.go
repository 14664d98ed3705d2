package apps

import (
	"context"
	"fmt"
	"time"

	"netdemo/internal"
	"netdemo/internal/pkg/record"
	"netdemo/internal/pkg/roster"
	"netdemo/internal/pkg/server"
	"netdemo/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp runs the authoritative server.
type ServerApp struct {
	Addr      string `validate:"required"`
	Port      uint16 `validate:"required"`
	Transport string `validate:"oneof=grpc ws"`
	Secret    string `validate:"required"`
	TickRate  int    `validate:"min=1,max=1000"`
	LoopMS    int    `validate:"min=1"`
	Roster    roster.Roster
	RecordDir string

	// MaxInputSeconds bounds the movement a single input may claim; 0 accepts all.
	MaxInputSeconds int `validate:"min=0"`
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		Addr:      "",
		Port:      uint16(internal.Port),
		Transport: TransportGRPC,
		Secret:    internal.Secret,
		TickRate:  server.DefaultTickRate,
		LoopMS:    internal.HostLoopMS,
		Roster:    roster.Default(),
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if app.Addr == "" {
		app.Addr = "0.0.0.0"
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

func (app *ServerApp) newServer() (*server.Server, error) {
	cfgs := []server.Cfg{
		server.WithSecret(app.Secret),
		server.WithTickRate(app.TickRate),
		server.WithRoster(app.Roster),
	}
	if app.MaxInputSeconds > 0 {
		cfgs = append(cfgs, server.WithValidator(server.MaxStep(float32(app.MaxInputSeconds))))
	}
	if app.RecordDir != "" {
		cfgs = append(cfgs, server.WithRecorder(record.NewWriter(app.RecordDir, "snapshots")))
	}
	return server.NewServer(cfgs...)
}

// Run serves clients until ctx is cancelled.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	s, err := app.newServer()
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	addr := fmt.Sprintf("%s:%d", app.Addr, app.Port)
	logger.WithField("addr", addr).WithField("transport", app.Transport).Info("starting server")
	err = serve(ctx, s, app.Transport, addr, time.Duration(app.LoopMS)*time.Millisecond)
	if terr := s.TearDown(); err == nil {
		err = terr
	}
	return errors.Wrap(err, "run server failed")
}
