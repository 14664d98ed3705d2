package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"
)

// TickCfg sets the update rates and the host loop interval.
type TickCfg struct {
	serverTickRate int
	clientTickRate int
	loopMS         int
}

// NewTickCfg creates a new TickCfg.
func NewTickCfg(serverTickRate, clientTickRate, loopMS int) *TickCfg {
	return &TickCfg{
		serverTickRate: serverTickRate,
		clientTickRate: clientTickRate,
		loopMS:         loopMS,
	}
}

// TickFromEnv creates a new TickCfg from the current environment.
func TickFromEnv() *TickCfg {
	return NewTickCfg(internal.ServerTickRate, internal.ClientTickRate, internal.HostLoopMS)
}

// ApplyClientApp applies the TickCfg to a ClientApp.
func (cfg TickCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.TickRate = cfg.clientTickRate
	app.ServerTickRate = cfg.serverTickRate
	app.LoopMS = cfg.loopMS
	return nil
}

// ApplyServerApp applies the TickCfg to a ServerApp.
func (cfg TickCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.TickRate = cfg.serverTickRate
	app.LoopMS = cfg.loopMS
	return nil
}

// ApplyHostApp applies the TickCfg to a HostApp.
func (cfg TickCfg) ApplyHostApp(app *apps.HostApp) error {
	app.ClientTickRate = cfg.clientTickRate
	return cfg.ApplyServerApp(&app.ServerApp)
}
