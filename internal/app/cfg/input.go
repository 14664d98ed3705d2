package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"
	"netdemo/internal/pkg/input"
)

// InputCfg chooses where a headless client reads its movement intent from.
type InputCfg struct {
	source input.Source
}

// NewInputCfg creates a new InputCfg.
func NewInputCfg(src input.Source) *InputCfg {
	return &InputCfg{source: src}
}

// InputFromEnv patrols when enabled in the current environment and idles otherwise.
func InputFromEnv() *InputCfg {
	if internal.Patrol {
		return NewInputCfg(input.Patrol{PeriodMS: apps.PatrolPeriodMS})
	}
	return NewInputCfg(input.Idle{})
}

// ApplyClientApp applies the InputCfg to a ClientApp.
func (cfg InputCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Input = cfg.source
	return nil
}

// ApplyHostApp applies the InputCfg to a HostApp.
func (cfg InputCfg) ApplyHostApp(app *apps.HostApp) error {
	app.Input = cfg.source
	return nil
}
