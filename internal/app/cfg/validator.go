package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"

	"github.com/pkg/errors"
)

// ValidatorCfg bounds how many seconds of movement one input may claim.
// Zero leaves the server accepting every input.
type ValidatorCfg struct {
	maxInputSeconds int
}

// NewValidatorCfg creates a new ValidatorCfg.
func NewValidatorCfg(maxInputSeconds int) *ValidatorCfg {
	return &ValidatorCfg{maxInputSeconds: maxInputSeconds}
}

// ValidatorFromEnv creates a new ValidatorCfg from the current environment.
func ValidatorFromEnv() *ValidatorCfg {
	return NewValidatorCfg(internal.MaxInputSeconds)
}

// ApplyServerApp applies the ValidatorCfg to a ServerApp.
func (cfg ValidatorCfg) ApplyServerApp(app *apps.ServerApp) error {
	if cfg.maxInputSeconds < 0 {
		return errors.Errorf("max input seconds must not be negative, got %d", cfg.maxInputSeconds)
	}
	app.MaxInputSeconds = cfg.maxInputSeconds
	return nil
}

// ApplyHostApp applies the ValidatorCfg to a HostApp.
func (cfg ValidatorCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}
