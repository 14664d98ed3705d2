package apps

import (
	"context"

	"netdemo/internal/pkg/log"
	"netdemo/internal/pkg/record"
	"netdemo/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ReplayAppCfg configures a ReplayApp.
type ReplayAppCfg interface {
	ApplyReplayApp(*ReplayApp) error
}

// ReplayApp reads snapshot journals back, verifying every checksum.
type ReplayApp struct {
	Paths []string `validate:"min=1,dive,required"`

	// Entries counts the entries read by the last Run.
	Entries int
}

// NewReplayApp creates a new ReplayApp.
func NewReplayApp(cfgs ...ReplayAppCfg) (*ReplayApp, error) {
	app := &ReplayApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyReplayApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ReplayApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ReplayApp failed")
	}
	return app, nil
}

// Run logs every journal entry in order. It stops at the first corrupt entry.
func (app *ReplayApp) Run(ctx context.Context, _ []string) error {
	app.Entries = 0
	for _, path := range app.Paths {
		err := record.Read(path, func(e record.Entry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			app.Entries++
			for _, s := range e.EntityStates() {
				logger.WithFields(log.EntityStateToFields(s)).
					WithField("tick", e.Tick).
					WithField("time_ms", e.TimeMS).
					Info("replay")
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "replay %s failed", path)
		}
	}
	logger.WithField("entries", app.Entries).Info("replay complete")
	return nil
}
