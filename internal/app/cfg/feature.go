package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"

	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// FeatureCfg toggles prediction, reconciliation and interpolation.
//
// Reconciliation replays inputs on top of a predicted mirror, so it forces
// prediction on. Prediction switched off forces reconciliation off.
type FeatureCfg struct {
	features apps.Features
}

// NewFeatureCfg creates a new FeatureCfg, coupling prediction and
// reconciliation. Reconciliation takes precedence when both are given
// contradicting values.
func NewFeatureCfg(prediction, reconciliation, interpolation bool) *FeatureCfg {
	if reconciliation && !prediction {
		logger.Warn("reconciliation requires prediction, enabling prediction")
		prediction = true
	}
	return &FeatureCfg{features: apps.Features{
		Prediction:     prediction,
		Reconciliation: reconciliation,
		Interpolation:  interpolation,
	}}
}

// FeatureFromEnv creates a new FeatureCfg from the current environment.
func FeatureFromEnv() *FeatureCfg {
	return NewFeatureCfg(internal.Prediction, internal.Reconciliation, internal.Interpolation)
}

// SetPrediction switches prediction, turning reconciliation off with it.
func (cfg *FeatureCfg) SetPrediction(on bool) *FeatureCfg {
	cfg.features.Prediction = on
	if !on {
		cfg.features.Reconciliation = false
	}
	return cfg
}

// SetReconciliation switches reconciliation, turning prediction on with it.
func (cfg *FeatureCfg) SetReconciliation(on bool) *FeatureCfg {
	cfg.features.Reconciliation = on
	if on {
		cfg.features.Prediction = true
	}
	return cfg
}

// Features returns the coupled switches.
func (cfg FeatureCfg) Features() apps.Features {
	return cfg.features
}

// ApplyClientApp applies the FeatureCfg to a ClientApp.
func (cfg FeatureCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Features = cfg.features
	return nil
}

// ApplyHostApp applies the FeatureCfg to a HostApp.
func (cfg FeatureCfg) ApplyHostApp(app *apps.HostApp) error {
	app.Features = cfg.features
	return nil
}
