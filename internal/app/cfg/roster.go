package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"
	"netdemo/internal/pkg/roster"

	"github.com/pkg/errors"
)

// RosterCfg sets the player slots, their spawn points and the entity speed.
type RosterCfg struct {
	roster roster.Roster
}

// NewRosterCfg creates a new RosterCfg.
func NewRosterCfg(r roster.Roster) *RosterCfg {
	return &RosterCfg{roster: r}
}

// RosterFromFile loads a RosterCfg from a YAML file. An empty path yields the default roster.
func RosterFromFile(path string) (*RosterCfg, error) {
	if path == "" {
		return NewRosterCfg(roster.Default()), nil
	}
	r, err := roster.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load roster %s failed", path)
	}
	return NewRosterCfg(r), nil
}

// RosterFromEnv loads a RosterCfg from the file named in the current environment.
func RosterFromEnv() (*RosterCfg, error) {
	return RosterFromFile(internal.RosterFile)
}

// ApplyClientApp applies the roster speed to a ClientApp.
func (cfg RosterCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Speed = cfg.roster.Speed
	return nil
}

// ApplyServerApp applies the RosterCfg to a ServerApp.
func (cfg RosterCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Roster = cfg.roster
	return nil
}

// ApplyHostApp applies the RosterCfg to a HostApp.
func (cfg RosterCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}
