package cfg

import (
	"path/filepath"
	"sort"

	"netdemo/internal"
	"netdemo/internal/app/apps"

	"github.com/pkg/errors"
)

// RecordCfg sets the directory snapshot journals are written to. Empty disables journaling.
type RecordCfg struct {
	dir string
}

// NewRecordCfg creates a new RecordCfg.
func NewRecordCfg(dir string) *RecordCfg {
	return &RecordCfg{dir: dir}
}

// RecordFromEnv creates a new RecordCfg from the current environment.
func RecordFromEnv() *RecordCfg {
	return &RecordCfg{dir: internal.RecordDir}
}

// ApplyServerApp applies the RecordCfg to a ServerApp.
func (cfg RecordCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.RecordDir = cfg.dir
	return nil
}

// ApplyHostApp applies the RecordCfg to a HostApp.
func (cfg RecordCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}

// ReplayCfg lists the journals to replay.
type ReplayCfg struct {
	paths []string
}

// NewReplayCfg creates a new ReplayCfg for the given journal files.
func NewReplayCfg(paths ...string) *ReplayCfg {
	return &ReplayCfg{paths: paths}
}

// ReplayFromDir lists every journal in dir, oldest first.
func ReplayFromDir(dir string) (*ReplayCfg, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jsonl.zst"))
	if err != nil {
		return nil, errors.Wrap(err, "list journals failed")
	}
	sort.Strings(paths)
	return NewReplayCfg(paths...), nil
}

// ApplyReplayApp applies the ReplayCfg to a ReplayApp.
func (cfg ReplayCfg) ApplyReplayApp(app *apps.ReplayApp) error {
	app.Paths = append(app.Paths, cfg.paths...)
	return nil
}
