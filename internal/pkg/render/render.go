// Package render provides headless renderers for the client.
package render

import (
	"netdemo/internal/pkg/entity"

	"github.com/sirupsen/logrus"
)

// Logger writes entity positions to a logrus logger at debug level,
// at most once every Every frames.
type Logger struct {
	Log   logrus.FieldLogger
	Every int

	frames int
}

// NewLogger creates a Logger over the standard logger.
func NewLogger(every int) *Logger {
	return &Logger{Log: logrus.StandardLogger(), Every: every}
}

// Render logs the entities.
func (l *Logger) Render(entities []*entity.Entity) {
	l.frames++
	if l.Every > 1 && l.frames%l.Every != 0 {
		return
	}
	for _, e := range entities {
		l.Log.WithFields(logrus.Fields{
			"entity": e.ID,
			"x":      e.Position.X(),
			"y":      e.Position.Y(),
		}).Debug("render")
	}
}
