// Package log add logging utilities.
package log

import (
	"strings"
	"time"

	"netdemo/internal/pkg/entity"
	"netdemo/internal/pkg/session"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

func InputToFields(in entity.Input) logrus.Fields {
	return logrus.Fields{
		"seq":    in.Sequence,
		"entity": in.EntityID,
		"move_x": in.Move.X(),
		"move_y": in.Move.Y(),
	}
}

func EntityStateToFields(s entity.EntityState) logrus.Fields {
	return logrus.Fields{
		"entity":         s.EntityID,
		"x":              s.Position.X(),
		"y":              s.Position.Y(),
		"last_processed": s.LastProcessedInput,
	}
}

func SessionToFields(s session.Session) logrus.Fields {
	return logrus.Fields{
		"session": s.ID.String(),
		"remote":  s.Remote,
		"state":   s.State.String(),
		"entity":  s.EntityID,
	}
}
