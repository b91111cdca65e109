package logger

import (
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

// AppLogger is the application logger with structured JSON output
type AppLogger struct {
	*logrus.Logger
}

// NewAppLogger creates a new application logger from config
func NewAppLogger(config models.LoggerConfig) *AppLogger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	return &AppLogger{Logger: l}
}

// WithComponent returns an entry tagged with the owning component
func (al *AppLogger) WithComponent(name string) *logrus.Entry {
	return al.WithField("component", name)
}
