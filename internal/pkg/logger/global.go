package logger

import (
	"sync"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

var (
	globalMu     sync.RWMutex
	globalLogger *AppLogger
)

// Init sets the process-wide logger. Called once from main.
func Init(config models.LoggerConfig) *AppLogger {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = NewAppLogger(config)
	return globalLogger
}

// L returns the process-wide logger, lazily constructing a default one so
// packages can log before main finishes wiring.
func L() *AppLogger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewAppLogger(models.LoggerConfig{Level: "info"})
	}
	return globalLogger
}

// Info logs at info level on the global logger
func Info(msg string, fields logrus.Fields) {
	L().WithFields(fields).Info(msg)
}

// Warn logs at warn level on the global logger
func Warn(msg string, fields logrus.Fields) {
	L().WithFields(fields).Warn(msg)
}

// Error logs at error level on the global logger
func Error(msg string, fields logrus.Fields) {
	L().WithFields(fields).Error(msg)
}
