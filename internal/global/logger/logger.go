package logger

import (
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
)

var Logger primary.Logger = logging.NewZapLogger()

// SetLogger replaces the process-wide logger once configuration is loaded.
func SetLogger(l primary.Logger) {
	if l != nil {
		Logger = l
	}
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
