package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Package log is a thin facade over zerolog so call sites can stay on the
// simple Info/Error(msg, kv...) shape used throughout the codebase.

var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

func initLogger() {
	loggerOnce.Do(func() {
		logger = zerolog.New(os.Stderr).
			Level(zerolog.InfoLevel).
			With().Timestamp().Logger()
	})
}

// SetDebug lowers the minimum level to debug when enabled is true.
func SetDebug(enabled bool) {
	initLogger()
	if enabled {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debug().Fields(kv).Msg(msg)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Info().Fields(kv).Msg(msg)
}

func Warn(msg string, kv ...any) {
	initLogger()
	logger.Warn().Fields(kv).Msg(msg)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	logger.Error().Err(err).Fields(kv).Msg(msg)
}
