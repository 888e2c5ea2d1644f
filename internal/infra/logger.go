// README: zerolog setup; console output in development, JSON in production.
package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. Sub-components derive module loggers via
// logger.With().Str("module", ...).Logger().
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if os.Getenv("ENV") == "production" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}

	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(os.Getenv("GOCARS_LOG_LEVEL")); err == nil && l != zerolog.NoLevel {
		level = l
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", "gocars-engine").
		Logger()
}
