// Package logging provides structured logging configuration and utilities.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level  string
	Pretty bool
}

// NewLogger builds a zerolog logger for the given configuration. Unknown
// levels fall back to info.
func NewLogger(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(cfg Config) {
	logger := NewLogger(cfg)
	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
}
