package cliconfig

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = NewLogger(os.Stderr)

// NewLogger returns a console logger writing to w with RFC3339 timestamps.
func NewLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// LevelLogger returns the package logger filtered to cfg.LogLevel. An
// unparsable level falls back to warn.
func LevelLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		lvl = zerolog.WarnLevel
	}
	return logger.Level(lvl)
}
