// Package logger builds the structured loggers used by the hosts and the simulation.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/convoy/internal/config"
)

// Logger is an alias used by packages for dependency injection.
type Logger = log.Logger

// New returns a logger with a consistent service prefix.
func New(w io.Writer, service string, level log.Level) *Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          service,
		ReportTimestamp: true,
		TimeFormat:      time.StampMicro,
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return log.New(io.Discard)
}

// FromEnv builds a logger from LOG_LEVEL and LOG_FILE. When LOG_FILE is unset
// the logger writes to fallback; a nil fallback discards output.
// The returned closer releases the log file and is never nil.
func FromEnv(service string, fallback io.Writer) (*Logger, io.Closer, error) {
	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	path := config.GetEnv("LOG_FILE", "")
	if path == "" {
		if fallback == nil {
			fallback = io.Discard
		}
		return New(fallback, service, level), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, service, level), f, nil
}
