package config

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a timestamped logger on stderr with the level taken from
// EK_LOG_LEVEL (debug, info, warn, error; info by default).
func NewLogger(prefix string) *log.Logger {
	return NewLoggerTo(os.Stderr, prefix)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(GetEnv("EK_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewFileLogger logs to EK_LOG_FILE when set, and discards otherwise. Used
// where stdout and stderr belong to the game screen. The returned closer
// releases the file.
func NewFileLogger(prefix string) (*log.Logger, io.Closer, error) {
	path := GetEnv("EK_LOG_FILE", "")
	if path == "" {
		return NewLoggerTo(io.Discard, prefix), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewLoggerTo(f, prefix), f, nil
}
