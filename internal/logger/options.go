package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Format is the log output format
type Format string

const (
	// FormatText is human-readable text output
	FormatText Format = "text"
	// FormatJSON is JSON output
	FormatJSON Format = "json"
)

type config struct {
	level  slog.Level
	output io.Writer
	format Format
}

// Option configures a Logger
type Option func(*config)

// WithLevel sets the minimum log level
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithLevelString sets the minimum log level from a string, defaulting to
// info for unknown values
func WithLevelString(s string) Option {
	level := slog.LevelInfo
	switch strings.ToLower(s) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return WithLevel(level)
}

// WithOutput sets the log destination
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithFormat sets the log format
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}
