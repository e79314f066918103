// Package logging builds the slog logger shared by modules and lookups.
//
// Output is logfmt (slog text handler). Module results are written to stdout,
// so logs always go to a separate writer, stderr by default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures NewLogger.
type Options struct {
	// Level is one of ERROR, WARNING, INFO, DEBUG (case-insensitive).
	Level string

	// Verbosity is the Ansible verbosity (-v count). A value of 3 or more
	// forces DEBUG regardless of Level.
	Verbosity int

	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger creates a structured logger from the given options.
// Invalid levels default to INFO.
func NewLogger(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := parseLogLevel(opts.Level)
	if opts.Verbosity >= 3 {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR":
		return slog.LevelError
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "INFO":
		return slog.LevelInfo
	case "DEBUG":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
