// Package logging provides structured logging configuration using log/slog.
//
// Diagnostics always go to stderr (or the writer given to Setup) so that
// reports written to stdout stay machine-readable. Each CLI invocation gets a
// run ID so the log lines of one verification can be grouped together.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Setup configures the global slog logger based on level and format and
// returns it.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRunID returns a fresh identifier for one CLI run.
func NewRunID() string { return uuid.NewString() }

// WithRun returns logger (slog.Default when nil) tagged with run_id and any
// extra fields.
//
// Usage:
//
//	log := logging.WithRun(nil, runID, "file", path)
//	log.Info("verification started")
func WithRun(logger *slog.Logger, runID string, args ...any) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(append([]any{"run_id", runID}, args...)...)
}
