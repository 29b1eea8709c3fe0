// Package logging builds the structured logger shared by one issue-manager run.
// Every record carries the run ID so overlapping CI runs can be told apart.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ParseLevel parses a log level string into slog.Level.
// Unknown values fall back to warn, keeping CI output quiet.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New creates a text logger writing to w at the given level
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler).With("run_id", NewRunID())
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// NewRunID returns a short random identifier for one invocation
func NewRunID() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}
