// Package logger provides structured logging setup for relay.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/martinemde/relay/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stderr with a "service" attribute on every record,
// keeping stdout free for conversation output.
func New(cfg config.Logging) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	return slog.New(handler).With("service", cfg.Service)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
