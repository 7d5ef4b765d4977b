// Package logging provides structured logging configuration using log/slog.
//
// Text output is handled by charmbracelet/log, which renders compact,
// coloured lines suited to a terminal. JSON output uses slog's own handler.
// Logs always go to the writer passed to Setup (stderr in the CLI) so that
// stdout only carries the result line.
package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New builds a logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:  charmlog.Level(lvl),
		Prefix: "receipt",
	})
	return slog.New(handler)
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(level, format string, w io.Writer) *slog.Logger {
	logger := New(level, format, w)
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
