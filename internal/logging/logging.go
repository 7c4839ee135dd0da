// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a textual level to slog.Level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New returns a logger that writes human-readable text to textOut and
// JSON lines to jsonOut, and installs it as the slog default.
func New(level string, textOut, jsonOut io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(textOut, opts),
		slog.NewJSONHandler(jsonOut, opts),
	))
	slog.SetDefault(logger)
	return logger
}
