// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the logger every component hangs off of (via With), sets it
// as the slog default, and returns it. The level matches LARDER_LOG_LEVEL:
// "debug", "info", "warn", or "error", case-insensitively; anything else
// falls back to info.
func Setup(level string) *slog.Logger {
	lvl := parseLevel(level)

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
