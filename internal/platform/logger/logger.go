package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/taskserver/internal/config"
)

// DefaultLevel is used when the configured level cannot be parsed.
const DefaultLevel = slog.LevelInfo

// Setup initializes the application's logging system from the server
// configuration. It creates a structured JSON logger writing to stdout, sets
// it as the slog default, and returns it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, cfg.LogLevel)

	// Allows the slog package functions (slog.Info, slog.Error, ...) in main.
	slog.SetDefault(logger)
	return logger, nil
}

// New creates a JSON logger writing to w at the given level. An invalid
// level falls back to DefaultLevel and the logger records a warning.
func New(w io.Writer, level string) *slog.Logger {
	parsed, ok := ParseLevel(level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parsed})
	logger := slog.New(handler)

	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", DefaultLevel.String())
	}
	return logger
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to slog
// levels. The boolean is false for anything else.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return DefaultLevel, false
	}
}
