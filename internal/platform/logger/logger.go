// Package logger provides structured logging setup for the service.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/youruser/speakerpack/internal/config"
)

// Setup builds a JSON slog logger at the configured level and installs
// it as the process default. An unknown level falls back to info.
func Setup(cfg config.ServerConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
