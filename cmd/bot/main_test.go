package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/set-night/catalogbot/internal/config"
)

func TestNewLoggerLevel(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger := newLogger(&config.Config{LogFormat: format, LogLevel: "warn"})
		if logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Errorf("%s logger: info enabled at warn level", format)
		}
		if !logger.Enabled(context.Background(), slog.LevelError) {
			t.Errorf("%s logger: error disabled at warn level", format)
		}
	}
}
