package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the JSON logger every component receives through its
// constructor. The level comes from LOG_LEVEL (debug|info|warn|error),
// defaulting to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
