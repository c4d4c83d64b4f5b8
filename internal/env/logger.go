package env

import (
	"log/slog"
	"os"
)

// NewLogger logs JSON at info level in prod and text at debug level elsewhere.
func NewLogger(appEnv string) *slog.Logger {
	var handler slog.Handler
	if appEnv == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
