package logger

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger initializes and configures the application logger based on environment
// Returns a configured slog.Logger instance
func InitLogger(environment string, logJSON bool) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, environment, logJSON))

	// Set as default logger so it can be used throughout the application
	slog.SetDefault(logger)

	return logger
}

func newHandler(w io.Writer, environment string, logJSON bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	// In development, use more verbose logging with source locations
	if environment == "development" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	if logJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Redact shortens a credential so it can be logged for correlation without exposing it
func Redact(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:8] + "..."
}
