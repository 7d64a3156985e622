package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithCommand returns a logger with command context fields attached.
// Use this for all logging within a single command's lifecycle.
func WithCommand(commandID, userID, intent string) *slog.Logger {
	return slog.With(
		"command_id", commandID,
		"user_id", userID,
		"intent", intent,
	)
}

// WithSync returns a logger scoped to a provider sync run.
func WithSync(provider, userID string) *slog.Logger {
	return slog.With(
		"provider", provider,
		"user_id", userID,
	)
}
