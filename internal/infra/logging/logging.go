package logging

import (
	"log/slog"
	"os"
)

// SetupJSON replaces slog's default logger with a JSON handler at the
// given level, tagging every record with the emitting service.
func SetupJSON(service string, level slog.Level) {
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	).With(slog.String("service", service))

	slog.SetDefault(logger)
}
