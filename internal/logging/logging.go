package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger tagged with the service name as the
// process-wide default.
func Setup(service string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(h).With("service", service)
	slog.SetDefault(logger)
	return logger
}
