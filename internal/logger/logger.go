// Package logger builds the process-wide slog logger for the identity API.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/myidentityapi/backend-go/internal/config"
)

// New constructs the logger and installs it as the slog default. Production
// deployments emit JSON for log aggregation; everywhere else the text handler
// keeps output readable.
func New(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if strings.EqualFold(cfg.AppEnv, "production") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
