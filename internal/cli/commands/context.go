// Package commands implements the framelint subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/framelint/framelint/internal/cli/config"
)

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the resolved configuration on a command context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the CLI logger on a command context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ConfigFrom returns the configuration stored by the root command, or a
// zero-value config when none was loaded (e.g. in tests).
func ConfigFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{Format: "text"}
}

// LoggerFrom returns the CLI logger, or a discarding logger.
func LoggerFrom(cmd *cobra.Command) *slog.Logger {
	if l, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
