package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/bootstrap"
	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/store"
	"github.com/applyscore/applyscore/pkg/config"
)

// openStore loads the configuration named by --config and opens its store.
// An info log level is lowered to warn so command output stays readable.
func openStore(ctx context.Context, cmd *cobra.Command) (store.Store, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if level == "" || level == "info" {
		level = "warn"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		return nil, nil, err
	}
	s, err := bootstrap.OpenStore(ctx, cfg.Database, logger.With(zap.String("component", "cli")))
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
