// Package cmd holds the civicsync command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"civicsync-be/config"
	"civicsync-be/logger"
	"civicsync-be/store"
	"civicsync-be/store/mongostore"
	"civicsync-be/store/sqlstore"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "civicsync",
		Short:         "CivicSync - civic issue reporting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the server.
		RunE: runServe,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newCreateAdminCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the config and builds the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// openStore connects the store selected by database.driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (store.Store, error) {
	if cfg.IsMongo() {
		st, err := mongostore.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("connected to MongoDB", "database", cfg.Name)
		return st, nil
	}

	st, err := sqlstore.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("connected to SQL database", "driver", cfg.Driver)
	return st, nil
}
