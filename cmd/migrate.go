package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables, collections and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Migrate(ctx); err != nil {
				return err
			}
			log.Info("migration completed", "driver", cfg.Database.Driver)
			return nil
		},
	}
}
