package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"civicsync-be/services"
	"civicsync-be/utils"
)

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with the admin role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				return errors.New("--password is required")
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Migrate(ctx); err != nil {
				return err
			}

			tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
			auth := services.NewAuthService(st, tokens, cfg.Auth.BcryptCost, log)
			user, err := auth.CreateAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}

			log.Info("admin created", "id", user.ID, "email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
