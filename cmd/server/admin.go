package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"restoivr/internal/config"
	"restoivr/internal/repository"
	"restoivr/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage staff accounts of the admin API",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var email, password string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			ctx := context.Background()
			d, err := openDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			svc := service.NewAdminAuthService(repository.NewAdminAuthRepository(d), cfg.JWTSecret)
			if err := svc.CreateAdmin(ctx, email, password); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", email)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "staff email used to log in")
	c.Flags().StringVar(&password, "password", "", "initial password")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
