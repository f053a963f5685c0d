package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"restoivr/internal/config"
	"restoivr/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
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

			n, err := migrate.Up(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
