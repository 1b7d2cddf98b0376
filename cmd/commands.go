package main

import (
	"context"
	"fmt"
	"time"

	"baby-visit-scheduler/cmd/bootstrap"
	"baby-visit-scheduler/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "baby-visit-scheduler",
		Short:        "Visit scheduling service for newborn families",
		SilenceUsage: true,
	}

	serve := newServeCommand()
	root.AddCommand(serve, newMigrateCommand(), newSyncCacheCommand())

	// running the binary without a subcommand serves the API
	root.RunE = serve.RunE
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			if cfg.App.AutoMigrate {
				if err := database.MigrateUp(cfg.DB); err != nil {
					return fmt.Errorf("auto migrate: %w", err)
				}
			}

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DB)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DB, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(up, down)
	return migrateCmd
}

func newSyncCacheCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "sync-cache",
		Short: "Rebuild the Redis occupancy counters of upcoming slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return app.OccupancyCache.SyncOnStartup(ctx)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "maximum time for the rebuild")
	return cmd
}
