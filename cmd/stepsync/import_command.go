package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/pkordes/stepsync/internal/repo"
	"github.com/pkordes/stepsync/internal/service"
	"github.com/pkordes/stepsync/migrations"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var tripID int64

	cmd := &cobra.Command{
		Use:   "import <trip_dir>",
		Short: "Copy an export into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			log := ctx.logger()
			runCtx := cmd.Context()

			pool, err := pgxpool.New(runCtx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("create database pool: %w", err)
			}
			defer pool.Close()
			if err := pool.Ping(runCtx); err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}

			// goose drives database/sql; the handle borrows the pool's connections.
			sqlDB := stdlib.OpenDBFromPool(pool)
			defer sqlDB.Close()
			applied, err := migrations.Up(runCtx, sqlDB)
			if err != nil {
				return err
			}
			log.Debug("migrations applied", "count", applied)

			tx, err := pool.Begin(runCtx)
			if err != nil {
				return fmt.Errorf("begin transaction: %w", err)
			}
			defer func() { _ = tx.Rollback(runCtx) }()

			imports := service.NewImportService(
				ctx.tripLoader(),
				service.NewLocationLoader(),
				repo.NewTripRepo(tx),
				repo.NewLocationRepo(tx),
				log,
			)
			res, err := imports.Import(runCtx, args[0], tripID)
			if err != nil {
				return err
			}
			if err := tx.Commit(runCtx); err != nil {
				return fmt.Errorf("commit import: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported trip %s: %d steps, %d comments, %d locations\n",
				res.TripID, res.Steps, res.Comments, res.Locations)
			return nil
		},
	}

	cmd.Flags().Int64Var(&tripID, "trip-id", 0, "Remote trip id to record")
	return cmd
}
