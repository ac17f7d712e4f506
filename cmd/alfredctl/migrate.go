package main

import (
	"context"
	"errors"
	"time"

	"alfred/internal/app"
	"alfred/internal/config"
	dbpostgres "alfred/internal/database/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		lg, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = lg.Sync() }()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return errors.New("DB_HOST is not set")
		}
		if dir == "" {
			dir = cfg.Database.MigrationsDir
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database, lg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := app.RunMigrations(ctx, db, dir, lg); err != nil {
			return err
		}
		lg.Info("migrations applied", zap.String("dir", dir))
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("dir", "", "directory of V<n>__name.sql files (default: embedded schema)")

	rootCmd.AddCommand(migrateCmd)
}
