package main

import (
	"context"
	"errors"
	"time"

	"alfred/internal/config"
	dbpostgres "alfred/internal/database/postgres"
	"alfred/internal/database/seeder"
	"alfred/internal/repository"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the members listed in a roster file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")

		lg, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = lg.Sync() }()

		roster, err := loadRoster(file)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return errors.New("DB_HOST is not set")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database, lg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		return seeder.Runner{Seeders: []seeder.Seeder{
			seeder.MembersSeeder{
				Repo:    repository.NewPostgresMemberRepository(db),
				DB:      db,
				Members: roster,
				Logger:  lg,
			},
		}}.Run(ctx)
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "roster file with a members list")
	if err := seedCmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(seedCmd)
}
