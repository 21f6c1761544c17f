package main

import (
	"fmt"
	"log/slog"

	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/seed"

	"github.com/spf13/cobra"
)

var (
	flagSeedFile      string
	flagAdminName     string
	flagAdminEmail    string
	flagAdminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		defer closeDatabase()
		return database.Migrate(database.DB)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert platforms, games, tags and tier lists from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDatabase()

		if err := database.Migrate(database.DB); err != nil {
			return err
		}

		path := flagSeedFile
		if path == "" {
			path = cfg.SeedFile
		}
		file, err := seed.Load(path)
		if err != nil {
			return err
		}
		res, err := seed.Apply(database.DB, file)
		if err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}

		slog.Info("seed applied", "file", path,
			"platforms", res.Platforms, "games", res.Games, "tags", res.Tags, "tier_lists", res.TierLists)
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		defer closeDatabase()

		if err := database.Migrate(database.DB); err != nil {
			return err
		}

		user, created, err := seed.EnsureAdmin(database.DB, flagAdminName, flagAdminEmail, flagAdminPassword)
		if err != nil {
			return err
		}
		if created {
			slog.Info("admin created", "id", user.ID, "name", user.Name)
		} else {
			slog.Info("user promoted to admin", "id", user.ID, "name", user.Name)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&flagSeedFile, "file", "f", "", "Seed file (defaults to SEED_FILE)")

	createAdminCmd.Flags().StringVar(&flagAdminName, "name", "", "Account name")
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Account email")
	createAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "Account password (8 characters minimum)")
	for _, name := range []string{"name", "email", "password"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd)
}
