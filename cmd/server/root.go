package main

import (
	"fmt"
	"os"

	"gachaactu/backend/internal/config"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/logging"

	"github.com/spf13/cobra"
)

var flagConfigDir string

var rootCmd = &cobra.Command{
	Use:           "gachaactu",
	Short:         "GachaActu API server",
	Long:          "Serve the GachaActu API and manage its database: migrations, seed data and admin accounts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", ".", "Directory holding the .env file")
}

// bootstrap loads the configuration, installs the logger and opens the database.
func bootstrap() (*config.Config, error) {
	logging.Setup(os.Stderr, "info", "text")

	cfg, err := config.LoadConfig(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func closeDatabase() {
	if database.DB == nil {
		return
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
