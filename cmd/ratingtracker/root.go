package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"RatingActionTracker/internal/app"
	"RatingActionTracker/internal/config"
	"RatingActionTracker/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "ratingtracker",
	Short:        "Track credit rating upgrades and downgrades",
	Long:         "ratingtracker polls rating agency press releases and flags upgrades and downgrades in the B, BB and BBB band.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history database (overrides DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
}

// loadConfig returns the config with --db and --log-level applied on top.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	return cfg
}

func buildApp(cmd *cobra.Command) (*app.Application, *slog.Logger, error) {
	cfg := loadConfig(cmd)
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return application, logger, nil
}
