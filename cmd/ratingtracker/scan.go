package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"RatingActionTracker/internal/display"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/export"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Fetch every agency once and print the classified actions",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("action", "All", "Show only: All, Upgrades, Downgrades, Reaffirmed, Unchanged, Unknown")
	scanCmd.Flags().String("agency", "", "Show only this agency")
	scanCmd.Flags().String("csv", "", "Also write the filtered table to this CSV file")
}

func runScan(cmd *cobra.Command, _ []string) error {
	application, logger, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	snap, err := application.RunOnce(cmd.Context())
	if err != nil {
		if snap.FetchedAt.IsZero() {
			return err
		}
		logger.Warn("refresh finished with errors", "error", err)
	}

	action, _ := cmd.Flags().GetString("action")
	agency, _ := cmd.Flags().GetString("agency")
	records := domain.ParseFilter(action, agency).Apply(snap.Records)

	if err := display.RenderTable(cmd.OutOrStdout(), records); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("csv")
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, records); err != nil {
		return err
	}
	logger.Info("csv written", "path", path, "rows", len(records))
	return nil
}
