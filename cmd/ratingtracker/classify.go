package main

import (
	"strings"

	"github.com/spf13/cobra"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/display"
	"RatingActionTracker/internal/logging"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text...>",
	Short: "Classify a press-release title (and optional summary) without fetching",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		cls := classifier.New(logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level))

		text := strings.Join(args, " ")
		return display.RenderResult(cmd.OutOrStdout(), text, cls.Classify(text))
	},
}
