package main

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard with periodic refresh",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, _, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		return application.Serve(cmd.Context())
	},
}
