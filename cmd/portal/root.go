package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-portal/internal/app"
	"github.com/mind-engage/mindengage-portal/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "portal",
	Short:        "Education portal: authoring, submissions and grading",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./portal.yaml when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(seedCmd)
}

func loadApp(cmd *cobra.Command) (*app.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return app.New(cmdContext(cmd), cfg)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
