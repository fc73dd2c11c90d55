package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/pkg/logger"
)

var (
	configPath string

	cfg *config.Config
	log zerolog.Logger
)

// rootCmd starts the server when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "leadsite-api",
	Short: "Backend for the lead-generation website",
	Long: `leadsite-api serves the offer and contact forms, the testimonial
moderation workflow, the deal map and the uploaded testimonial videos.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = logger.New(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateGotoCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
