package main

import (
	"github.com/spf13/cobra"

	"github.com/leadsite-api/internal/metrics"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete orphaned testimonial media once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildServices(cmd.Context(), cfg, metrics.Noop())
		if err != nil {
			return err
		}
		defer b.close()

		removed, err := b.services.Sweeper.SweepOnce(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().Int("removed", removed).Msg("Media sweep complete")
		return nil
	},
}
