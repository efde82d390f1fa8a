package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tollgen/internal/engine"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts of the schema tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
				counts, err := eng.Stats(ctx)
				if err != nil {
					return err
				}
				renderStats(cmd.OutOrStdout(), eng.Schema(), counts)
				return nil
			})
		},
	}
}
