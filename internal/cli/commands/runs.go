package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tollgen/internal/cli/config"
	"github.com/leapstack-labs/tollgen/internal/engine"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent generation runs",
		Long: `List recent generation runs recorded in the state database, newest
first. The trip index of the next run continues after the last completed
run for the same target.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if config.GetConfig(cmd.Context()).StatePath == "" {
				return errors.New("run history is disabled (empty --state)")
			}
			return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
				runs, err := eng.Runs(ctx, limit)
				if err != nil {
					return err
				}
				renderRuns(cmd.OutOrStdout(), runs)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
