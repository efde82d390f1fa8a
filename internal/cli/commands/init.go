package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tollgen/internal/engine"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema tables in the target database",
		Long: `Create every table of the schema in the target database. Existing
tables are left untouched, so init can be re-run safely. A table that
fails to compile or create is reported and the others are still created.`,
		Example: `  tollgen init --host db.internal --user loader`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
				results, err := eng.Init(ctx)
				if err != nil {
					return err
				}
				renderTableResults(cmd.OutOrStdout(), results)

				failed := 0
				for _, r := range results {
					if !r.OK() {
						failed++
					}
				}
				if failed > 0 {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d tables could not be created\n", failed, len(results))
				}
				return nil
			})
		},
	}
}
