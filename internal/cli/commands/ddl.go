package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tollgen/internal/cli/config"
	"github.com/leapstack-labs/tollgen/pkg/ddl"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

// NewDDLCommand creates the ddl command.
func NewDDLCommand() *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "ddl [object-type...]",
		Short: "Print the CREATE TABLE statements for the schema",
		Long: `Compile the schema into CREATE TABLE IF NOT EXISTS statements for a
dialect without connecting to a database. The dialect defaults to the
configured target type.`,
		Example: `  # DDL for the configured target
  tollgen ddl

  # Postgres DDL for two tables
  tollgen ddl --dialect postgres EntryTransaction ExitTransaction`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			name := dialectName
			if name == "" {
				name = cfg.Target.Type
			}
			d, err := dialect.Lookup(name)
			if err != nil {
				return err
			}
			s, err := loadSchema(cfg.Schema)
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = s.TableNames()
			}
			for i, n := range names {
				ot, ok := s.ObjectType(n)
				if !ok {
					return fmt.Errorf("unknown object type %q", n)
				}
				text, err := ddl.Compile(ot, d)
				if err != nil {
					return fmt.Errorf("%s: %w", n, err)
				}
				if i > 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "", "SQL dialect (mysql, postgres, sqlite, duckdb)")
	_ = cmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
