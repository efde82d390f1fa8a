package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tollgen/internal/cli/config"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [object-type]",
		Short: "Show the object and link types of the schema",
		Long: `List the object types and link types of the loaded schema.

With an object type name, list its properties, their storage types and
which of them form the primary key.`,
		Example: `  # Embedded schema
  tollgen schema

  # Properties of one object type from a custom document
  tollgen schema ClearResult --schema ./ontology.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(config.GetConfig(cmd.Context()).Schema)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				renderObjectTypes(cmd.OutOrStdout(), s)
				return nil
			}
			ot, ok := s.ObjectType(args[0])
			if !ok {
				return fmt.Errorf("unknown object type %q", args[0])
			}
			renderProperties(cmd.OutOrStdout(), ot)
			return nil
		},
	}
}
