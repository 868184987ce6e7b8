package main

import (
	"io"

	"github.com/spboyer/testgrade/schemas"
	"github.com/spf13/cobra"
)

func newSchemaCommand() *cobra.Command {
	var config bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the published result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := schemas.ResultSchemaJSON
			if config {
				schema = schemas.ConfigSchemaJSON
			}
			_, err := io.WriteString(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&config, "config", false, "Print the .testgrade.yaml schema instead")

	return cmd
}
