package main

import (
	"fmt"
	"strings"

	"github.com/spboyer/testgrade/internal/models"
	"github.com/spboyer/testgrade/internal/validation"
	"github.com/spf13/cobra"
)

func newDecodeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [value|-]",
		Short: "Decode and validate a published result output",
		Long: `Decode a base64 result output back into JSON and check it against the
result schema. Reads standard input when no value is given or the value is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var encoded string
			if len(args) == 1 && args[0] != "-" {
				encoded = args[0]
			} else {
				data, err := readInput(cmd.InOrStdin(), nil)
				if err != nil {
					return err
				}
				encoded = string(data)
			}

			result, raw, err := models.DecodeResult(strings.TrimSpace(encoded))
			if err != nil {
				return err
			}

			if errs := validation.ValidateResult(raw); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), "  "+e) //nolint:errcheck
				}
				return &RunFailedError{Err: fmt.Errorf("result does not match schema: %d violation(s)", len(errs))}
			}

			return writeResult(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: "+strings.Join(outputFormats, ", "))

	return cmd
}
