package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spboyer/testgrade/internal/models"
	"github.com/spboyer/testgrade/internal/normalize"
	"github.com/spf13/cobra"
)

// Output formats shared by parse and decode.
const (
	formatJSON     = "json"
	formatBase64   = "base64"
	formatMarkdown = "markdown"
	formatTable    = "table"
)

var outputFormats = []string{formatJSON, formatBase64, formatMarkdown, formatTable}

func newParseCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [report.json|-]",
		Short: "Normalize an existing Jest JSON report",
		Long: `Normalize a Jest JSON report (as written by jest --json --outputFile) into the
grade result that run would publish. Reads standard input when no file is
given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			result, err := normalize.ParseReport(string(data))
			if err != nil {
				return &RunFailedError{Err: err}
			}
			return writeResult(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: "+strings.Join(outputFormats, ", "))

	return cmd
}

// readInput returns the contents of the single file argument, or of r when
// there is none or it is "-".
func readInput(r io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

func writeResult(w io.Writer, result *models.GradeResult, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling grade result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatBase64:
		encoded, err := result.Encode()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, encoded)
		return err
	case formatMarkdown:
		_, err := io.WriteString(w, FormatSummary(result))
		return err
	case formatTable:
		printResult(w, result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(outputFormats, ", "))
	}
}
