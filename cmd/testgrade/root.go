package main

import (
	"io"
	"log/slog"

	"github.com/spboyer/testgrade/internal/actions"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testgrade",
		Short: "testgrade - grade a Jest test run for CI",
		Long: `testgrade runs a project's Jest suite, normalizes the JSON report into a
versioned grading summary and publishes it as a base64 encoded GitHub Action output.

Outside of GitHub Actions the parse, decode and schema commands help inspect
reports and published results locally.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging(actions.Default, cmd.OutOrStdout(), *debugLogging)
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newParseCommand())
	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newSchemaCommand())

	return cmd
}

// configureLogging routes slog through workflow commands when running in
// GitHub Actions. Debug output is enabled by --debug or by re-running the
// job with debug logging (RUNNER_DEBUG=1).
func configureLogging(tk *actions.Toolkit, w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug || tk.IsDebug() {
		level = slog.LevelDebug
	}

	if tk.InActions() {
		slog.SetDefault(slog.New(actions.NewHandler(w, level)))
		return
	}
	slog.SetLogLoggerLevel(level)
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
