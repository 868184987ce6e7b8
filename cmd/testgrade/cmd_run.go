package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spboyer/testgrade/internal/actions"
	"github.com/spboyer/testgrade/internal/execution"
	"github.com/spboyer/testgrade/internal/hooks"
	"github.com/spboyer/testgrade/internal/jest"
	"github.com/spboyer/testgrade/internal/models"
	"github.com/spboyer/testgrade/internal/normalize"
	"github.com/spboyer/testgrade/internal/projectconfig"
	"github.com/spboyer/testgrade/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// inputFlags are the run flags that share a name with an action input. When
// set they are decoded exactly like the input would be, after the inputs.
var inputFlags = []string{
	"setup-command",
	"skip-setup",
	"allow-setup-failure",
	"test-command",
	"output-name",
	"summary",
}

type runOptions struct {
	dir     string
	tempDir string

	toolkit *actions.Toolkit
	exec    execution.Runner
}

func newRunCommand() *cobra.Command {
	return newRunCommandWith(actions.Default, execution.NewRunner())
}

func newRunCommandWith(tk *actions.Toolkit, exec execution.Runner) *cobra.Command {
	opts := &runOptions{toolkit: tk, exec: exec}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Jest suite and publish the grade result",
		Long: `Run the project's setup command, then the Jest suite with JSON reporting,
and publish the normalized result as a base64 encoded action output.

Settings are read from .testgrade.yaml, then from the action inputs
(INPUT_* environment variables), then from the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Project directory to run the setup and tests in")
	cmd.Flags().StringVar(&opts.tempDir, "temp-dir", "", "Parent directory for the temporary report directory (default: system temp)")
	cmd.Flags().String("setup-command", "", "Setup command to run before the tests (default: npm install)")
	cmd.Flags().Bool("skip-setup", false, "Do not run a setup command")
	cmd.Flags().Bool("allow-setup-failure", false, "Continue when the setup command exits non-zero")
	cmd.Flags().String("test-command", "", "Test command the Jest report flags are appended to (default: npm run test --)")
	cmd.Flags().String("output-name", "", "Name of the action output (default: result)")
	cmd.Flags().Bool("summary", true, "Write a job summary when running in GitHub Actions")

	return cmd
}

func runCommandE(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadRunConfig(cmd.Flags(), opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := grade(ctx, opts.exec, cfg, opts.dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err == nil {
		err = publish(opts.toolkit, cfg, result)
	}
	if err != nil {
		slog.Debug("Grading failed", "error", err)
		opts.toolkit.SetFailed(err.Error())
		return &RunFailedError{Err: err}
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

// loadRunConfig layers .testgrade.yaml, action inputs and flags, in that order.
func loadRunConfig(flags *pflag.FlagSet, opts *runOptions) (*projectconfig.ProjectConfig, error) {
	cfg, err := projectconfig.Load(opts.dir)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyInputs(opts.toolkit.Inputs(inputFlags...)); err != nil {
		return nil, err
	}

	changed := map[string]any{}
	for _, name := range inputFlags {
		if f := flags.Lookup(name); f != nil && f.Changed {
			changed[name] = f.Value.String()
		}
	}
	if err := cfg.ApplyInputs(changed); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}

	if opts.tempDir != "" {
		cfg.Test.TempDir = opts.tempDir
	}
	return cfg, nil
}

// grade runs setup and the test suite and normalizes the report.
func grade(ctx context.Context, exec execution.Runner, cfg *projectconfig.ProjectConfig, dir string, stdout, stderr io.Writer) (*models.GradeResult, error) {
	if cfg.SkipSetup() {
		slog.Info("Skipping setup")
	} else {
		setup := &hooks.Runner{Exec: exec, Dir: dir, Stdout: stdout, Stderr: stderr}
		hook := hooks.SetupHook(hooks.HookConfig{
			Command:          cfg.Setup.Command,
			WorkingDirectory: cfg.Setup.WorkingDirectory,
			ExitCodes:        cfg.Setup.ExitCodes,
			AllowFailure:     cfg.AllowSetupFailure(),
		})
		if err := setup.Execute(ctx, "setup", []hooks.HookConfig{hook}); err != nil {
			return nil, err
		}
	}

	runner := jest.NewRunner(jest.RunnerArgs{
		Exec:      exec,
		Command:   cfg.Test.Command,
		Dir:       dir,
		TempRoot:  cfg.Test.TempDir,
		Locations: cfg.Locations(),
		Stdout:    stdout,
		Stderr:    stderr,
	})
	report, err := runner.RunTests(ctx)
	if err != nil {
		return nil, err
	}

	return normalize.ParseReport(report)
}

// publish sets the encoded result output and, when enabled, the job summary.
// Schema violations are reported as warnings only.
func publish(tk *actions.Toolkit, cfg *projectconfig.ProjectConfig, result *models.GradeResult) error {
	encoded, err := result.Encode()
	if err != nil {
		return err
	}

	if _, raw, err := models.DecodeResult(encoded); err == nil {
		for _, v := range validation.ValidateResult(raw) {
			slog.Warn("Result does not match schema", "violation", v)
		}
	}

	tk.SetOutput(cfg.Output.Name, encoded)
	slog.Debug("Published result", "output", cfg.Output.Name, "status", result.Status, "maxScore", result.MaxScore)

	if cfg.Summary() && tk.InActions() {
		tk.AppendSummary(FormatSummary(result))
	}
	return nil
}
