// Package hooks runs the project setup commands that must finish before the
// test suite starts.
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spboyer/testgrade/internal/execution"
)

// DefaultSetupCommand installs the project's dependencies when no setup
// command is configured.
const DefaultSetupCommand = "npm install"

// HookConfig defines a single hook command.
type HookConfig struct {
	Command string

	// WorkingDirectory is resolved against the runner's Dir when relative.
	WorkingDirectory string

	// ExitCodes lists the acceptable exit codes. Empty means only 0.
	ExitCodes []int

	AllowFailure bool
}

// SetupHook returns h with its command defaulted to [DefaultSetupCommand]
// when blank.
func SetupHook(h HookConfig) HookConfig {
	if strings.TrimSpace(h.Command) == "" {
		slog.Debug("No setup command provided, using default", "command", DefaultSetupCommand)
		h.Command = DefaultSetupCommand
	}
	return h
}

// Runner executes hook commands.
type Runner struct {
	// Exec launches processes. Nil uses [execution.NewRunner].
	Exec execution.Runner

	// Dir is the base directory; relative hook working directories resolve against it.
	Dir string

	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs all hooks for a given lifecycle point in order.
// name identifies the lifecycle point (e.g. "setup") for logging and error context.
func (r *Runner) Execute(ctx context.Context, name string, hooks []HookConfig) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		if err := r.runHook(ctx, name, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runHook(ctx context.Context, name string, index int, h HookConfig) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	parts, err := shellwords.Parse(h.Command)
	if err != nil {
		return fmt.Errorf("hook %s[%d]: parsing command %q: %w", name, index, h.Command, err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	exec := r.Exec
	if exec == nil {
		exec = execution.NewRunner()
	}

	cmd := execution.Command{
		Name:   parts[0],
		Args:   parts[1:],
		Dir:    r.workingDir(h),
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}

	slog.Debug("Executing hook", "hook", name, "index", index, "command", h.Command, "dir", cmd.Dir)

	exitCode, err := exec.Run(ctx, cmd)
	if err != nil {
		return &execution.ExecutionError{Command: h.Command, Err: err}
	}

	if isAcceptableExit(exitCode, h.ExitCodes) {
		return nil
	}

	if !h.AllowFailure {
		return fmt.Errorf("hook %s[%d]: command %q exited with code %d", name, index, h.Command, exitCode)
	}
	slog.Warn("Hook exited with unexpected code (continuing)", "hook", name, "index", index, "exitCode", exitCode)
	return nil
}

func (r *Runner) workingDir(h HookConfig) string {
	switch {
	case h.WorkingDirectory == "":
		return r.Dir
	case filepath.IsAbs(h.WorkingDirectory) || r.Dir == "":
		return h.WorkingDirectory
	default:
		return filepath.Join(r.Dir, h.WorkingDirectory)
	}
}

// isAcceptableExit checks whether exitCode is in the allowed list.
// An empty allowedCodes list defaults to allowing only exit code 0.
func isAcceptableExit(exitCode int, allowedCodes []int) bool {
	if len(allowedCodes) == 0 {
		return exitCode == 0
	}
	return slices.Contains(allowedCodes, exitCode)
}
