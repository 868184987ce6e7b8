// Package jest runs a project's Jest suite and captures its JSON report.
package jest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spboyer/testgrade/internal/execution"
)

const (
	tempDirPattern = "jest-output-*"
	outputFileName = "jest-output.json"
)

// DefaultCommand is the base test invocation; report flags are appended after it.
var DefaultCommand = []string{"npm", "run", "test", "--"}

// ExecutionError means the test command could not be launched at all.
type ExecutionError = execution.ExecutionError

// testEnv marks the run as non-interactive so Jest and npm skip watch mode
// and prompts.
var testEnv = []string{"CI=true"}

// IOError means the report file could not be read after the command returned,
// typically because the test process died before writing it.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading test report %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// RunnerArgs configures a [Runner].
type RunnerArgs struct {
	// Exec launches processes. Defaults to [execution.NewRunner].
	Exec execution.Runner

	// Command is the base test command. Defaults to [DefaultCommand].
	Command []string

	// Dir is the project directory the command runs in.
	Dir string

	// TempRoot is the parent of the per-run output directory. Empty uses os.TempDir.
	TempRoot string

	// Locations asks Jest to record where each test is declared.
	Locations bool

	// Stdout and Stderr receive the test command's console output.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner captures Jest's machine-readable report for one test run.
type Runner struct {
	exec      execution.Runner
	command   []string
	dir       string
	tempRoot  string
	locations bool
	stdout    io.Writer
	stderr    io.Writer
}

// NewRunner creates a [Runner].
func NewRunner(args RunnerArgs) *Runner {
	r := &Runner{
		exec:      args.Exec,
		command:   args.Command,
		dir:       args.Dir,
		tempRoot:  args.TempRoot,
		locations: args.Locations,
		stdout:    args.Stdout,
		stderr:    args.Stderr,
	}
	if r.exec == nil {
		r.exec = execution.NewRunner()
	}
	if len(r.command) == 0 {
		r.command = DefaultCommand
	}
	return r
}

// ReportArgs returns the flags that make Jest write a single quiet JSON
// report to outputFile.
func ReportArgs(outputFile string, locations bool) []string {
	args := []string{
		"--json",
		"--no-color",
		"--no-coverage",
		"--no-watch",
		"--noStackTrace",
		"--outputFile=" + outputFile,
		"--silent",
	}
	if locations {
		args = append(args, "--testLocationInResults")
	}
	return args
}

// RunTests runs the suite and returns the raw report text.
//
// The exit code of the test command is ignored: a failing suite is still a
// successful capture, and the report's own success flag decides pass or fail.
// The temporary output directory is removed before RunTests returns.
func (r *Runner) RunTests(ctx context.Context) (string, error) {
	slog.Debug("Running tests with Jest", "dir", r.dir)
	start := time.Now()

	outputDir, err := os.MkdirTemp(r.tempRoot, tempDirPattern)
	if err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(outputDir); err != nil {
			slog.Warn("Failed to remove report directory", "path", outputDir, "error", err)
		}
	}()

	outputFile := filepath.Join(outputDir, outputFileName)
	slog.Debug("Using temporary directory", "path", outputDir)

	cmd := execution.Command{
		Name:   r.command[0],
		Args:   append(append([]string{}, r.command[1:]...), ReportArgs(outputFile, r.locations)...),
		Dir:    r.dir,
		Env:    testEnv,
		Stdout: r.stdout,
		Stderr: r.stderr,
	}

	exitCode, err := r.exec.Run(ctx, cmd)
	if err != nil {
		slog.Debug("Error during test execution", "error", err)
		return "", &ExecutionError{Command: cmd.String(), Err: err}
	}
	slog.Debug("Test command finished", "exitCode", exitCode, "duration", time.Since(start))

	data, err := os.ReadFile(outputFile)
	if err != nil {
		slog.Debug("Error during test execution", "error", err)
		return "", &IOError{Path: outputFile, Err: err}
	}
	return string(data), nil
}
