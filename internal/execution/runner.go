// Package execution launches external commands for the setup and test steps.
package execution

//go:generate go tool mockgen -source runner.go -destination mocks/mock_runner.go -package mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Command describes a single process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is appended to the inherited environment.
	Env []string

	// Stdout and Stderr receive the process output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Runner starts a command and waits for it to exit.
type Runner interface {
	// Run returns the exit code of the finished process. An error is only
	// returned when the process could not be started or waited on, or when
	// ctx ended before it exited; a non-zero exit code on its own is not an
	// error.
	Run(ctx context.Context, cmd Command) (int, error)
}

// NewRunner returns a [Runner] backed by os/exec.
func NewRunner() Runner {
	return &execRunner{}
}

// waitDelay bounds how long Wait blocks on I/O after the process is killed.
const waitDelay = 5 * time.Second

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, c Command) (int, error) {
	//nolint:gosec // commands come from the project's own configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return -1, err
	}

	// Both pipes must be drained before Wait closes them.
	var g errgroup.Group
	g.Go(func() error { return forward(c.Stdout, stdout) })
	g.Go(func() error { return forward(c.Stderr, stderr) })
	copyErr := g.Wait()

	waitErr := cmd.Wait()
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, waitErr
	}
	if copyErr != nil {
		return 0, fmt.Errorf("forwarding output of %s: %w", c.Name, copyErr)
	}
	return 0, nil
}

func forward(w io.Writer, r io.Reader) error {
	if w == nil {
		w = io.Discard
	}
	_, err := io.Copy(w, r)
	return err
}
