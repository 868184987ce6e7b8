package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Result published
	ExitRunFailed = 1 // Setup, test execution or report parsing failed
	ExitError     = 2 // Usage or configuration error
)

// RunFailedError indicates that grading itself failed after the command
// line and configuration were accepted. It has already been reported to the
// workflow log by the time it reaches main.
type RunFailedError struct {
	Err error
}

func (e *RunFailedError) Error() string {
	return e.Err.Error()
}

func (e *RunFailedError) Unwrap() error {
	return e.Err
}

func main() {
	if err := execute(); err != nil {
		var runErr *RunFailedError
		if errors.As(err, &runErr) {
			os.Exit(ExitRunFailed)
		}

		// All other errors are usage/configuration errors
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitError)
	}
}
