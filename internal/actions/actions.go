// Package actions adapts the GitHub Actions toolkit to the grader: reading
// inputs, publishing outputs and failing the step.
package actions

import (
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// Environment variables set by the Actions runner.
const (
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvOutputFile    = "GITHUB_OUTPUT"
	EnvSummaryFile   = "GITHUB_STEP_SUMMARY"
	EnvRunnerDebug   = "RUNNER_DEBUG"
)

// Toolkit talks to the Actions runner through the process environment and stdout.
type Toolkit struct {
	action *githubactions.Action
	getenv func(string) string
}

// Default is the toolkit bound to the real process environment.
var Default = New(nil, nil)

// New creates a [Toolkit]. A nil getenv uses os.Getenv and a nil w writes
// workflow commands to os.Stdout.
func New(getenv func(string) string, w io.Writer) *Toolkit {
	if getenv == nil {
		getenv = os.Getenv
	}
	if w == nil {
		w = os.Stdout
	}
	return &Toolkit{
		action: githubactions.New(
			githubactions.WithGetenv(getenv),
			githubactions.WithWriter(w),
		),
		getenv: getenv,
	}
}

// InActions reports whether the process runs inside a GitHub Actions job.
func (tk *Toolkit) InActions() bool {
	return tk.getenv(EnvGitHubActions) == "true"
}

// IsDebug reports whether step debug logging is enabled for the job.
func (tk *Toolkit) IsDebug() bool {
	return tk.getenv(EnvRunnerDebug) == "1"
}

// Inputs returns the named action inputs that are set, keyed by name.
func (tk *Toolkit) Inputs(names ...string) map[string]any {
	inputs := map[string]any{}
	for _, name := range names {
		if v := tk.action.GetInput(name); v != "" {
			inputs[name] = v
		}
	}
	return inputs
}

// SetOutput publishes a step output through GITHUB_OUTPUT, falling back to
// the set-output workflow command when the file is not available.
func (tk *Toolkit) SetOutput(name, value string) {
	tk.action.SetOutput(name, value)
}

// AppendSummary appends Markdown to the job summary. It is a no-op outside
// of Actions.
func (tk *Toolkit) AppendSummary(markdown string) {
	if tk.getenv(EnvSummaryFile) == "" {
		return
	}
	tk.action.AddStepSummary(markdown)
}

// SetFailed reports message as an error annotation. The process exit code
// marks the step failed.
func (tk *Toolkit) SetFailed(message string) {
	tk.action.Errorf("%s", message)
}
