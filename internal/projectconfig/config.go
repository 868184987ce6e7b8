// Package projectconfig provides the ProjectConfig struct and loader for
// .testgrade.yaml project-level configuration files, plus the overlay of
// GitHub Action inputs on top of it.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mattn/go-shellwords"
	"github.com/spboyer/testgrade/internal/jest"
	"github.com/spboyer/testgrade/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".testgrade.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultOutputName = "result"
	DefaultLocations  = true
	DefaultSummary    = true
)

// maxParentWalk bounds how far Load searches upwards for FileName.
const maxParentWalk = 10

// SetupConfig holds the setup step run before the tests.
type SetupConfig struct {
	// Command is a single command line. Empty means the default install.
	Command string `yaml:"command,omitempty"`

	// WorkingDirectory is relative to the project directory unless absolute.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	// ExitCodes lists the exit codes that count as success. Empty means only 0.
	ExitCodes []int `yaml:"exit_codes,omitempty"`

	Skip         *bool `yaml:"skip,omitempty"`
	AllowFailure *bool `yaml:"allow_failure,omitempty"`
}

// TestConfig holds the test invocation settings.
type TestConfig struct {
	Command   []string `yaml:"command,omitempty"`
	Locations *bool    `yaml:"locations,omitempty"`
	TempDir   string   `yaml:"temp_dir,omitempty"`
}

// OutputConfig holds how the grade result is published.
type OutputConfig struct {
	Name    string `yaml:"name,omitempty"`
	Summary *bool  `yaml:"summary,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .testgrade.yaml.
type ProjectConfig struct {
	Setup  SetupConfig  `yaml:"setup,omitempty"`
	Test   TestConfig   `yaml:"test,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Setup: SetupConfig{
			Skip:         boolPtr(false),
			AllowFailure: boolPtr(false),
		},
		Test: TestConfig{
			Command:   slices.Clone(jest.DefaultCommand),
			Locations: boolPtr(DefaultLocations),
		},
		Output: OutputConfig{
			Name:    DefaultOutputName,
			Summary: boolPtr(DefaultSummary),
		},
	}
}

// Load finds .testgrade.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if errs := validation.ValidateConfigBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", FileName, strings.Join(errs, "; "))
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for FileName.
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxParentWalk; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// Inputs mirrors the action inputs declared in action.yml. The runner hands
// every input over as a string, so booleans are decoded weakly.
type Inputs struct {
	SetupCommand      string `mapstructure:"setup-command"`
	SkipSetup         *bool  `mapstructure:"skip-setup"`
	AllowSetupFailure *bool  `mapstructure:"allow-setup-failure"`
	TestCommand       string `mapstructure:"test-command"`
	OutputName        string `mapstructure:"output-name"`
	Summary           *bool  `mapstructure:"summary"`
}

// ApplyInputs decodes raw action inputs and overlays the ones that are set.
// Unknown inputs are ignored.
func (c *ProjectConfig) ApplyInputs(raw map[string]any) error {
	var in Inputs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return fmt.Errorf("creating input decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding action inputs: %w", err)
	}

	src := ProjectConfig{
		Setup: SetupConfig{
			Command:      in.SetupCommand,
			Skip:         in.SkipSetup,
			AllowFailure: in.AllowSetupFailure,
		},
		Output: OutputConfig{
			Name:    in.OutputName,
			Summary: in.Summary,
		},
	}
	if in.TestCommand != "" {
		parts, err := shellwords.Parse(in.TestCommand)
		if err != nil {
			return fmt.Errorf("parsing test-command %q: %w", in.TestCommand, err)
		}
		src.Test.Command = parts
	}

	mergeConfig(c, &src)
	return nil
}

// SkipSetup reports whether the setup step is disabled.
func (c *ProjectConfig) SkipSetup() bool {
	return c.Setup.Skip != nil && *c.Setup.Skip
}

// AllowSetupFailure reports whether a failing setup command is tolerated.
func (c *ProjectConfig) AllowSetupFailure() bool {
	return c.Setup.AllowFailure != nil && *c.Setup.AllowFailure
}

// Locations reports whether Jest should record test locations.
func (c *ProjectConfig) Locations() bool {
	return c.Test.Locations == nil || *c.Test.Locations
}

// Summary reports whether a job summary should be written.
func (c *ProjectConfig) Summary() bool {
	return c.Output.Summary == nil || *c.Output.Summary
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Setup
	if src.Setup.Command != "" {
		dst.Setup.Command = src.Setup.Command
	}
	if src.Setup.WorkingDirectory != "" {
		dst.Setup.WorkingDirectory = src.Setup.WorkingDirectory
	}
	if len(src.Setup.ExitCodes) > 0 {
		dst.Setup.ExitCodes = slices.Clone(src.Setup.ExitCodes)
	}
	if src.Setup.Skip != nil {
		dst.Setup.Skip = src.Setup.Skip
	}
	if src.Setup.AllowFailure != nil {
		dst.Setup.AllowFailure = src.Setup.AllowFailure
	}

	// Test
	if len(src.Test.Command) > 0 {
		dst.Test.Command = slices.Clone(src.Test.Command)
	}
	if src.Test.Locations != nil {
		dst.Test.Locations = src.Test.Locations
	}
	if src.Test.TempDir != "" {
		dst.Test.TempDir = src.Test.TempDir
	}

	// Output
	if src.Output.Name != "" {
		dst.Output.Name = src.Output.Name
	}
	if src.Output.Summary != nil {
		dst.Output.Summary = src.Output.Summary
	}
}

func boolPtr(b bool) *bool {
	return &b
}
