package projectconfig

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Setup
	assertEqual(t, "Setup.Command", "", cfg.Setup.Command)
	assertBoolPtr(t, "Setup.Skip", false, cfg.Setup.Skip)
	assertBoolPtr(t, "Setup.AllowFailure", false, cfg.Setup.AllowFailure)

	// Test
	assertStrings(t, "Test.Command", []string{"npm", "run", "test", "--"}, cfg.Test.Command)
	assertBoolPtr(t, "Test.Locations", true, cfg.Test.Locations)
	assertEqual(t, "Test.TempDir", "", cfg.Test.TempDir)

	// Output
	assertEqual(t, "Output.Name", "result", cfg.Output.Name)
	assertBoolPtr(t, "Output.Summary", true, cfg.Output.Summary)
}

func TestNew_DoesNotShareDefaultCommand(t *testing.T) {
	cfg := New()
	cfg.Test.Command[0] = "yarn"

	assertEqual(t, "fresh Test.Command[0]", "npm", New().Test.Command[0])
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
setup:
  command: npm ci --ignore-scripts
  working_directory: web
  exit_codes: [0, 1]
  skip: false
  allow_failure: true
test:
  command: [yarn, jest, --ci]
  locations: false
  temp_dir: /scratch
output:
  name: grade
  summary: false
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Setup.Command", "npm ci --ignore-scripts", cfg.Setup.Command)
	assertEqual(t, "Setup.WorkingDirectory", "web", cfg.Setup.WorkingDirectory)
	if !slices.Equal(cfg.Setup.ExitCodes, []int{0, 1}) {
		t.Errorf("Setup.ExitCodes = %v, want [0 1]", cfg.Setup.ExitCodes)
	}
	assertBoolPtr(t, "Setup.Skip", false, cfg.Setup.Skip)
	assertBoolPtr(t, "Setup.AllowFailure", true, cfg.Setup.AllowFailure)
	assertStrings(t, "Test.Command", []string{"yarn", "jest", "--ci"}, cfg.Test.Command)
	assertBoolPtr(t, "Test.Locations", false, cfg.Test.Locations)
	assertEqual(t, "Test.TempDir", "/scratch", cfg.Test.TempDir)
	assertEqual(t, "Output.Name", "grade", cfg.Output.Name)
	assertBoolPtr(t, "Output.Summary", false, cfg.Output.Summary)

	if !cfg.AllowSetupFailure() || cfg.SkipSetup() || cfg.Locations() || cfg.Summary() {
		t.Errorf("accessors disagree with loaded values: %+v", cfg)
	}
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	assertEqual(t, "Output.Name", defaults.Output.Name, cfg.Output.Name)
	assertStrings(t, "Test.Command", defaults.Test.Command, cfg.Test.Command)
	if !cfg.Locations() || !cfg.Summary() || cfg.SkipSetup() || cfg.AllowSetupFailure() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
setup:
  command: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
output:
  name: found-it
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Output.Name", "found-it", cfg.Output.Name)
	// Other defaults still populated
	assertStrings(t, "Test.Command", []string{"npm", "run", "test", "--"}, cfg.Test.Command)
}

func TestApplyInputs(t *testing.T) {
	t.Run("overrides set inputs", func(t *testing.T) {
		cfg := New()
		err := cfg.ApplyInputs(map[string]any{
			"setup-command":       `echo "Setting up..."`,
			"skip-setup":          "true",
			"allow-setup-failure": "1",
			"test-command":        `npx jest --config "jest.ci.config.js"`,
			"output-name":         "grade",
			"summary":             "false",
			"unrelated":           "ignored",
		})
		if err != nil {
			t.Fatalf("ApplyInputs() error: %v", err)
		}

		assertEqual(t, "Setup.Command", `echo "Setting up..."`, cfg.Setup.Command)
		assertBoolPtr(t, "Setup.Skip", true, cfg.Setup.Skip)
		assertBoolPtr(t, "Setup.AllowFailure", true, cfg.Setup.AllowFailure)
		assertStrings(t, "Test.Command", []string{"npx", "jest", "--config", "jest.ci.config.js"}, cfg.Test.Command)
		assertEqual(t, "Output.Name", "grade", cfg.Output.Name)
		assertBoolPtr(t, "Output.Summary", false, cfg.Output.Summary)
	})

	t.Run("no inputs keeps config", func(t *testing.T) {
		cfg := New()
		cfg.Setup.Command = "make deps"
		if err := cfg.ApplyInputs(map[string]any{}); err != nil {
			t.Fatalf("ApplyInputs() error: %v", err)
		}
		assertEqual(t, "Setup.Command", "make deps", cfg.Setup.Command)
		assertBoolPtr(t, "Setup.Skip", false, cfg.Setup.Skip)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		if err := New().ApplyInputs(map[string]any{"skip-setup": "sometimes"}); err == nil {
			t.Fatal("ApplyInputs() should reject a non-boolean skip-setup")
		}
	})

	t.Run("unbalanced quotes in test command", func(t *testing.T) {
		if err := New().ApplyInputs(map[string]any{"test-command": `npx jest "--ci`}); err == nil {
			t.Fatal("ApplyInputs() should reject an unparseable test-command")
		}
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertStrings(t *testing.T, field string, want, got []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}

func TestLoad_UnknownKeyReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
setup:
  comand: npm ci
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should reject unknown keys")
	}
	if !strings.Contains(err.Error(), "/setup") {
		t.Errorf("error %q does not point at /setup", err)
	}
}

func TestLoad_EmptyFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Output.Name", "result", cfg.Output.Name)
}
