package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validResult = `{
  "version": 1,
  "max_score": 3,
  "status": "fail",
  "tests": [
    {"name": "math adds", "status": "pass", "score": 1, "line_no": 4},
    {"name": "math divides", "status": "fail", "score": 0, "message": "Expected: 2"},
    {"name": "math later", "status": "error", "score": 0}
  ]
}`

func TestValidateResult_Valid(t *testing.T) {
	require.Empty(t, ValidateResult([]byte(validResult)))
	require.Empty(t, ValidateResult([]byte(`{"version":1,"max_score":0,"status":"pass"}`)))
	require.Empty(t, ValidateResult([]byte(`{"version":1,"max_score":0,"status":"pass","tests":[]}`)))
}

func TestValidateResult_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantLoc string
	}{
		{"wrong version", `{"version":2,"max_score":0,"status":"pass"}`, "/version"},
		{"negative max_score", `{"version":1,"max_score":-1,"status":"pass"}`, "/max_score"},
		{"error is not a run status", `{"version":1,"max_score":0,"status":"error"}`, "/status"},
		{"missing status", `{"version":1,"max_score":0}`, "/"},
		{"unknown field", `{"version":1,"max_score":0,"status":"pass","score":1}`, "/"},
		{"score out of range", `{"version":1,"max_score":1,"status":"pass","tests":[{"name":"a","status":"pass","score":2}]}`, "/tests/0/score"},
		{"bad test status", `{"version":1,"max_score":1,"status":"pass","tests":[{"name":"a","status":"skipped","score":0}]}`, "/tests/0/status"},
		{"line_no zero", `{"version":1,"max_score":1,"status":"pass","tests":[{"name":"a","status":"pass","score":1,"line_no":0}]}`, "/tests/0/line_no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateResult([]byte(tt.doc))
			require.NotEmpty(t, errs)
			require.True(t, hasLocation(errs, tt.wantLoc), "no error at %s: %s", tt.wantLoc, joinErrs(errs))
		})
	}
}

func TestValidateResult_NotJSON(t *testing.T) {
	errs := ValidateResult([]byte(`{"version":`))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "JSON parse error")
}

const validConfig = `
setup:
  command: npm ci
  working_directory: web
  exit_codes: [0, 1]
  allow_failure: true
test:
  command: [npx, jest, --ci]
  locations: false
output:
  name: grade
  summary: true
`

func TestValidateConfigBytes_Valid(t *testing.T) {
	require.Empty(t, ValidateConfigBytes([]byte(validConfig)))
}

func TestValidateConfigBytes_EmptyDocument(t *testing.T) {
	require.Nil(t, ValidateConfigBytes(nil))
	require.Nil(t, ValidateConfigBytes([]byte("# nothing here\n")))
}

func TestValidateConfigBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantLoc string
	}{
		{"unknown top-level key", "runner: jest\n", "/"},
		{"unknown setup key", "setup:\n  comand: npm ci\n", "/setup"},
		{"skip must be boolean", "setup:\n  skip: sometimes\n", "/setup/skip"},
		{"command must be a list", "test:\n  command: npx jest\n", "/test/command"},
		{"exit code out of range", "setup:\n  exit_codes: [0, 256]\n", "/setup/exit_codes/1"},
		{"empty command", "test:\n  command: []\n", "/test/command"},
		{"output name pattern", "output:\n  name: \"1 result\"\n", "/output/name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfigBytes([]byte(tt.doc))
			require.NotEmpty(t, errs)
			require.True(t, hasLocation(errs, tt.wantLoc), "no error at %s: %s", tt.wantLoc, joinErrs(errs))
		})
	}
}

func TestValidateConfigBytes_BadYAML(t *testing.T) {
	errs := ValidateConfigBytes([]byte("setup: [unclosed\n"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "YAML parse error")
}

func hasLocation(errs []string, loc string) bool {
	for _, e := range errs {
		if strings.HasPrefix(e, loc+": ") {
			return true
		}
	}
	return false
}

func joinErrs(errs []string) string {
	return strings.Join(errs, "; ")
}
