package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ResultVersion is the schema version stamped on every GradeResult.
const ResultVersion = 1

// Status is the grading vocabulary shared by a whole run and by individual tests.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

// NormalizedTest is one test case as downstream graders see it.
type NormalizedTest struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	LineNo  int    `json:"line_no,omitempty"`
	Message string `json:"message,omitempty"`
	Score   int    `json:"score"`
}

// GradeResult is the versioned summary published for the grading pipeline.
type GradeResult struct {
	Version  int    `json:"version"`
	MaxScore int    `json:"max_score"`
	Status   Status `json:"status"`

	// Tests is nil when the report had no detail, which omits the field. An
	// empty non-nil slice is still encoded as [].
	Tests []NormalizedTest `json:"tests,omitzero"`
}

// CollapseStatus reduces Jest's assertion status set to pass, fail or error.
// Every status other than passed and failed is reported as an error.
func CollapseStatus(s AssertionStatus) Status {
	switch s {
	case AssertionPassed:
		return StatusPass
	case AssertionFailed:
		return StatusFail
	default:
		return StatusError
	}
}

// ScoreFor returns the per-test score for a collapsed status.
func ScoreFor(s Status) int {
	if s == StatusPass {
		return 1
	}
	return 0
}

// Passed counts the tests that collapsed to pass.
func (g *GradeResult) Passed() int {
	n := 0
	for _, t := range g.Tests {
		if t.Status == StatusPass {
			n++
		}
	}
	return n
}

// Encode serializes the result to JSON and wraps it in standard base64 so
// it can be published as a single-line output value.
func (g *GradeResult) Encode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshaling grade result: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeResult reverses Encode. It returns the raw JSON alongside the
// decoded value so callers can validate the exact bytes that were published.
func DecodeResult(encoded string) (*GradeResult, []byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding base64 result: %w", err)
	}

	var result GradeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, data, fmt.Errorf("parsing result JSON: %w", err)
	}
	return &result, data, nil
}
