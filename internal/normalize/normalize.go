// Package normalize turns a Jest JSON report into the versioned grade result
// consumed by the grading pipeline.
package normalize

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/spboyer/testgrade/internal/models"
)

// ParseError is returned when the report text is not a well-formed report.
// It keeps the decoder's own message for debugging.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parsing test report: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errEmptyReport = errors.New("report is null")

// ParseReport decodes a Jest --json report and projects it into a GradeResult.
//
// MaxScore always comes from numTotalTests and Status only from the run-level
// success flag. Tests is populated, in suite order then assertion order, only
// when the report carried a testResults list.
func ParseReport(text string) (*models.GradeResult, error) {
	var report *models.RawReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		slog.Debug("Failed to parse test report", "error", err, "bytes", len(text))
		return nil, &ParseError{Err: err}
	}
	if report == nil {
		slog.Debug("Failed to parse test report", "error", errEmptyReport)
		return nil, &ParseError{Err: errEmptyReport}
	}

	if declared := report.DeclaredTotal(); declared != report.NumTotalTests {
		slog.Warn("Test report counts are inconsistent",
			"numTotalTests", report.NumTotalTests,
			"sumOfCounts", declared)
	}

	return Project(report), nil
}

// Project builds the GradeResult for an already decoded report.
func Project(report *models.RawReport) *models.GradeResult {
	result := &models.GradeResult{
		Version:  models.ResultVersion,
		MaxScore: report.NumTotalTests,
		Status:   models.StatusFail,
	}
	if report.Success {
		result.Status = models.StatusPass
	}

	if report.HasDetail() {
		result.Tests = flatten(report.TestResults)
	}
	return result
}

func flatten(suites []models.Suite) []models.NormalizedTest {
	total := 0
	for _, s := range suites {
		total += len(s.AssertionResults)
	}

	tests := make([]models.NormalizedTest, 0, total)
	for _, s := range suites {
		for _, a := range s.AssertionResults {
			tests = append(tests, normalizeAssertion(a))
		}
	}
	return tests
}

func normalizeAssertion(a models.Assertion) models.NormalizedTest {
	status := models.CollapseStatus(a.Status)

	t := models.NormalizedTest{
		Name:   a.FullName,
		Status: status,
		Score:  models.ScoreFor(status),
	}
	if a.Location != nil {
		t.LineNo = a.Location.Line
	}
	if status != models.StatusPass && len(a.FailureMessages) > 0 {
		t.Message = strings.Join(a.FailureMessages, "\n\n")
	}
	return t
}
