package models

// AssertionStatus is the status Jest reports for a single test case.
type AssertionStatus string

const (
	AssertionPassed   AssertionStatus = "passed"
	AssertionFailed   AssertionStatus = "failed"
	AssertionSkipped  AssertionStatus = "skipped"
	AssertionPending  AssertionStatus = "pending"
	AssertionTodo     AssertionStatus = "todo"
	AssertionDisabled AssertionStatus = "disabled"
	AssertionFocused  AssertionStatus = "focused"
)

// RawReport is the subset of the Jest --json report that grading depends on.
// Unknown fields are ignored so newer Jest versions keep decoding.
type RawReport struct {
	NumTotalTests   int  `json:"numTotalTests"`
	NumFailedTests  int  `json:"numFailedTests"`
	NumPassedTests  int  `json:"numPassedTests"`
	NumPendingTests int  `json:"numPendingTests"`
	NumTodoTests    int  `json:"numTodoTests"`
	Success         bool `json:"success"`

	// TestResults is nil when the report carries no per-suite detail (field
	// absent or null) and non-nil, possibly empty, otherwise.
	TestResults []Suite `json:"testResults"`
}

// Suite is one executed test file.
type Suite struct {
	Name             string      `json:"name"`
	Status           string      `json:"status"`
	Message          string      `json:"message"`
	AssertionResults []Assertion `json:"assertionResults"`
}

// Assertion is the outcome of one test case inside a suite.
type Assertion struct {
	FullName        string          `json:"fullName"`
	Title           string          `json:"title"`
	AncestorTitles  []string        `json:"ancestorTitles"`
	Status          AssertionStatus `json:"status"`
	FailureMessages []string        `json:"failureMessages"`

	// Location is only reported when Jest runs with --testLocationInResults.
	Location *Location `json:"location"`
}

// Location points at the line and column where a test is declared.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// DeclaredTotal is the sum of the per-status counters, which Jest is
// expected to keep equal to NumTotalTests.
func (r *RawReport) DeclaredTotal() int {
	return r.NumPassedTests + r.NumFailedTests + r.NumPendingTests + r.NumTodoTests
}

// HasDetail reports whether the report included a testResults list.
func (r *RawReport) HasDetail() bool {
	return r.TestResults != nil
}
