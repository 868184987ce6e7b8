package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/testgrade/internal/models"
	"golang.org/x/term"
)

const (
	maxNameWidth = 72

	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiGray  = "\x1b[90m"
)

// statusIcon maps a normalized status to the marker used in summaries.
func statusIcon(s models.Status) string {
	switch s {
	case models.StatusPass:
		return "✅"
	case models.StatusFail:
		return "❌"
	default:
		return "⚠️"
	}
}

// FormatSummary formats a GradeResult as a markdown job summary.
func FormatSummary(result *models.GradeResult) string {
	var b strings.Builder

	b.WriteString("## 🧪 Test Results\n\n")

	status := "✅ Passed"
	if result.Status != models.StatusPass {
		status = "❌ Failed"
	}

	if result.Tests == nil {
		b.WriteString(fmt.Sprintf("**Status:** %s | **Max Score:** %d\n\n", status, result.MaxScore))
		b.WriteString("_The test report did not include per-test results._\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("**Status:** %s | **Score:** %d/%d\n\n", status, result.Passed(), result.MaxScore))

	if len(result.Tests) == 0 {
		b.WriteString("_No tests were run._\n")
		return b.String()
	}

	b.WriteString("| Test | Status | Score | Line |\n")
	b.WriteString("|------|--------|-------|------|\n")
	for _, t := range result.Tests {
		line := "-"
		if t.LineNo > 0 {
			line = fmt.Sprintf("%d", t.LineNo)
		}
		b.WriteString(fmt.Sprintf("| %s | %s %s | %d | %s |\n",
			escapeTableCell(t.Name), statusIcon(t.Status), t.Status, t.Score, line))
	}
	b.WriteString("\n")

	var failed []models.NormalizedTest
	for _, t := range result.Tests {
		if t.Status == models.StatusFail && t.Message != "" {
			failed = append(failed, t)
		}
	}
	if len(failed) > 0 {
		b.WriteString("### Failures\n\n")
		for _, t := range failed {
			b.WriteString(fmt.Sprintf("#### %s\n\n", t.Name))
			b.WriteString("```\n")
			b.WriteString(strings.TrimRight(t.Message, "\n"))
			b.WriteString("\n```\n\n")
		}
	}

	return b.String()
}

// escapeTableCell keeps a test name inside one markdown table cell.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// printResult writes a human-readable table of the result to w. Colors are
// only used when w is a terminal.
func printResult(w io.Writer, result *models.GradeResult) {
	color := isTerminal(w)
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}

	nameWidth := len("TEST")
	for _, t := range result.Tests {
		if sw := runewidth.StringWidth(truncateName(t.Name, maxNameWidth)); sw > nameWidth {
			nameWidth = sw
		}
	}

	if len(result.Tests) > 0 {
		fmt.Fprintf(w, "%s  %-6s  %s\n", padRight("TEST", nameWidth), "STATUS", "LINE") //nolint:errcheck
		for _, t := range result.Tests {
			code := ansiGray
			switch t.Status {
			case models.StatusPass:
				code = ansiGreen
			case models.StatusFail:
				code = ansiRed
			}
			line := ""
			if t.LineNo > 0 {
				line = fmt.Sprintf("%d", t.LineNo)
			}
			fmt.Fprintf(w, "%s  %s  %s\n", //nolint:errcheck
				padRight(truncateName(t.Name, maxNameWidth), nameWidth),
				paint(code, fmt.Sprintf("%-6s", t.Status)),
				line)
		}
		fmt.Fprintln(w) //nolint:errcheck
	}

	code := ansiGreen
	if result.Status != models.StatusPass {
		code = ansiRed
	}
	if result.Tests != nil {
		fmt.Fprintf(w, "Status: %s  Score: %d/%d\n", paint(code, string(result.Status)), result.Passed(), result.MaxScore) //nolint:errcheck
	} else {
		fmt.Fprintf(w, "Status: %s  Max score: %d\n", paint(code, string(result.Status)), result.MaxScore) //nolint:errcheck
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
