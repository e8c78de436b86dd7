package grader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TestResult ...
type TestResult struct {
	Name     string        `json:"name"`
	Score    float64       `json:"score"`
	Points   *float64      `json:"points,omitempty"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report accumulates the outcome of one grading pass.
// TotalPoints and AvailablePoints only grow, AnyFailed only flips to true.
type Report struct {
	TotalPoints     float64      `json:"total_points"`
	AvailablePoints float64      `json:"available_points"`
	AnyFailed       bool         `json:"any_failed"`
	Results         []TestResult `json:"results"`
}

// Summary returns the points in <total>/<available> form.
func (r Report) Summary() string {
	return FormatPoints(r.TotalPoints) + "/" + FormatPoints(r.AvailablePoints)
}

// Details renders a markdown table of the per test results.
func (r Report) Details() string {
	var b strings.Builder
	b.WriteString("| Test | Score | Points | Result |\n")
	b.WriteString("|------|-------|--------|--------|\n")
	for _, result := range r.Results {
		points := "-"
		if result.Points != nil {
			points = FormatPoints(*result.Points)
		}
		status := "✅"
		if !result.Passed {
			status = "❌"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", escapeCell(result.Name), FormatPoints(result.Score), points, status)
	}
	return b.String()
}

// FormatPoints formats a score without trailing zeros.
func FormatPoints(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
