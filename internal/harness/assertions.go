package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/gametree/internal/ingest"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Report   *ingest.Result // Full report for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Report != nil {
		fmt.Fprintf(&buf, "\nFull traversal:\n")
		for i, r := range e.Report.Records {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, r)
		}
	}

	return buf.String()
}

// countFields maps count assertion field names to run statistics.
var countFields = map[string]func(ingest.Stats) int{
	"lines":       func(s ingest.Stats) int { return s.Lines },
	"data_lines":  func(s ingest.Stats) int { return s.DataLines },
	"records":     func(s ingest.Stats) int { return s.Inserted },
	"duplicates":  func(s ingest.Stats) int { return s.Duplicates },
	"diagnostics": func(s ingest.Stats) int { return s.Diagnostics },
	"sentinels":   func(s ingest.Stats) int { return s.Sentinels },
	"height":      func(s ingest.Stats) int { return s.Height },
}

// assertRecords checks the traversal against the expected list, element by element.
func assertRecords(report *ingest.Result, assertion Assertion) error {
	got := make([]string, len(report.Records))
	for i, r := range report.Records {
		got[i] = r.String()
	}

	if len(got) != len(assertion.Records) {
		return &AssertionError{
			Type:     AssertRecords,
			Expected: fmt.Sprintf("%d records", len(assertion.Records)),
			Actual:   fmt.Sprintf("%d records", len(got)),
			Report:   report,
		}
	}
	for i := range got {
		if got[i] != assertion.Records[i] {
			return &AssertionError{
				Type:     AssertRecords,
				Expected: fmt.Sprintf("record %d = %s", i+1, assertion.Records[i]),
				Actual:   got[i],
				Report:   report,
			}
		}
	}
	return nil
}

// assertDuplicate checks that a duplicate was reported for the line, matching the
// diverted and resident records when given.
func assertDuplicate(report *ingest.Result, assertion Assertion) error {
	for _, d := range report.Duplicates {
		if d.Line != assertion.Line {
			continue
		}
		if assertion.Record != "" && d.Record.String() != assertion.Record {
			continue
		}
		if assertion.Existing != "" && d.Existing.String() != assertion.Existing {
			continue
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertDuplicate,
		Expected: fmt.Sprintf("duplicate on line %d %s", assertion.Line, assertion.Record),
		Actual:   fmt.Sprintf("duplicates: %v", report.Duplicates),
		Report:   report,
	}
}

// assertDiagnostic checks that a diagnostic with the code was reported for the line.
func assertDiagnostic(report *ingest.Result, assertion Assertion) error {
	for _, d := range report.Diagnostics {
		if d.Line == assertion.Line && d.Code == assertion.Code {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertDiagnostic,
		Expected: fmt.Sprintf("%s on line %d", assertion.Code, assertion.Line),
		Actual:   fmt.Sprintf("diagnostics: %v", report.Diagnostics),
		Report:   report,
	}
}

// assertCount checks one run statistic.
func assertCount(report *ingest.Result, assertion Assertion) error {
	get, ok := countFields[assertion.Field]
	if !ok {
		return fmt.Errorf("unknown count field %q", assertion.Field)
	}

	if got := get(report.Stats); got != assertion.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%s = %d", assertion.Field, assertion.Count),
			Actual:   fmt.Sprintf("%s = %d", assertion.Field, got),
			Report:   report,
		}
	}
	return nil
}

// assertEmptyTree checks that no record reached the tree.
func assertEmptyTree(report *ingest.Result) error {
	if report.TreeBuilt() {
		return &AssertionError{
			Type:     AssertEmptyTree,
			Expected: "no tree",
			Actual:   fmt.Sprintf("tree with %d records", len(report.Records)),
			Report:   report,
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions against a report.
// Returns a list of error messages (empty if all pass).
func EvaluateAssertions(report *ingest.Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRecords:
			err = assertRecords(report, assertion)
		case AssertDuplicate:
			err = assertDuplicate(report, assertion)
		case AssertDiagnostic:
			err = assertDiagnostic(report, assertion)
		case AssertCount:
			err = assertCount(report, assertion)
		case AssertEmptyTree:
			err = assertEmptyTree(report)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
