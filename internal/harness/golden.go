package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/gametree/internal/ingest"
)

// Snapshot renders a report as the stable text compared against golden files.
func Snapshot(scenarioName string, report *ingest.Result) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario: %s\n", scenarioName)
	fmt.Fprintf(&buf, "run_id: %s\n", report.RunID)

	buf.WriteString("records:\n")
	for _, r := range report.Records {
		fmt.Fprintf(&buf, "  %s\n", r)
	}

	buf.WriteString("duplicates:\n")
	for _, d := range report.Duplicates {
		fmt.Fprintf(&buf, "  seq %d line %d: %s\n", d.Seq, d.Line, d.Record)
		fmt.Fprintf(&buf, "    equals %s\n", d.Existing)
	}

	buf.WriteString("diagnostics:\n")
	for _, d := range report.Diagnostics {
		fmt.Fprintf(&buf, "  %s\n", d)
	}

	st := report.Stats
	fmt.Fprintf(&buf, "stats: lines=%d data_lines=%d inserted=%d duplicates=%d diagnostics=%d sentinels=%d height=%d\n",
		st.Lines, st.DataLines, st.Inserted, st.Duplicates, st.Diagnostics, st.Sentinels, st.Height)

	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its report against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result.Report)
	return result, nil
}

// AssertGolden compares an already produced report against a golden file.
func AssertGolden(t *testing.T, scenarioName string, report *ingest.Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, report))
}
