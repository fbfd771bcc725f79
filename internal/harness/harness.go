package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/roach88/gametree/internal/config"
	"github.com/roach88/gametree/internal/ingest"
	"github.com/roach88/gametree/internal/store"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs with a fixed run id and a fresh in-memory run ledger.
//
// Execution flow:
// 1. Ingest the scenario input
// 2. Write the report to the ledger and read it back
// 3. Evaluate assertions against the report
func Run(scenario *Scenario) (*Result, error) {
	ingester, err := newIngester(scenario)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	report, err := ingester.Run(ctx, strings.NewReader(scenario.Input))
	if err != nil {
		return nil, fmt.Errorf("failed to ingest input: %w", err)
	}

	result := NewResult(report)

	mismatches, err := ledgerRoundTrip(ctx, report)
	if err != nil {
		return nil, err
	}
	for _, msg := range mismatches {
		result.AddError(msg)
	}

	for _, errMsg := range EvaluateAssertions(report, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func newIngester(scenario *Scenario) (*ingest.Ingester, error) {
	opts := []ingest.Option{
		ingest.WithSource(scenario.Name),
		ingest.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	opts = append(opts, ingest.WithRunIDGenerator(ingest.NewFixedGenerator(runID)))

	if scenario.Delimiter != "" {
		sep, err := config.ParseDelimiter(scenario.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		opts = append(opts, ingest.WithDelimiter(sep))
	}
	if scenario.Header != nil {
		opts = append(opts, ingest.WithHeader(*scenario.Header))
	}

	return ingest.New(opts...), nil
}

// ledgerRoundTrip writes report to an in-memory ledger, reloads it, and describes
// every section that came back different.
func ledgerRoundTrip(ctx context.Context, report *ingest.Result) ([]string, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if _, err := st.WriteRun(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to write run: %w", err)
	}
	loaded, err := st.LoadResult(ctx, report.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var mismatches []string
	check := func(section string, want, got any) {
		if !reflect.DeepEqual(want, got) {
			mismatches = append(mismatches,
				fmt.Sprintf("ledger round trip: %s differ: wrote %v, read %v", section, want, got))
		}
	}
	check("records", report.Records, loaded.Records)
	check("duplicates", report.Duplicates, loaded.Duplicates)
	check("diagnostics", report.Diagnostics, loaded.Diagnostics)
	check("stats", report.Stats, loaded.Stats)
	return mismatches, nil
}
