package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/gametree/internal/ingest"
	"github.com/roach88/gametree/internal/parser"
	"github.com/roach88/gametree/internal/record"
	"github.com/roach88/gametree/internal/tree"
)

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID     string       `json:"id"`
	Seq    int64        `json:"seq"`
	Source string       `json:"source"`
	Stats  ingest.Stats `json:"stats"`
}

const runColumns = `id, seq, source, lines, data_lines, inserted, duplicates, diagnostics, sentinels, height`

func scanRun(row interface{ Scan(...any) error }) (RunSummary, error) {
	var r RunSummary
	st := &r.Stats
	err := row.Scan(&r.ID, &r.Seq, &r.Source,
		&st.Lines, &st.DataLines, &st.Inserted, &st.Duplicates, &st.Diagnostics, &st.Sentinels, &st.Height)
	return r, err
}

// ListRuns returns every run in the order it was written.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run. Returns an error wrapping ErrRunNotFound for
// unknown ids.
func (s *Store) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("get run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ReadRecords returns a run's tree contents in traversal order.
func (s *Store) ReadRecords(ctx context.Context, runID string) ([]record.Record, error) {
	return s.queryRecords(ctx, `
		SELECT user_id, name, behavior, measure FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
}

// RecordsByUser returns the records of one user id, still in traversal order.
func (s *Store) RecordsByUser(ctx context.Context, runID string, userID uint32) ([]record.Record, error) {
	return s.queryRecords(ctx, `
		SELECT user_id, name, behavior, measure FROM records
		WHERE run_id = ? AND user_id = ?
		ORDER BY position ASC
	`, runID, userID)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

func scanRecord(row interface{ Scan(...any) error }, extra ...any) (record.Record, error) {
	var (
		r        record.Record
		behavior string
	)
	dest := append([]any{&r.ID, &r.Name, &behavior, &r.Measure}, extra...)
	if err := row.Scan(dest...); err != nil {
		return r, fmt.Errorf("scan: %w", err)
	}
	b, ok := record.BehaviorFromName(behavior)
	if !ok {
		return r, fmt.Errorf("scan: unknown behavior %q", behavior)
	}
	r.Behavior = b
	return r, nil
}

// ReadDuplicates returns a run's duplicates in discovery order, each joined to the
// resident record it equals.
func (s *Store) ReadDuplicates(ctx context.Context, runID string) ([]ingest.Duplicate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.user_id, d.name, d.behavior, d.measure, d.seq, d.line,
		       r.user_id, r.name, r.behavior, r.measure
		FROM duplicates d
		JOIN records r ON r.run_id = d.run_id AND r.fingerprint = d.fingerprint
		WHERE d.run_id = ?
		ORDER BY d.seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read duplicates: %w", err)
	}
	defer rows.Close()

	dups := []ingest.Duplicate{}
	for rows.Next() {
		var (
			d                ingest.Duplicate
			existingBehavior string
			existing         record.Record
		)
		dup, err := scanRecord(rows, &d.Seq, &d.Line,
			&existing.ID, &existing.Name, &existingBehavior, &existing.Measure)
		if err != nil {
			return nil, fmt.Errorf("read duplicates: %w", err)
		}
		b, ok := record.BehaviorFromName(existingBehavior)
		if !ok {
			return nil, fmt.Errorf("read duplicates: unknown behavior %q", existingBehavior)
		}
		existing.Behavior = b
		d.Duplicate = tree.Duplicate{Record: dup, Existing: existing, Seq: d.Seq}
		dups = append(dups, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read duplicates: %w", err)
	}
	return dups, nil
}

// ReadDiagnostics returns a run's diagnostics in discovery order.
func (s *Store) ReadDiagnostics(ctx context.Context, runID string) ([]parser.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line, code, message, input FROM diagnostics
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []parser.Diagnostic{}
	for rows.Next() {
		var d parser.Diagnostic
		if err := rows.Scan(&d.Line, &d.Code, &d.Message, &d.Input); err != nil {
			return nil, fmt.Errorf("read diagnostics: scan: %w", err)
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	return diags, nil
}

// LoadResult reassembles a stored run into an ingest.Result. The Tree field is nil;
// the ledger keeps the traversal, not the tree.
func (s *Store) LoadResult(ctx context.Context, runID string) (*ingest.Result, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	records, err := s.ReadRecords(ctx, runID)
	if err != nil {
		return nil, err
	}
	dups, err := s.ReadDuplicates(ctx, runID)
	if err != nil {
		return nil, err
	}
	diags, err := s.ReadDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &ingest.Result{
		RunID:       run.ID,
		Source:      run.Source,
		Records:     records,
		Duplicates:  dups,
		Diagnostics: diags,
		Stats:       run.Stats,
	}, nil
}
