package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/gametree/internal/ingest"
	"github.com/roach88/gametree/internal/record"
)

// WriteRun records a finished ingestion run in a single transaction.
// Returns inserted=false without error when the run id is already present;
// a run is written once and never amended.
func (s *Store) WriteRun(ctx context.Context, res *ingest.Result) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	st := res.Stats
	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, lines, data_lines, inserted, duplicates, diagnostics, sentinels, height)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		res.RunID, res.Source,
		st.Lines, st.DataLines, st.Inserted, st.Duplicates, st.Diagnostics, st.Sentinels, st.Height,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := writeRecords(ctx, tx, res.RunID, res.Records); err != nil {
		return false, err
	}
	if err := writeDuplicates(ctx, tx, res.RunID, res.Duplicates); err != nil {
		return false, err
	}
	if err := writeDiagnostics(ctx, tx, res); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

func writeRecords(ctx context.Context, tx *sql.Tx, runID string, records []record.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, user_id, name, behavior, measure, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write records: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		fp, err := record.Fingerprint(r)
		if err != nil {
			return fmt.Errorf("write records: position %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, i, r.ID, r.Name, r.Behavior.String(), r.Measure, fp); err != nil {
			return fmt.Errorf("write records: position %d: %w", i, err)
		}
	}
	return nil
}

func writeDuplicates(ctx context.Context, tx *sql.Tx, runID string, dups []ingest.Duplicate) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO duplicates (run_id, seq, line, user_id, name, behavior, measure, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write duplicates: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range dups {
		r := d.Record
		fp, err := record.Fingerprint(r)
		if err != nil {
			return fmt.Errorf("write duplicates: seq %d: %w", d.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, d.Seq, d.Line, r.ID, r.Name, r.Behavior.String(), r.Measure, fp); err != nil {
			return fmt.Errorf("write duplicates: seq %d: %w", d.Seq, err)
		}
	}
	return nil
}

func writeDiagnostics(ctx context.Context, tx *sql.Tx, res *ingest.Result) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, ordinal, line, code, message, input)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write diagnostics: prepare: %w", err)
	}
	defer stmt.Close()

	for i, d := range res.Diagnostics {
		if _, err := stmt.ExecContext(ctx, res.RunID, i, d.Line, d.Code, d.Message, d.Input); err != nil {
			return fmt.Errorf("write diagnostics: ordinal %d: %w", i, err)
		}
	}
	return nil
}
