package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migrations[i] moves a ledger from user_version i to i+1.
var migrations = []string{
	// v1: per-user lookups for show --user
	`CREATE INDEX IF NOT EXISTS idx_records_user ON records(run_id, user_id)`,
}

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// Store is the run ledger.
type Store struct {
	db *sql.DB
}

// Open creates or opens the ledger at path and brings its schema up to date.
// Opening an existing ledger again is harmless.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: pragmas are per connection and a ":memory:" ledger
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	// Duplicates reference their resident record, so foreign keys must be enforced.
	// WAL and the busy timeout let runs and show read while build writes.
	for _, stmt := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to connect to database: %q: %w", stmt, err)
		}
	}
	fk, err := s.pragma("foreign_keys")
	if err != nil {
		return err
	}
	if fk != "1" {
		return fmt.Errorf("sqlite foreign keys unavailable: foreign_keys = %s", fk)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return s.migrate()
}

func (s *Store) migrate() error {
	v, err := s.pragma("user_version")
	if err != nil {
		return err
	}
	var version int
	if _, err := fmt.Sscan(v, &version); err != nil {
		return fmt.Errorf("user_version %q: %w", v, err)
	}
	for ; version < len(migrations); version++ {
		if _, err := s.db.Exec(migrations[version]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", version+1, err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// pragma reads the current value of a pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
