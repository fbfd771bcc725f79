package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gametree/internal/ingest"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ingestLines runs the given data lines (a header is prepended) under runID.
func ingestLines(t *testing.T, runID string, lines ...string) *ingest.Result {
	t.Helper()
	in := ingest.New(
		ingest.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		ingest.WithRunIDGenerator(ingest.NewFixedGenerator(runID)),
		ingest.WithSource("test.csv"),
	)
	input := "user_id,game,behavior,value,other\n" + strings.Join(lines, "\n")
	res, err := in.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	return res
}
