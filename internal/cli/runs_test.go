package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gametree/internal/store"
)

// recordRuns builds input once per run id into a fresh ledger and returns its path.
func recordRuns(t *testing.T, input string, runIDs ...string) string {
	t.Helper()
	path := writeInput(t, "steam.csv", input)
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	for _, id := range runIDs {
		_, _, err := execute(t, buildCommand("text", id), "--db", dbPath, path)
		require.NoError(t, err)
	}
	return dbPath
}

func TestRuns_Text(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-b", "run-a")

	out, _, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "RUN ID")
	bIdx := strings.Index(out, "run-b")
	aIdx := strings.Index(out, "run-a")
	require.True(t, bIdx >= 0 && aIdx >= 0)
	assert.Less(t, bIdx, aIdx, "runs are listed in write order")
}

func TestRuns_JSON(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-1")

	out, _, err := execute(t, NewRunsCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []store.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-1", resp.Data[0].ID)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, 3, resp.Data[0].Stats.Inserted)
	assert.Equal(t, 1, resp.Data[0].Stats.Duplicates)
}

func TestRuns_EmptyLedger(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestRuns_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, errOut, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "Error [E005]")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "runs must not create a database")
}

func TestRuns_MissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}

func TestShow_Text(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-1")

	out, _, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "--db", dbPath, "run-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Run run-1 (")
	assert.Contains(t, out, `id=3 name="A" behavior=Play measure=1
id=5 name="X" behavior=Play measure=1
id=5 name="X" behavior=Play measure=2
duplicate: id=3 name="A" behavior=Play measure=1 (line 5)
Duplicates found: 1
  id=3 name="A" behavior=Play measure=1 (line 5)
Tree: 3 nodes, height 2
`)
}

func TestShow_UserFilter(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-1")

	out, _, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--user", "5", "run-1")
	require.NoError(t, err)

	assert.Contains(t, out, `id=5 name="X" behavior=Play measure=1`)
	assert.Contains(t, out, `id=5 name="X" behavior=Play measure=2`)
	assert.NotContains(t, out, `id=3 name="A"`)
	assert.Contains(t, out, "No duplicates found.")
	assert.Contains(t, out, "Tree: 3 nodes, height 2")
}

func TestShow_JSON(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-1")

	out, _, err := execute(t, NewShowCommand(&RootOptions{Format: "json"}), "--db", dbPath, "run-1")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			RunID      string            `json:"run_id"`
			Records    []json.RawMessage `json:"records"`
			Duplicates []json.RawMessage `json:"duplicates"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.Len(t, resp.Data.Records, 3)
	assert.Len(t, resp.Data.Duplicates, 1)
}

func TestShow_UnknownRun(t *testing.T) {
	dbPath := recordRuns(t, scenarioAInput, "run-1")

	_, errOut, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "--db", dbPath, "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "Error [E006]: run not found: nope")
}
