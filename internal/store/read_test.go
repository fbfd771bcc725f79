package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gametree/internal/record"
)

func TestListRuns_WriteOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-c", "run-a", "run-b"} {
		_, err := s.WriteRun(ctx, ingestLines(t, id, "1,Portal,play,2.5,0"))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, "run-b", runs[2].ID)
	assert.Equal(t, []int64{1, 2, 3}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
	assert.Equal(t, 1, runs[0].Stats.Inserted)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = s.LoadResult(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRecordsByUser(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, ingestLines(t, "run-a",
		"7,Portal,play,2.5,0",
		"3,Dota 2,purchase,1.0,0",
		"7,Half-Life,purchase,1.0,0",
		"7,Half-Life,play,4,0",
	))
	require.NoError(t, err)

	records, err := s.RecordsByUser(ctx, "run-a", 7)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{ID: 7, Name: "Half-Life", Behavior: record.Play, Measure: 4},
		{ID: 7, Name: "Half-Life", Behavior: record.Purchase, Measure: 1},
		{ID: 7, Name: "Portal", Behavior: record.Play, Measure: 2.5},
	}, records)

	none, err := s.RecordsByUser(ctx, "run-a", 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReadDiagnostics(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, ingestLines(t, "run-a", ",BadName,weird,notanumber,"))
	require.NoError(t, err)

	diags, err := s.ReadDiagnostics(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "W002", diags[0].Code)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, "weird", diags[0].Input)
	assert.Equal(t, "W003", diags[1].Code)
}
