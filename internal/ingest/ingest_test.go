package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gametree/internal/parser"
	"github.com/roach88/gametree/internal/record"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newTestIngester(opts ...Option) *Ingester {
	opts = append([]Option{WithRunIDGenerator(NewFixedGenerator("run-1"))}, opts...)
	return New(opts...)
}

func TestRun_HeaderAndOneLine(t *testing.T) {
	input := "user_id,game,behavior,value,other\n7,Half-Life,play,3.5,0\n"

	res, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, []record.Record{{ID: 7, Name: "Half-Life", Behavior: record.Play, Measure: 3.5}}, res.Records)
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Duplicates)
	assert.Equal(t, Stats{Lines: 2, DataLines: 1, Inserted: 1, Height: 1}, res.Stats)
	assert.True(t, res.TreeBuilt())
}

func TestRun_DuplicatesCarrySourceLine(t *testing.T) {
	input := strings.Join([]string{
		"header",
		"5,X,play,1.0,0",
		"3,A,play,1.0,0",
		"5,X,play,2.0,0",
		"3,A,play,1.0,0",
	}, "\n")

	res, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, uint32(3), res.Records[0].ID)
	require.Len(t, res.Duplicates, 1)
	dup := res.Duplicates[0]
	assert.Equal(t, 5, dup.Line)
	assert.Equal(t, 4, dup.Seq)
	assert.Equal(t, record.Record{ID: 3, Name: "A", Behavior: record.Play, Measure: 1}, dup.Record)
	assert.Equal(t, `id=3 name="A" behavior=Play measure=1 (line 5)`, dup.String())
	assert.Equal(t, 1, res.Stats.Duplicates)
}

func TestRun_MalformedLinesBecomeDiagnostics(t *testing.T) {
	input := "header\n,BadName,weird,notanumber,\nonly,two\n"

	res, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, parser.CodeUnknownBehavior, res.Diagnostics[0].Code)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.Equal(t, parser.CodeInvalidMeasure, res.Diagnostics[1].Code)
	assert.Equal(t, parser.CodeFieldCount, res.Diagnostics[2].Code)
	assert.Equal(t, 3, res.Diagnostics[2].Line)
	assert.Equal(t, 1, res.Stats.Sentinels)

	// sentinel records are inserted like any other record
	assert.Equal(t, []record.Record{
		{ID: 0, Name: "BadName", Behavior: record.Error, Measure: 0},
		record.Sentinel,
	}, res.Records)
}

func TestRun_EmptyInputBuildsNoTree(t *testing.T) {
	for name, input := range map[string]string{"empty": "", "header only": "user_id,game,behavior,value,other\n"} {
		t.Run(name, func(t *testing.T) {
			res, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
			require.NoError(t, err)
			assert.False(t, res.TreeBuilt())
			assert.Empty(t, res.Records)
			assert.NotNil(t, res.Records)
		})
	}
}

func TestRun_WithoutHeader(t *testing.T) {
	input := "7,Half-Life,play,3.5,0\n"

	res, err := newTestIngester(WithHeader(false)).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Stats.DataLines)
}

func TestRun_Delimiter(t *testing.T) {
	input := "h\n7;Half-Life;play;3.5;0\n"

	res, err := newTestIngester(WithDelimiter(';')).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Half-Life", res.Records[0].Name)
}

func TestRun_CRLFLines(t *testing.T) {
	input := "h\r\n7,Half-Life,play,3.5,0\r\n"

	res, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Diagnostics)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestIngester().Run(ctx, strings.NewReader("h\n1,A,play,1,0\n"))
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_ReadFailure(t *testing.T) {
	boom := errors.New("disk on fire")

	_, err := newTestIngester().Run(context.Background(), iotest.ErrReader(boom))
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.ErrorIs(t, err, boom)
}

func TestRun_LineTooLong(t *testing.T) {
	input := "h\n" + strings.Repeat("x", maxLineBytes+1) + "\n"

	_, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "line longer than")
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\n7,Half-Life,play,3.5,0\n"), 0o644))

	res, err := newTestIngester().RunFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)
	assert.Len(t, res.Records, 1)
}

func TestRunFile_Missing(t *testing.T) {
	_, err := newTestIngester().RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "OPEN_FAILED")
}

func TestRun_LogsDuplicatesAndDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	input := "h\n1,A,play,1,0\n1,A,play,1,0\n2,B,nap,1,0\n"
	_, err := newTestIngester().Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="duplicate record"`)
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, `msg="malformed input"`)
	assert.Contains(t, out, "code=W002")
	assert.Contains(t, out, "run_id=run-1")
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	in := New(
		WithRunIDGenerator(NewFixedGenerator("run-9")),
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)

	_, err := in.Run(context.Background(), strings.NewReader("h\n1,A,play,1,0\n"))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `msg="record inserted"`)
	assert.Contains(t, buf.String(), "run_id=run-9")
}
