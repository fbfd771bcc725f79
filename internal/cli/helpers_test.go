package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gametree/internal/ingest"
)

const scenarioAInput = `user_id,game,behavior,value,other
5,X,play,1.0,0
3,A,play,1.0,0
5,X,play,2.0,0
3,A,play,1.0,0
`

// writeInput writes content to a file in a temp directory and returns its path.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// keepDefaultLogger restores the process-wide logger that build replaces.
func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	keepDefaultLogger(t)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// buildCommand returns a build command with fixed run ids.
func buildCommand(format string, runIDs ...string) *cobra.Command {
	return newBuildCommand(&BuildOptions{
		RootOptions: &RootOptions{Format: format},
		RunIDs:      ingest.NewFixedGenerator(runIDs...),
	})
}
