package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gametree", cmd.Use)
	assert.Contains(t, cmd.Long, "binary search tree")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"build", "parse", "runs", "show", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	for _, name := range []string{"delimiter", "no-header", "db", "config"} {
		assert.NotNil(t, buildCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, ",", buildCmd.Flags().Lookup("delimiter").DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	path := writeInput(t, "in.csv", scenarioAInput)

	_, _, err := execute(t, NewRootCommand(), "--format", "xml", "build", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_BuildThroughRoot(t *testing.T) {
	path := writeInput(t, "in.csv", scenarioAInput)

	out, _, err := execute(t, NewRootCommand(), "build", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Duplicates found: 1")
	assert.Contains(t, out, "Tree: 3 nodes, height 2")
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	_, _, err := execute(t, NewRootCommand(), "explode")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
