package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gametree/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// NewRootCommand creates the root command for the gametree CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gametree",
		Short: "gametree - ordered duplicate detection for game event tables",
		Long: `Load game-platform event tables (user id, game, behavior, measure) into an
ordered binary search tree, print the records in composite order and report
exact duplicates.`,
		SilenceErrors: true, // main prints errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, config.Formats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}
