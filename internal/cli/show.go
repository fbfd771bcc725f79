package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gametree/internal/ingest"
	"github.com/roach88/gametree/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	User     uint32
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run",
		Long: `Print a recorded run's records, warnings and duplicates from the run ledger,
in the same layout as build.

With --user only that user's records and duplicates are printed; the summary
counts still describe the whole run.

Examples:
  gametree show --db ./runs.db 0192f4c4-1f1e-7b3a-9c1d-2a4e5f6a7b8c
  gametree show --db ./runs.db --user 151603712 0192f4c4-1f1e-7b3a-9c1d-2a4e5f6a7b8c`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().Uint32Var(&opts.User, "user", 0, "only show records of this user id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openLedger(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	res, err := st.LoadResult(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", runID), err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load run", err)
	}

	if flagChanged(cmd, "user") {
		records, err := st.RecordsByUser(ctx, runID, opts.User)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load records", err)
		}
		res.Records = records
		res.Duplicates = duplicatesOfUser(res.Duplicates, opts.User)
	}

	if formatter.Format != "json" {
		fmt.Fprintf(formatter.Writer, "Run %s (%s)\n", res.RunID, res.Source)
	}
	return outputReport(formatter, res)
}

func duplicatesOfUser(dups []ingest.Duplicate, user uint32) []ingest.Duplicate {
	out := []ingest.Duplicate{}
	for _, d := range dups {
		if d.Record.ID == user {
			out = append(out, d)
		}
	}
	return out
}
