package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/gametree/internal/config"
	"github.com/roach88/gametree/internal/ingest"
	"github.com/roach88/gametree/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Delimiter  string
	NoHeader   bool
	Database   string
	ConfigPath string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs ingest.RunIDGenerator
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	return newBuildCommand(&BuildOptions{RootOptions: rootOpts})
}

func newBuildCommand(opts *BuildOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build the ordered tree from an event table",
		Long: `Read an event table, insert every data line into the ordered tree and
print the records in composite order (user id, game name, behavior, measure).

Malformed lines are reported as warnings and replaced by defaults or by the
sentinel record. Records equal on all four keys are reported as duplicates.

The input defaults to data/steam-200k.csv. Settings may come from a YAML or
CUE config file; flags override the file. With --db the run is recorded in
a SQLite run ledger.

Examples:
  gametree build
  gametree build ./steam.csv --db ./runs.db
  gametree build ./steam.tsv --delimiter tab --no-header
  gametree build --config ./gametree.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", ",", `field separator (single character, or "tab")`)
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", false, "treat the first line as data")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .cue)")

	return cmd
}

// resolveConfig layers defaults, the config file and explicit flags.
func resolveConfig(opts *BuildOptions, args []string, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	cfg.Format = opts.Format
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		if flagChanged(cmd, "format") {
			loaded.Format = opts.Format
		}
		cfg = loaded
	}

	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if flagChanged(cmd, "delimiter") {
		cfg.Delimiter = opts.Delimiter
	}
	if flagChanged(cmd, "no-header") {
		cfg.Header = !opts.NoHeader
	}
	if flagChanged(cmd, "db") {
		cfg.Database = opts.Database
	}
	return cfg, cfg.Validate()
}

func runBuild(opts *BuildOptions, args []string, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, args, cmd)
	formatter := newFormatter(opts.RootOptions, cmd)
	formatter.Format = cfg.Format
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), opts.Verbose))

	sep, err := cfg.DelimiterByte()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid delimiter", err)
	}

	ingestOpts := []ingest.Option{
		ingest.WithDelimiter(sep),
		ingest.WithHeader(cfg.Header),
	}
	if opts.RunIDs != nil {
		ingestOpts = append(ingestOpts, ingest.WithRunIDGenerator(opts.RunIDs))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter.VerboseLog("Reading %s", cfg.Input)
	res, err := ingest.New(ingestOpts...).RunFile(ctx, cfg.Input)
	if err != nil {
		return failIngest(formatter, err)
	}

	if cfg.Database != "" {
		if err := recordRun(ctx, cfg.Database, res); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", res.RunID, cfg.Database)
	}

	return outputReport(formatter, res)
}

// failIngest maps ingest errors to exit codes.
func failIngest(formatter *OutputFormatter, err error) error {
	var ingestErr *ingest.Error
	if !errors.As(err, &ingestErr) {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "ingest failed", err)
	}
	switch ingestErr.Code {
	case ingest.ErrCodeOpenFailed:
		return formatter.Fail(ExitCommandError, ErrCodeInputNotFound, "cannot open input", ingestErr.Err)
	case ingest.ErrCodeCancelled:
		return formatter.Fail(ExitFailure, ErrCodeCancelled, "interrupted", ingestErr.Err)
	default:
		return formatter.Fail(ExitFailure, ErrCodeReadFailed, fmt.Sprintf("reading input failed at line %d", ingestErr.Line), ingestErr.Err)
	}
}

func recordRun(ctx context.Context, path string, res *ingest.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	inserted, err := st.WriteRun(ctx, res)
	if err != nil {
		return err
	}
	if !inserted {
		slog.Warn("run already recorded", "run_id", res.RunID)
	}
	return nil
}
