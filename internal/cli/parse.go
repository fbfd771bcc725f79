package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gametree/internal/config"
	"github.com/roach88/gametree/internal/parser"
	"github.com/roach88/gametree/internal/record"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Delimiter string
}

// ParseResult is the JSON payload of the parse command.
type ParseResult struct {
	Fields      []string            `json:"fields"`
	Record      record.Record       `json:"record"`
	Fingerprint string              `json:"fingerprint"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <line>",
		Short: "Parse a single data line",
		Long: `Parse one data line exactly as build would and print the resulting record,
its content fingerprint and any warnings.

Examples:
  gametree parse '7,Half-Life,play,3.5,0'
  gametree parse ',BadName,weird,notanumber,' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", ",", `field separator (single character, or "tab")`)

	return cmd
}

func runParse(opts *ParseOptions, line string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sep, err := config.ParseDelimiter(opts.Delimiter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid delimiter", err)
	}

	rec, diags := parser.Parse(line, sep)
	if diags == nil {
		diags = []parser.Diagnostic{}
	}
	fp, err := record.Fingerprint(rec)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "fingerprint failed", err)
	}

	result := ParseResult{
		Fields:      parser.SplitFields(line, sep),
		Record:      rec,
		Fingerprint: fp,
		Diagnostics: diags,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w, result.Record)
	fmt.Fprintf(w, "fingerprint: %s\n", result.Fingerprint)
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "warning: %s\n", d)
	}
	return nil
}
