package cli

import (
	"fmt"
	"io"

	"github.com/roach88/gametree/internal/ingest"
)

// outputReport prints a run report: the full result object as JSON, or the
// traversal followed by warnings, duplicates and a summary as text.
func outputReport(formatter *OutputFormatter, res *ingest.Result) error {
	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	writeReport(formatter.Writer, res)
	return nil
}

func writeReport(w io.Writer, res *ingest.Result) {
	for _, r := range res.Records {
		fmt.Fprintln(w, r)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "warning: %s\n", d)
	}
	for _, d := range res.Duplicates {
		fmt.Fprintf(w, "duplicate: %s\n", d)
	}
	writeSummary(w, res)
}

func writeSummary(w io.Writer, res *ingest.Result) {
	if len(res.Duplicates) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
	} else {
		fmt.Fprintf(w, "Duplicates found: %d\n", len(res.Duplicates))
		for _, d := range res.Duplicates {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}

	if res.Stats.Inserted == 0 {
		fmt.Fprintln(w, "No records were parsed; no tree was built.")
		return
	}
	fmt.Fprintf(w, "Tree: %d nodes, height %d\n", res.Stats.Inserted, res.Stats.Height)
}
