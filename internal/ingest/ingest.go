package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/gametree/internal/parser"
	"github.com/roach88/gametree/internal/record"
	"github.com/roach88/gametree/internal/tree"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Duplicate is a tree duplicate annotated with the source line it came from.
type Duplicate struct {
	tree.Duplicate
	Line int `json:"line"`
}

func (d Duplicate) String() string {
	return fmt.Sprintf("%s (line %d)", d.Record, d.Line)
}

// Stats summarizes a run.
type Stats struct {
	Lines       int `json:"lines"`      // lines read, header included
	DataLines   int `json:"data_lines"` // lines handed to the parser
	Inserted    int `json:"inserted"`   // records that became tree nodes
	Duplicates  int `json:"duplicates"`
	Diagnostics int `json:"diagnostics"`
	Sentinels   int `json:"sentinels"` // lines replaced by the sentinel record
	Height      int `json:"height"`
}

// Result is everything a run produced.
type Result struct {
	RunID       string              `json:"run_id"`
	Source      string              `json:"source"`
	Records     []record.Record     `json:"records"` // in-order traversal of the tree
	Duplicates  []Duplicate         `json:"duplicates"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
	Stats       Stats               `json:"stats"`

	Tree *tree.Tree `json:"-"`
}

// TreeBuilt reports whether at least one record reached the tree.
// It also holds for results reloaded from the run ledger, which carry no Tree.
func (r *Result) TreeBuilt() bool {
	return len(r.Records) > 0
}

// Ingester reads delimited event tables into a tree.
type Ingester struct {
	delimiter byte
	header    bool
	source    string
	runIDs    RunIDGenerator
	logger    *slog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithDelimiter sets the field separator. Default: ','.
func WithDelimiter(sep byte) Option {
	return func(in *Ingester) {
		in.delimiter = sep
	}
}

// WithHeader controls whether the first line is a header to discard. Default: true.
func WithHeader(header bool) Option {
	return func(in *Ingester) {
		in.header = header
	}
}

// WithSource labels the input in results and logs.
func WithSource(source string) Option {
	return func(in *Ingester) {
		in.source = source
	}
}

// WithRunIDGenerator overrides the UUIDv7 run id generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(in *Ingester) {
		in.runIDs = g
	}
}

// WithLogger sets the logger. Default: slog.Default() at run time.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Ingester) {
		in.logger = logger
	}
}

// New creates an Ingester with defaults overridden by opts.
func New(opts ...Option) *Ingester {
	in := &Ingester{
		delimiter: parser.DefaultDelimiter,
		header:    true,
		source:    "-",
		runIDs:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RunFile opens path and runs it. The source label defaults to the path.
func (in *Ingester) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeOpenFailed, Message: "cannot open input", Err: err}
	}
	defer f.Close()

	if in.source == "-" {
		clone := *in
		clone.source = path
		return clone.Run(ctx, f)
	}
	return in.Run(ctx, f)
}

// Run consumes r line by line. Every data line yields exactly one insertion
// attempt; the header line, when configured, is discarded unparsed.
//
// Cancellation is checked between lines.
func (in *Ingester) Run(ctx context.Context, r io.Reader) (*Result, error) {
	res := &Result{
		RunID:       in.runIDs.Generate(),
		Source:      in.source,
		Records:     []record.Record{},
		Duplicates:  []Duplicate{},
		Diagnostics: []parser.Diagnostic{},
		Tree:        tree.New(),
	}
	logger := in.logger
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("run_id", res.RunID)
	log.Info("ingest starting", "source", in.source, "delimiter", string(in.delimiter))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			log.Info("ingest stopping: context cancelled", "line", lineNo)
			return nil, &Error{Code: ErrCodeCancelled, Message: "ingest cancelled", Line: lineNo, Err: err}
		}
		lineNo++
		res.Stats.Lines++
		if lineNo == 1 && in.header {
			log.Debug("header discarded", "header", scanner.Text())
			continue
		}
		in.consume(log, res, lineNo, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = fmt.Errorf("line longer than %d bytes: %w", maxLineBytes, err)
		}
		return nil, &Error{Code: ErrCodeReadFailed, Message: "reading input", Line: lineNo, Err: err}
	}

	res.Records = res.Tree.Records()
	res.Stats.Inserted = res.Tree.Len()
	res.Stats.Height = res.Tree.Height()

	log.Info("ingest finished",
		"lines", res.Stats.Lines,
		"records", res.Stats.Inserted,
		"duplicates", res.Stats.Duplicates,
		"diagnostics", res.Stats.Diagnostics,
		"height", res.Stats.Height,
	)
	if !res.TreeBuilt() {
		log.Warn("no records were parsed; no tree was built")
	}
	return res, nil
}

// consume parses one data line and inserts the result.
func (in *Ingester) consume(log *slog.Logger, res *Result, lineNo int, line string) {
	res.Stats.DataLines++

	rec, diags := parser.ParseLine(lineNo, line, in.delimiter)
	for _, d := range diags {
		log.Warn("malformed input", "line", d.Line, "code", d.Code, "message", d.Message)
	}
	res.Diagnostics = append(res.Diagnostics, diags...)
	res.Stats.Diagnostics += len(diags)
	if len(diags) > 0 && diags[0].Code == parser.CodeFieldCount {
		res.Stats.Sentinels++
	}

	if res.Tree.Insert(rec) {
		log.Debug("record inserted", "line", lineNo, "record", rec.String())
		return
	}

	dups := res.Tree.Duplicates()
	dup := Duplicate{Duplicate: dups[len(dups)-1], Line: lineNo}
	res.Duplicates = append(res.Duplicates, dup)
	res.Stats.Duplicates++
	log.Warn("duplicate record", "line", lineNo, "record", rec.String())
}
