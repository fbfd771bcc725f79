package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/gametree/internal/record"
)

// DefaultDelimiter separates fields in the reference data set.
const DefaultDelimiter = ','

// FieldCount is the number of logical fields on a data line:
// id, name, behavior, measure and one trailing unused field.
const FieldCount = 5

const quote = "\""

// SplitFields extracts the fields of one line.
//
// Every quote character is removed first. With fewer than four separators left
// the result is the single element [line]; otherwise it is always exactly
// FieldCount elements, the name field absorbing any extra separators.
func SplitFields(line string, sep byte) []string {
	line = strings.ReplaceAll(line, quote, "")

	var seps []int
	for i := 0; i < len(line); i++ {
		if line[i] == sep {
			seps = append(seps, i)
		}
	}
	n := len(seps)
	if n < FieldCount-1 {
		return []string{line}
	}

	return []string{
		line[:seps[0]],
		line[seps[0]+1 : seps[n-3]],
		line[seps[n-3]+1 : seps[n-2]],
		line[seps[n-2]+1 : seps[n-1]],
		line[seps[n-1]+1:],
	}
}

// Parse turns one line into a record. Diagnostics carry line number 0.
func Parse(line string, sep byte) (record.Record, []Diagnostic) {
	return ParseLine(0, line, sep)
}

// ParseLine is Parse with diagnostics stamped with the 1-based source line lineNo.
func ParseLine(lineNo int, line string, sep byte) (record.Record, []Diagnostic) {
	fields := SplitFields(line, sep)
	if len(fields) != FieldCount {
		return record.Sentinel, []Diagnostic{{
			Line:    lineNo,
			Code:    CodeFieldCount,
			Message: fmt.Sprintf("expected %d fields, found %d", FieldCount, len(fields)),
			Input:   line,
		}}
	}

	var diags []Diagnostic
	rec := record.Record{
		ID:   parseID(fields[0]),
		Name: fields[1],
	}

	behavior, ok := parseBehavior(fields[2])
	if !ok {
		diags = append(diags, Diagnostic{
			Line:    lineNo,
			Code:    CodeUnknownBehavior,
			Message: fmt.Sprintf("unrecognized behavior %q", fields[2]),
			Input:   fields[2],
		})
	}
	rec.Behavior = behavior

	measure, ok := parseMeasure(fields[3])
	if !ok {
		diags = append(diags, Diagnostic{
			Line:    lineNo,
			Code:    CodeInvalidMeasure,
			Message: fmt.Sprintf("invalid measure %q, defaulting to 0", fields[3]),
			Input:   fields[3],
		})
	}
	rec.Measure = measure

	return rec, diags
}

// parseID reads an unsigned 32-bit id, 0 on any failure.
func parseID(s string) uint32 {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(id)
}

// parseBehavior matches the label case-insensitively using Unicode case folding.
func parseBehavior(label string) (record.Behavior, bool) {
	switch cases.Fold().String(label) {
	case "play":
		return record.Play, true
	case "purchase":
		return record.Purchase, true
	default:
		return record.Error, false
	}
}

// parseMeasure reads a finite float64. NaN and infinities are rejected so every
// record stays totally ordered and JSON encodable.
func parseMeasure(s string) (float64, bool) {
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, false
	}
	return m, true
}
