// Package parser turns one raw delimited line into a record.Record.
//
// The parser never fails. Malformed input is absorbed with defaults and reported
// as Diagnostics:
//   - fewer than five fields: the whole line becomes record.Sentinel (W001)
//   - unparsable id: 0, silently
//   - unrecognized behavior label: record.Error (W002)
//   - unparsable or non-finite measure: 0 (W003)
//
// Field extraction is deliberately not a plain split. Quote characters are removed
// first, the id runs to the first separator, and the remaining boundaries are taken
// from the last three separators on the line. A game name may therefore contain the
// separator character without shifting the behavior and measure columns.
package parser
