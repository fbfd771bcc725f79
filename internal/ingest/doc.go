// Package ingest drives the record pipeline: lines from a reader are parsed one at
// a time and inserted into a single tree.Tree.
//
// ARCHITECTURE:
//
// Single insertion owner:
// Run reads, parses and inserts on the calling goroutine. The tree has no
// internal locking, so nothing else may touch it while Run is in progress.
//
// Structured accumulation:
// Parser diagnostics and tree duplicates are collected into Result rather than
// printed. They are also logged through log/slog as they happen (Warn level), so a
// caller can choose between the returned report and the log stream.
//
// Failure model:
// Malformed lines never fail a run; they become defaults, sentinel records and
// diagnostics. Only I/O problems (open/read failures) and context cancellation
// return an error.
package ingest
