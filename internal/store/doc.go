// Package store provides a SQLite-backed ledger of ingestion runs.
//
// The ledger records what a run reported, not the tree itself:
//   - Runs: source label and statistics, ordered by seq
//   - Records: the in-order traversal, one row per tree node
//   - Duplicates: diverted records, linked to the resident record by fingerprint
//   - Diagnostics: parser warnings in discovery order
//
// # Identity
//
// Run ids are UUIDv7 strings from the ingest package. Record identity is the
// content fingerprint from record.Fingerprint; UNIQUE(run_id, fingerprint) on
// records mirrors the tree's own set semantics, and each duplicate row has a
// foreign key onto the record it duplicates.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
