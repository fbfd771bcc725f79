// Package harness runs end-to-end conformance scenarios against the ingest pipeline.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	delimiter: ","        # optional, default ","
//	header: true          # optional, default true
//	run_id: fixed-id      # optional, default "test-run-default"
//	input: |
//	  user_id,game,behavior,value,other
//	  5,X,play,1.0,0
//	assertions:
//	  - type: records
//	    records:
//	      - 'id=5 name="X" behavior=Play measure=1'
//	  - type: duplicate
//	    line: 5
//	    record: 'id=3 name="A" behavior=Play measure=1'
//	  - type: diagnostic
//	    line: 2
//	    code: W002
//	  - type: count
//	    field: duplicates
//	    count: 1
//	  - type: empty_tree
//
// # Assertion Types
//
//   - records: the in-order traversal equals the listed records exactly
//   - duplicate: a duplicate was reported for the given line (and record, if set)
//   - diagnostic: a diagnostic with the given code was reported for the given line
//   - count: a run statistic has the given value
//   - empty_tree: no record reached the tree
//
// # Ledger Round Trip
//
// Every scenario run is also written to an in-memory run ledger and read back;
// any difference between the live and the reloaded report fails the scenario.
//
// # Golden Files
//
// RunWithGolden compares a text snapshot of the report against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
