package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gametree/internal/config"
)

// DefaultRunID is the run id used when a scenario does not fix one.
const DefaultRunID = "test-run-default"

// Scenario defines a conformance test scenario: an input table and the
// report it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Delimiter is the field separator. Empty means ",".
	Delimiter string `yaml:"delimiter,omitempty"`

	// Header controls whether the first input line is discarded. Nil means true.
	Header *bool `yaml:"header,omitempty"`

	// RunID fixes the run identifier for deterministic snapshots.
	RunID string `yaml:"run_id,omitempty"`

	// Input is the raw table, header line included.
	Input string `yaml:"input"`

	// Assertions validate the resulting report.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of the report.
type Assertion struct {
	// Type is one of records, duplicate, diagnostic, count, empty_tree.
	Type string `yaml:"type"`

	// Records is the expected traversal, one Record.String() per entry (records).
	Records []string `yaml:"records,omitempty"`

	// Record is the expected diverted record (duplicate, optional).
	Record string `yaml:"record,omitempty"`

	// Existing is the expected resident record a duplicate equals (duplicate, optional).
	Existing string `yaml:"existing,omitempty"`

	// Line is the 1-based source line (duplicate, diagnostic).
	Line int `yaml:"line,omitempty"`

	// Code is the diagnostic code (diagnostic).
	Code string `yaml:"code,omitempty"`

	// Field names the statistic (count).
	Field string `yaml:"field,omitempty"`

	// Count is the expected statistic value (count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRecords    = "records"
	AssertDuplicate  = "duplicate"
	AssertDiagnostic = "diagnostic"
	AssertCount      = "count"
	AssertEmptyTree  = "empty_tree"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Delimiter != "" {
		if _, err := config.ParseDelimiter(s.Delimiter); err != nil {
			return fmt.Errorf("delimiter: %w", err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRecords:
		if a.Records == nil {
			return fmt.Errorf("assertions[%d]: records list is required for records", index)
		}
	case AssertDuplicate:
		if a.Line <= 0 {
			return fmt.Errorf("assertions[%d]: line is required for duplicate", index)
		}
	case AssertDiagnostic:
		if a.Line <= 0 {
			return fmt.Errorf("assertions[%d]: line is required for diagnostic", index)
		}
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic", index)
		}
	case AssertCount:
		if _, ok := countFields[a.Field]; !ok {
			return fmt.Errorf("assertions[%d]: unknown count field %q", index, a.Field)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertEmptyTree:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
