package harness

import "github.com/roach88/gametree/internal/ingest"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the ingest result the assertions were evaluated against.
	Report *ingest.Result `json:"report"`
}

// NewResult creates a new passing result.
func NewResult(report *ingest.Result) *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Report: report,
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
