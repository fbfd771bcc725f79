package parser

import "fmt"

// Diagnostic codes.
const (
	CodeFieldCount      = "W001" // line did not split into five fields
	CodeUnknownBehavior = "W002" // behavior label is neither play nor purchase
	CodeInvalidMeasure  = "W003" // measure is not a finite number
)

// Diagnostic describes input the parser absorbed with a default.
type Diagnostic struct {
	Line    int    `json:"line"` // 1-based source line, 0 when unknown
	Code    string `json:"code"`
	Message string `json:"message"`
	Input   string `json:"input,omitempty"` // offending field or line
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d [%s] %s", d.Line, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}
