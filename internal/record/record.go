package record

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
)

// Behavior classifies what a user did with a game.
type Behavior int

// Declaration order is the sort order.
const (
	Play Behavior = iota
	Purchase
	Error
)

// String returns the display name of the behavior.
func (b Behavior) String() string {
	switch b {
	case Play:
		return "Play"
	case Purchase:
		return "Purchase"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// BehaviorFromName maps a display name back to a Behavior.
// Matching uses Unicode case folding, the same as the line parser.
// Unknown names return Error and false.
func BehaviorFromName(name string) (Behavior, bool) {
	switch cases.Fold().String(name) {
	case "play":
		return Play, true
	case "purchase":
		return Purchase, true
	case "error":
		return Error, true
	default:
		return Error, false
	}
}

// MarshalJSON encodes the behavior as its display name.
func (b Behavior) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a display name produced by MarshalJSON.
func (b *Behavior) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("behavior: %w", err)
	}
	parsed, ok := BehaviorFromName(name)
	if !ok {
		return fmt.Errorf("behavior: unknown name %q", name)
	}
	*b = parsed
	return nil
}

// Record is one row of the event table.
type Record struct {
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Behavior Behavior `json:"behavior"`
	Measure  float64  `json:"measure"`
}

// Sentinel is substituted for lines that cannot be split into fields.
var Sentinel = Record{
	ID:       0,
	Name:     "Unknown",
	Behavior: Error,
	Measure:  0,
}

// IsSentinel reports whether r is exactly the sentinel record.
func (r Record) IsSentinel() bool {
	return r.ID == Sentinel.ID &&
		r.Name == Sentinel.Name &&
		r.Behavior == Sentinel.Behavior &&
		r.Measure == Sentinel.Measure
}

// String renders the record on a single line, e.g.
//
//	id=7 name="Half-Life" behavior=Play measure=3.5
func (r Record) String() string {
	return fmt.Sprintf("id=%d name=%q behavior=%s measure=%s",
		r.ID, r.Name, r.Behavior, FormatMeasure(r.Measure))
}

// FormatMeasure writes a measure in its shortest decimal form (1 rather than 1.000000).
func FormatMeasure(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
