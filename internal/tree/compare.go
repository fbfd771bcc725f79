package tree

import (
	"cmp"
	"strings"

	"github.com/roach88/gametree/internal/record"
)

// Comparator orders two records on a single key.
// It returns a negative number when a < b, zero when equal and a positive number
// when a > b.
type Comparator func(a, b record.Record) int

// ByID compares numeric ids.
func ByID(a, b record.Record) int {
	return cmp.Compare(a.ID, b.ID)
}

// ByName compares names lexicographically by bytes.
func ByName(a, b record.Record) int {
	return strings.Compare(a.Name, b.Name)
}

// ByBehavior compares behavior ordinals (Play < Purchase < Error).
func ByBehavior(a, b record.Record) int {
	return cmp.Compare(a.Behavior, b.Behavior)
}

// ByMeasure compares measures numerically.
func ByMeasure(a, b record.Record) int {
	return cmp.Compare(a.Measure, b.Measure)
}

// Order is the composite order, most significant key first.
var Order = []Comparator{ByID, ByName, ByBehavior, ByMeasure}

// Compare applies Order with early exit on the first non-equal key.
// A zero result means the records are duplicates.
func Compare(a, b record.Record) int {
	for _, c := range Order {
		if r := c(a, b); r != 0 {
			return r
		}
	}
	return 0
}
