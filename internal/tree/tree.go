package tree

import (
	"iter"

	"github.com/roach88/gametree/internal/record"
)

type node struct {
	rec         record.Record
	left, right *node
}

// Duplicate is a record that was diverted instead of inserted.
type Duplicate struct {
	Record   record.Record `json:"record"`
	Existing record.Record `json:"existing"` // the resident record it equals
	Seq      int           `json:"seq"`      // 1-based insertion attempt
}

// Tree is an ordered set of records plus the duplicates it refused.
// The zero value is an empty tree.
type Tree struct {
	root       *node
	size       int
	height     int
	attempts   int
	duplicates []Duplicate
}

// New returns an empty tree.
func New() *Tree {
	return new(Tree)
}

// Insert places r in the tree and reports true, or appends it to the duplicate
// collection and reports false when a resident record compares equal on every key.
// The first record becomes the root without any comparison.
func (t *Tree) Insert(r record.Record) bool {
	t.attempts++
	if t.root == nil {
		t.root = &node{rec: r}
		t.size, t.height = 1, 1
		return true
	}

	depth := 1
	n := t.root
	for {
		c := Compare(r, n.rec)
		if c == 0 {
			t.duplicates = append(t.duplicates, Duplicate{
				Record:   r,
				Existing: n.rec,
				Seq:      t.attempts,
			})
			return false
		}
		depth++
		link := &n.right
		if c < 0 {
			link = &n.left
		}
		if *link == nil {
			*link = &node{rec: r}
			t.size++
			t.height = max(t.height, depth)
			return true
		}
		n = *link
	}
}

// All returns the resident records in ascending composite order.
// Each call starts a fresh walk, so the sequence can be ranged over repeatedly.
// The walk keeps its own stack; a degenerate tree built from sorted input does not
// recurse.
func (t *Tree) All() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		var stack []*node
		n := t.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.rec) {
				return
			}
			n = n.right
		}
	}
}

// Records collects All into a slice.
func (t *Tree) Records() []record.Record {
	out := make([]record.Record, 0, t.size)
	for r := range t.All() {
		out = append(out, r)
	}
	return out
}

// Duplicates returns the diverted records in discovery order.
func (t *Tree) Duplicates() []Duplicate {
	return t.duplicates
}

// Len returns the number of resident records.
func (t *Tree) Len() int {
	return t.size
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	return t.height
}

// Empty reports whether no record has been inserted.
func (t *Tree) Empty() bool {
	return t.root == nil
}
