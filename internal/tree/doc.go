// Package tree implements an unbalanced binary search tree of records that also
// detects exact duplicates.
//
// Records are ordered by a four-level composite order: id, then name, then
// behavior, then measure. Each level is consulted only when the previous levels
// are equal. A record equal to a resident record on all four levels is not
// inserted; it is appended to the tree's duplicate collection instead, so the tree
// itself behaves as a set.
//
// The tree is write-once: nodes are never removed, rebalanced or mutated after
// they are attached, and each child link is set at most once.
//
// A Tree is not safe for concurrent use. Callers that parse in parallel must
// funnel insertions through a single owner.
package tree
