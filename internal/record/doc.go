// Package record provides the record model shared by every other gametree package.
//
// A Record is one parsed row of the game-platform event table: a user id, a game
// name, a behavior category and a numeric measure (hours played, or 1.0 for a
// purchase). Records are plain values and are never mutated after construction.
//
// This package imports nothing internal. parser produces Records, tree orders them,
// store persists reports about them.
//
// Key constraints:
//   - Behavior ordering is Play < Purchase < Error; Error is the "failed to classify"
//     sentinel and sorts like any other value
//   - Fingerprint is content-addressed: two records share a fingerprint exactly
//     when they are equal under the tree's composite order, so names are hashed
//     byte for byte with no Unicode normalization
//   - All JSON tags use snake_case
package record
