package record

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// MarshalCanonical produces the canonical JSON form of a record used for hashing.
//
// The encoding is stable across platforms and Go versions:
//  1. Keys are written in sorted order: behavior, id, measure, name_hex
//  2. The name is written as the hex of its raw bytes, so names that differ in
//     any byte (including unnormalized or invalid UTF-8) never share an encoding
//  3. The measure is written as a string holding its shortest round-trip form,
//     with -0 folded into 0
//
// Two records have the same encoding exactly when tree.Compare reports them equal.
func MarshalCanonical(r Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"behavior":`)
	buf.WriteString(strconv.Quote(r.Behavior.String()))
	buf.WriteString(`,"id":`)
	buf.WriteString(strconv.FormatUint(uint64(r.ID), 10))
	buf.WriteString(`,"measure":`)
	buf.WriteString(strconv.Quote(canonicalMeasure(r.Measure)))
	buf.WriteString(`,"name_hex":"`)
	buf.WriteString(hex.EncodeToString([]byte(r.Name)))
	buf.WriteString(`"}`)
	return buf.Bytes(), nil
}

func canonicalMeasure(m float64) string {
	if m == 0 {
		m = 0 // -0 == 0 under the composite order
	}
	return strconv.FormatFloat(m, 'g', -1, 64)
}
