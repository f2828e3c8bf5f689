package json

import (
	"bytes"
	"encoding/json"
)

// Compact appends to dst the JSON-encoded src with insignificant space
// characters elided.
func Compact(dst *bytes.Buffer, src []byte) error {
	return json.Compact(dst, src)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool { return json.Valid(data) }

// RawMessage is a re-export of encoding/json.RawMessage. The bytes are
// written as-is when marshalled.
type RawMessage = json.RawMessage
