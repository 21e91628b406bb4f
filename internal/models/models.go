// Package models holds the value tree produced by the parser and the
// flattened pair representation consumed by the tabulation passes.
package models

import "bytes"

// Kind tags a Value with its JSON type.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Member is one key/value entry of an Object. Members keep insertion
// order, and duplicate keys are all retained: flattening sees every
// occurrence in order, there is no last-wins collapsing.
type Member struct {
	Key   []byte
	Value *Value
}

// Value is one node of a parsed JSON document. Exactly one payload
// field is meaningful for a given Kind:
//
//	Bool          -> Boolean
//	Number/String -> Text
//	Array         -> Items
//	Object        -> Members
//
// Text is either a sub-slice of the original input buffer (the
// escape-free zero-copy case) or a copy owned by the permanent arena
// (strings that required escape decoding). Callers cannot tell which;
// both are valid for the lifetime of the run. Numbers keep their
// original decimal text so numeric literals round-trip losslessly
// into CSV cells.
type Value struct {
	Kind    Kind
	Boolean bool
	Text    []byte
	Items   []*Value
	Members []Member
}

var (
	nullText    = []byte("null")
	trueText    = []byte("true")
	falseText   = []byte("false")
	complexText = []byte("[complex]")
)

// IsPrimitive reports whether v is a leaf value (null, bool, number
// or string).
func (v *Value) IsPrimitive() bool {
	return v.Kind != Array && v.Kind != Object
}

// PrimitiveText returns the CSV cell text of a primitive value:
// the literal spelling for null and bools, the verbatim source text
// for numbers, and the raw (decoded) text for strings.
func (v *Value) PrimitiveText() []byte {
	switch v.Kind {
	case Null:
		return nullText
	case Bool:
		if v.Boolean {
			return trueText
		}
		return falseText
	case Number, String:
		return v.Text
	default:
		return complexText
	}
}

// Pair is one flattened (dotted-key, stringified-value) entry of a
// record. Both slices live in the temporary arena and are only valid
// until the per-record reset.
type Pair struct {
	Key []byte
	Val []byte
}

// PairList is the flattened form of one record, in flatten order.
type PairList []Pair

// Get looks up a dotted key by exact byte match and returns its value,
// or nil when the record lacks that path (sparse records produce empty
// cells, never errors). A linear scan is deliberate: per-record key
// counts are small in the intended workload.
func (l PairList) Get(key []byte) []byte {
	for i := range l {
		if bytes.Equal(l[i].Key, key) {
			return l[i].Val
		}
	}
	return nil
}
