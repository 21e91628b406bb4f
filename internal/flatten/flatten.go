// Package flatten converts one record's object tree into an ordered
// list of (dotted-key, stringified-value) pairs.
//
// Rules:
//
//   - A nested object contributes its own pairs, keys prefixed with
//     "parent." (no prefix at the top level). A key fragment that
//     itself contains '.' is not escaped, so {"a.b":1} and
//     {"a":{"b":1}} collide on the column name "a.b". This ambiguity
//     is a known limitation, reproduced on purpose.
//   - An array of primitives contributes one pair whose value is the
//     ';'-joined stringification of its elements (empty array joins to
//     the empty string).
//   - An array containing an object or array is not expanded: it
//     contributes one pair with a compact rendering where primitives
//     appear in JSON literal form and nested containers appear as the
//     placeholders {...} and [...]. This is a shallow rendering, not a
//     recursive JSON printer.
//   - A primitive contributes one pair with its stringified form.
package flatten

import (
	"jsontab/internal/arena"
	"jsontab/internal/models"
)

// Flatten produces the flattened pairs of one record, in flatten
// order. Built keys and values are allocated from tmp: the result is
// valid only until the caller resets tmp after consuming it.
func Flatten(record *models.Value, tmp *arena.Arena) models.PairList {
	f := flattener{tmp: tmp}
	f.object(record, nil)
	return f.out
}

type flattener struct {
	tmp *arena.Arena
	buf []byte // reusable build buffer; contents copied to tmp before reuse
	out models.PairList
}

func (f *flattener) object(obj *models.Value, prefix []byte) {
	for i := range obj.Members {
		key := f.makeKey(prefix, obj.Members[i].Key)
		f.value(obj.Members[i].Value, key)
	}
}

func (f *flattener) value(v *models.Value, key []byte) {
	switch v.Kind {
	case models.Object:
		f.object(v, key)
	case models.Array:
		if allPrimitives(v) {
			f.out = append(f.out, models.Pair{Key: key, Val: f.joinPrimitives(v)})
		} else {
			f.out = append(f.out, models.Pair{Key: key, Val: f.renderArray(v)})
		}
	default:
		f.out = append(f.out, models.Pair{Key: key, Val: v.PrimitiveText()})
	}
}

// makeKey joins prefix and k with '.' and copies the result into the
// temporary arena. The copy matters: the build buffer is reused for
// the next key while this one is still referenced by emitted pairs.
func (f *flattener) makeKey(prefix, k []byte) []byte {
	if len(prefix) == 0 {
		return f.tmp.Copy(k)
	}
	f.buf = f.buf[:0]
	f.buf = append(f.buf, prefix...)
	f.buf = append(f.buf, '.')
	f.buf = append(f.buf, k...)
	return f.tmp.Copy(f.buf)
}

func allPrimitives(arr *models.Value) bool {
	for _, item := range arr.Items {
		if !item.IsPrimitive() {
			return false
		}
	}
	return true
}

func (f *flattener) joinPrimitives(arr *models.Value) []byte {
	f.buf = f.buf[:0]
	for i, item := range arr.Items {
		if i > 0 {
			f.buf = append(f.buf, ';')
		}
		f.buf = append(f.buf, item.PrimitiveText()...)
	}
	return f.tmp.Copy(f.buf)
}

// renderArray produces the compact one-level rendering of an array
// that contains at least one container element. Strings reappear in
// quotes around their decoded text; they are not re-escaped.
func (f *flattener) renderArray(arr *models.Value) []byte {
	f.buf = f.buf[:0]
	f.buf = append(f.buf, '[')
	for i, item := range arr.Items {
		if i > 0 {
			f.buf = append(f.buf, ',')
		}
		switch item.Kind {
		case models.Object:
			f.buf = append(f.buf, "{...}"...)
		case models.Array:
			f.buf = append(f.buf, "[...]"...)
		case models.String:
			f.buf = append(f.buf, '"')
			f.buf = append(f.buf, item.Text...)
			f.buf = append(f.buf, '"')
		default:
			f.buf = append(f.buf, item.PrimitiveText()...)
		}
	}
	f.buf = append(f.buf, ']')
	return f.tmp.Copy(f.buf)
}
