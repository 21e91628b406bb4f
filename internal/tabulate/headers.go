// Package tabulate turns flattened records into rectangular CSV. Pass
// one collects the ordered, deduplicated union of all dotted keys (the
// column set); pass two re-flattens each record and emits one row per
// record aligned to that column set. Records are never cached between
// the passes: re-flattening trades recomputation for bounded temporary
// memory, which is part of the design, not an oversight.
package tabulate

import (
	"bytes"

	"github.com/cespare/xxhash/v2"

	"jsontab/internal/arena"
	"jsontab/internal/flatten"
	"jsontab/internal/models"
)

// HeaderSet is the deduplicated set of all dotted keys seen across all
// records, in first-seen order. Key membership is checked through
// 64-bit xxhash IDs; a hash bucket holds candidate indices and the
// final decision is a byte comparison, so an ID collision cannot merge
// two distinct columns.
type HeaderSet struct {
	keys   [][]byte
	byID   map[uint64][]int
	perm   *arena.Arena
	frozen bool
}

// NewHeaderSet creates an empty header set. Key copies are allocated
// from perm and live for the whole run.
func NewHeaderSet(perm *arena.Arena) *HeaderSet {
	return &HeaderSet{
		byID: make(map[uint64][]int),
		perm: perm,
	}
}

// Add inserts a key unless it is already present. First-seen order is
// preserved. Add must not be called after Freeze: the column set is
// fixed before any row is emitted.
func (h *HeaderSet) Add(key []byte) {
	if h.frozen {
		panic("tabulate: Add on frozen header set")
	}
	id := xxhash.Sum64(key)
	for _, idx := range h.byID[id] {
		if bytes.Equal(h.keys[idx], key) {
			return
		}
	}
	h.keys = append(h.keys, h.perm.Copy(key))
	h.byID[id] = append(h.byID[id], len(h.keys)-1)
}

// Contains reports whether key is present.
func (h *HeaderSet) Contains(key []byte) bool {
	id := xxhash.Sum64(key)
	for _, idx := range h.byID[id] {
		if bytes.Equal(h.keys[idx], key) {
			return true
		}
	}
	return false
}

// Freeze marks the set immutable for the emission pass.
func (h *HeaderSet) Freeze() {
	h.frozen = true
}

// Len returns the number of columns.
func (h *HeaderSet) Len() int {
	return len(h.keys)
}

// Keys returns the column keys in first-seen order. The caller must
// not mutate them.
func (h *HeaderSet) Keys() [][]byte {
	return h.keys
}

// Collect runs the header-collection pass: each record is flattened
// into tmp, its keys are added to the set, and tmp is reset before the
// next record. The set is frozen afterwards.
func Collect(headers *HeaderSet, records []*models.Value, tmp *arena.Arena) {
	for _, record := range records {
		mark := tmp.Mark()
		pairs := flatten.Flatten(record, tmp)
		for i := range pairs {
			headers.Add(pairs[i].Key)
		}
		tmp.Reset(mark)
	}
	headers.Freeze()
}
