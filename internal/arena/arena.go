// Package arena provides a bump-pointer allocator over a single
// contiguous byte pool. Allocations are served by advancing a cursor
// and are never freed individually; Mark/Reset rewinds the cursor in
// bulk. Two pools with different lifetimes are used by the pipeline:
// a permanent one for data that lives for the whole run (decoded
// strings, header copies) and a temporary one reset after every record.
package arena

import "errors"

// ErrExhausted is raised (via panic) when a pool runs out of space.
// The pool capacity is fixed at construction; there is no mid-run
// expansion, so exhaustion is an unrecoverable sizing failure. The
// top-level pipeline recovers the panic exactly once and converts it
// into a fatal resource error.
var ErrExhausted = errors.New("arena out of memory")

const (
	// DefaultFloor is the minimum pool capacity regardless of input size.
	DefaultFloor = 1 << 20 // 1MiB
	// MaxCapacity caps the pool size estimate for very large inputs.
	MaxCapacity = 2 << 30 // 2GiB
)

// Arena is a fixed-capacity bump allocator.
type Arena struct {
	buf []byte
	off int
}

// New creates an arena with the given capacity in bytes.
func New(capacity int) *Arena {
	if capacity < DefaultFloor {
		capacity = DefaultFloor
	}
	return &Arena{buf: make([]byte, capacity)}
}

// Estimate sizes a pool as a multiple of the input length with a floor
// and a hard cap. Sizing must be generous: allocations made after the
// pool fills up are fatal.
func Estimate(inputLen, multiplier, floor int) int {
	if floor < DefaultFloor {
		floor = DefaultFloor
	}
	size := inputLen*multiplier + floor
	if size > MaxCapacity {
		size = MaxCapacity
	}
	return size
}

// Alloc reserves n bytes and returns the backing slice. Panics with
// ErrExhausted when the pool cannot satisfy the request.
func (a *Arena) Alloc(n int) []byte {
	if a.off+n > len(a.buf) {
		panic(ErrExhausted)
	}
	start := a.off
	a.off += n
	return a.buf[start:a.off:a.off]
}

// Copy duplicates src into the arena and returns the copy.
func (a *Arena) Copy(src []byte) []byte {
	dst := a.Alloc(len(src))
	copy(dst, src)
	return dst
}

// Grow allocates a fresh region of n bytes and copies old into its
// head. The old region's space is abandoned, not reclaimed; it is
// recovered only by the next Reset. This replaces realloc-style
// in-place growth.
func (a *Arena) Grow(old []byte, n int) []byte {
	dst := a.Alloc(n)
	copy(dst, old)
	return dst[:len(old)]
}

// Mark captures the current cursor position.
func (a *Arena) Mark() int {
	return a.off
}

// Reset rewinds the cursor to a previous Mark, invalidating every
// allocation made since. Callers must not retain references to
// arena data across the matching Reset.
func (a *Arena) Reset(mark int) {
	if mark < 0 || mark > a.off {
		return
	}
	a.off = mark
}

// Used reports the number of bytes currently allocated.
func (a *Arena) Used() int {
	return a.off
}

// Cap reports the total pool capacity.
func (a *Arena) Cap() int {
	return len(a.buf)
}
