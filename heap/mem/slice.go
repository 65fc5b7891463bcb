package mem

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// SliceRegion is a region backed by a single Go byte slice allocated up front.
// Extend only moves the break, so the backing array never changes.
//
// NOT thread-safe.
type SliceRegion struct {
	data []byte
	brk  int
}

// NewSliceRegion reserves limit bytes. A non-positive limit selects DefaultLimit.
func NewSliceRegion(limit int) *SliceRegion {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &SliceRegion{data: make([]byte, limit)}
}

// Extend moves the break up by n bytes.
func (r *SliceRegion) Extend(n int) (int, error) {
	end, ok := buf.GrowWithin(r.brk, n, len(r.data))
	if !ok {
		return 0, fmt.Errorf("%w: extend by %d at %d (limit %d)", ErrOutOfMemory, n, r.brk, len(r.data))
	}
	old := r.brk
	r.brk = end
	return old, nil
}

// Bytes returns the region up to the break.
func (r *SliceRegion) Bytes() []byte { return r.data[:r.brk:r.brk] }

// Len returns the current break.
func (r *SliceRegion) Len() int { return r.brk }

// Limit returns the reservation size.
func (r *SliceRegion) Limit() int { return len(r.data) }

// Reset moves the break back to zero and clears the used bytes, so the
// region can host a fresh heap.
func (r *SliceRegion) Reset() {
	clear(r.data[:r.brk])
	r.brk = 0
}
