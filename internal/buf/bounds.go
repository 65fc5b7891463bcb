// Package buf contains overflow-safe arithmetic and bounds helpers shared by
// the region implementations and the allocator.
package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// GrowWithin returns cur+n if n is non-negative and the sum neither overflows
// nor exceeds limit.
//
// This is the bounds check every region performs before moving its break:
//
//	end, ok := buf.GrowWithin(r.brk, n, r.limit)
//	if !ok {
//	    return 0, mem.ErrOutOfMemory
//	}
func GrowWithin(cur, n, limit int) (int, bool) {
	if n < 0 || cur < 0 {
		return 0, false
	}
	end, ok := AddOverflowSafe(cur, n)
	if !ok || end > limit {
		return 0, false
	}
	return end, true
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// The result's capacity is clipped to n so appends cannot spill past it.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
