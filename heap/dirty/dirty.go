// Package dirty tracks modified byte ranges of a mapped heap image and
// flushes them page by page.
//
// Add only appends to a raw list. Ranges are page-aligned, sorted, and merged
// when flushed or inspected.
//
// Usage:
//
//	dt := dirty.NewTracker()
//	a, err := alloc.New(region, dt, nil)
//	...
//	err = dt.Flush(ctx, region.Bytes())
package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range represents a dirty byte range (offsets from the region start).
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates a dirty tracker with the standard 4KB page size.
func NewTracker() *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Pending returns the number of raw ranges recorded since the last flush.
func (t *Tracker) Pending() int { return len(t.ranges) }

// Flush writes the dirty pages of data back to their backing file and clears
// the tracker. data must be the mapping the offsets refer to, starting on a
// page boundary. Ranges beyond len(data) are clipped.
//
// If ctx is cancelled mid-flush some ranges may already be flushed; the
// tracker keeps all ranges so the flush can be retried.
func (t *Tracker) Flush(ctx context.Context, data []byte) error {
	if len(t.ranges) == 0 || len(data) == 0 {
		t.Reset()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := flushRanges(ctx, data, t.coalesce()); err != nil {
		return err
	}
	t.Reset()
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns the coalesced dirty ranges: page-aligned, sorted, merged.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// clip bounds r to a mapping of n bytes; ok is false when nothing remains.
func clip(r Range, n int) (int, int, bool) {
	start := int(r.Off)
	end := min(int(r.Off+r.Len), n)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
