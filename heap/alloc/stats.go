package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Stats holds allocator counters for tests and instrumentation.
type Stats struct {
	AllocCalls    int // Total Alloc() calls, including Alloc(0)
	AllocFastPath int // Allocations served from a free list
	AllocSlowPath int // Allocations that required extending the region
	FreeCalls     int // Free() calls with a non-nil pointer

	ReallocCalls     int // Realloc() calls with a non-nil pointer
	ReallocUnchanged int // Block already large enough
	ReallocInPlace   int // Grown by absorbing the next block
	ReallocMoved     int // Moved to a new block

	ExtendCalls int   // Region extensions
	ExtendBytes int64 // Total bytes added to the region

	PlaceWhole int // Placements that used the whole free block
	SplitLow   int // Splits with the allocation at the low end
	SplitHigh  int // Splits with the allocation at the high end

	CoalesceNext int // Merges with the next block only
	CoalescePrev int // Merges with the previous block only
	CoalesceBoth int // Merges with both neighbours

	ListInserts int // Free-list insertions
	ListRemoves int // Free-list removals
}

// Stats returns a copy of the allocator counters.
func (fa *SegAllocator) Stats() Stats {
	return fa.stats
}

// Usage summarizes the blocks currently in the region.
type Usage struct {
	HeapSize        int // Region size in bytes
	AllocatedBlocks int
	AllocatedBytes  int // Block bytes, headers and footers included
	PayloadBytes    int // Usable bytes of allocated blocks
	FreeBlocks      int
	FreeBytes       int
	LargestFree     int
}

// Utilization returns the share of the region held by live payloads.
func (u Usage) Utilization() float64 {
	if u.HeapSize == 0 {
		return 0
	}
	return float64(u.PayloadBytes) / float64(u.HeapSize)
}

// Usage walks the region and tallies allocated and free blocks.
func (fa *SegAllocator) Usage() Usage {
	u := Usage{HeapSize: len(fa.data)}
	fa.Walk(func(b Block) bool {
		if b.Allocated {
			u.AllocatedBlocks++
			u.AllocatedBytes += b.Size
			u.PayloadBytes += b.Size - format.DoubleWordSize
		} else {
			u.FreeBlocks++
			u.FreeBytes += b.Size
			u.LargestFree = max(u.LargestFree, b.Size)
		}
		return true
	})
	return u
}
