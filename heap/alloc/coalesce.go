package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block bp (already tagged free with size) with any
// free neighbours, files the result in the index, and returns its pointer,
// which moves back to the previous block when that one was free.
//
// The prologue and epilogue are tagged allocated, so both neighbours are
// always readable and never merged.
func (fa *SegAllocator) coalesce(bp Ptr, size uint32) Ptr {
	prevAlloc := format.TagAlloc(fa.get(uint32(bp) - format.DoubleWordSize))
	next := fa.nextBlock(bp)
	nextAlloc := fa.isAllocated(next)

	switch {
	case prevAlloc && nextAlloc:
		// Nothing to merge.

	case prevAlloc && !nextAlloc:
		fa.removeFree(next)
		size += fa.blockSize(next)
		fa.setTags(bp, size, false)
		fa.stats.CoalesceNext++

	case !prevAlloc && nextAlloc:
		prev := fa.prevBlock(bp)
		fa.removeFree(prev)
		size += fa.blockSize(prev)
		bp = prev
		fa.setTags(bp, size, false)
		fa.stats.CoalescePrev++

	default:
		prev := fa.prevBlock(bp)
		fa.removeFree(prev)
		fa.removeFree(next)
		size += fa.blockSize(prev) + fa.blockSize(next)
		bp = prev
		fa.setTags(bp, size, false)
		fa.stats.CoalesceBoth++
	}

	fa.insertFree(bp, size)
	return bp
}
