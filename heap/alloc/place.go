package alloc

import "github.com/joshuapare/heapkit/internal/format"

// findFit returns the smallest-sized fitting block of the first non-empty
// class at or above asize's class, or Nil.
//
// Lists are sorted, so the first entry >= asize in the starting class is both
// the first and the best fit there. Any entry of a higher class is large
// enough, so those lists only ever need their head.
func (fa *SegAllocator) findFit(asize uint32) Ptr {
	for class := sizeClass(asize); class < format.NumClasses; class++ {
		for bp := fa.head(class); bp != Nil; bp = fa.succ(bp) {
			if fa.blockSize(bp) >= asize {
				return bp
			}
		}
	}
	return Nil
}

// place carves an allocated block of asize bytes out of the free block bp and
// returns its pointer.
//
// Remainders smaller than MinBlockSize stay inside the allocation. Small
// requests take the low end of the block and leave the free remainder above
// them; large requests take the high end, leaving the remainder below.
func (fa *SegAllocator) place(bp Ptr, asize uint32) Ptr {
	csize := fa.blockSize(bp)
	remain := csize - asize

	fa.removeFree(bp)

	switch {
	case remain < format.MinBlockSize:
		fa.setTags(bp, csize, true)
		fa.stats.PlaceWhole++

	case asize < fa.split:
		fa.setTags(bp, asize, true)
		rest := fa.nextBlock(bp)
		fa.setTags(rest, remain, false)
		fa.insertFree(rest, remain)
		fa.stats.SplitLow++

	default:
		fa.setTags(bp, remain, false)
		fa.insertFree(bp, remain)
		bp = fa.nextBlock(bp)
		fa.setTags(bp, asize, true)
		fa.stats.SplitHigh++
	}
	return bp
}
