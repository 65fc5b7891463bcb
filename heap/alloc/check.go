package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Check validates the whole heap image and returns the first inconsistency
// found, wrapped in ErrCorrupt.
//
// Region checks:
//   - prologue header and footer are (8, allocated)
//   - every block is aligned, at least MinBlockSize, inside the region,
//     and its header equals its footer
//   - no two free blocks are adjacent
//   - the walk ends on an epilogue in the last word of the region
//
// Index checks:
//   - every list entry is a free block inside the region
//   - every entry classifies to the list it is on
//   - lists are sorted ascending and pred links mirror succ links
//   - the lists hold exactly the free blocks found by the walk
func (fa *SegAllocator) Check() error {
	n := len(fa.data)
	if n < format.InitialRegionSize+format.WordSize {
		return fmt.Errorf("%w: region of %d bytes is too small", ErrCorrupt, n)
	}
	if fa.get(format.PrologueHeaderOffset) != format.PrologueTag ||
		fa.get(format.PrologueOffset) != format.PrologueTag {
		return fmt.Errorf("%w: bad prologue", ErrCorrupt)
	}
	if fa.get(uint32(n-format.WordSize)) != format.EpilogueTag {
		return fmt.Errorf("%w: no epilogue at end of region (%d)", ErrCorrupt, n-format.WordSize)
	}

	free, err := fa.checkBlocks(n)
	if err != nil {
		return err
	}
	return fa.checkLists(n, free)
}

// checkBlocks walks the region and returns the number of free blocks.
func (fa *SegAllocator) checkBlocks(n int) (int, error) {
	free := 0
	prevFree := false
	bp := Ptr(format.FirstBlockOffset)
	for {
		if int(bp) > n {
			return 0, fmt.Errorf("%w: block %d starts past end of region (%d)", ErrCorrupt, bp, n)
		}
		tag := fa.get(hdrp(bp))
		size := format.TagSize(tag)
		if size == 0 {
			if int(bp) != n || !format.TagAlloc(tag) {
				return 0, fmt.Errorf("%w: epilogue at %d, region ends at %d", ErrCorrupt, bp, n)
			}
			return free, nil
		}
		if !format.IsAligned(int(bp)) {
			return 0, fmt.Errorf("%w: block %d is not %d-byte aligned", ErrCorrupt, bp, format.Alignment)
		}
		if size < format.MinBlockSize {
			return 0, fmt.Errorf("%w: block %d has size %d < %d", ErrCorrupt, bp, size, format.MinBlockSize)
		}
		if !buf.Has(fa.data, int(hdrp(bp)), int(size)) {
			return 0, fmt.Errorf("%w: block %d size %d overruns region (%d)", ErrCorrupt, bp, size, n)
		}
		end := int(bp) + int(size)
		if ftr := fa.get(uint32(end - format.DoubleWordSize)); ftr != tag {
			return 0, fmt.Errorf("%w: block %d header %#x != footer %#x", ErrCorrupt, bp, tag, ftr)
		}
		isFree := !format.TagAlloc(tag)
		if isFree {
			if prevFree {
				return 0, fmt.Errorf("%w: block %d and its predecessor are both free", ErrCorrupt, bp)
			}
			free++
		}
		prevFree = isFree
		bp = Ptr(end)
	}
}

func (fa *SegAllocator) checkLists(n, free int) error {
	listed := 0
	for class := range format.NumClasses {
		var prev Ptr
		var prevSize uint32
		for bp := fa.head(class); bp != Nil; bp = fa.succ(bp) {
			listed++
			if listed > free {
				return fmt.Errorf("%w: lists hold more than the %d free blocks (cycle?)", ErrCorrupt, free)
			}
			if int(bp) < format.FirstBlockOffset || int(bp) > n-format.MinBlockSize || !format.IsAligned(int(bp)) {
				return fmt.Errorf("%w: class %d entry %d is not a block pointer", ErrCorrupt, class, bp)
			}
			tag := fa.get(hdrp(bp))
			if format.TagAlloc(tag) {
				return fmt.Errorf("%w: class %d entry %d is allocated", ErrCorrupt, class, bp)
			}
			size := format.TagSize(tag)
			if got := sizeClass(size); got != class {
				return fmt.Errorf("%w: block %d of size %d is on class %d, belongs to %d", ErrCorrupt, bp, size, class, got)
			}
			if size < prevSize {
				return fmt.Errorf("%w: class %d not sorted at %d (%d after %d)", ErrCorrupt, class, bp, size, prevSize)
			}
			if p := fa.pred(bp); p != prev {
				return fmt.Errorf("%w: block %d pred %d, expected %d", ErrCorrupt, bp, p, prev)
			}
			prev, prevSize = bp, size
		}
	}
	if listed != free {
		return fmt.Errorf("%w: %d free blocks in region, %d on lists", ErrCorrupt, free, listed)
	}
	return nil
}
