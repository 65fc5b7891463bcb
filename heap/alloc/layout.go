package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Block layout primitives.
//
// A block pointer bp is the offset of the payload. The header tag sits in the
// word before it and the footer tag in the last word of the block:
//
//	bp-4          header  (size | allocated)
//	bp            payload, or pred link when free
//	bp+4          succ link when free
//	bp+size-8     footer  (size | allocated)
//	bp+size       payload of the next block
//
// The word at bp-8 is the footer of the previous block, which is what makes
// backward traversal O(1).

func (fa *SegAllocator) get(off uint32) uint32 {
	return format.ReadU32(fa.data, int(off))
}

func (fa *SegAllocator) put(off, v uint32) {
	format.PutU32(fa.data, int(off), v)
	if fa.dt != nil {
		fa.dt.Add(int(off), format.WordSize)
	}
}

func hdrp(bp Ptr) uint32 { return uint32(bp) - format.WordSize }

func (fa *SegAllocator) ftrp(bp Ptr) uint32 {
	return uint32(bp) + fa.blockSize(bp) - format.DoubleWordSize
}

func (fa *SegAllocator) blockSize(bp Ptr) uint32 {
	return format.TagSize(fa.get(hdrp(bp)))
}

func (fa *SegAllocator) isAllocated(bp Ptr) bool {
	return format.TagAlloc(fa.get(hdrp(bp)))
}

func (fa *SegAllocator) nextBlock(bp Ptr) Ptr {
	return bp + Ptr(fa.blockSize(bp))
}

func (fa *SegAllocator) prevBlock(bp Ptr) Ptr {
	return bp - Ptr(format.TagSize(fa.get(uint32(bp)-format.DoubleWordSize)))
}

// setTags writes the same tag to the header and to the footer at bp+size-8.
func (fa *SegAllocator) setTags(bp Ptr, size uint32, allocated bool) {
	tag := format.Pack(size, allocated)
	fa.put(hdrp(bp), tag)
	fa.put(uint32(bp)+size-format.DoubleWordSize, tag)
}

// Free-list links, valid only while the block is free.

func (fa *SegAllocator) pred(bp Ptr) Ptr { return Ptr(fa.get(uint32(bp))) }

func (fa *SegAllocator) succ(bp Ptr) Ptr { return Ptr(fa.get(uint32(bp) + format.WordSize)) }

func (fa *SegAllocator) setPred(bp, p Ptr) { fa.put(uint32(bp), uint32(p)) }

func (fa *SegAllocator) setSucc(bp, p Ptr) { fa.put(uint32(bp)+format.WordSize, uint32(p)) }

// block decodes the block at bp into a Block view.
func (fa *SegAllocator) block(bp Ptr) Block {
	tag := fa.get(hdrp(bp))
	b := Block{
		Ptr:       bp,
		Size:      int(format.TagSize(tag)),
		Allocated: format.TagAlloc(tag),
	}
	if !b.Allocated {
		b.Pred = fa.pred(bp)
		b.Succ = fa.succ(bp)
	}
	return b
}
