package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Walk calls fn for every block between the prologue and the epilogue, in
// address order, until fn returns false.
func (fa *SegAllocator) Walk(fn func(Block) bool) {
	for bp := Ptr(format.FirstBlockOffset); fa.blockSize(bp) != 0; bp = fa.nextBlock(bp) {
		if !fn(fa.block(bp)) {
			return
		}
	}
}

// FreeList returns the blocks of one size class in list order.
func (fa *SegAllocator) FreeList(class int) []Block {
	if class < 0 || class >= format.NumClasses {
		return nil
	}
	var out []Block
	for bp := fa.head(class); bp != Nil; bp = fa.succ(bp) {
		out = append(out, fa.block(bp))
	}
	return out
}

// BlockAt returns the view of the block whose payload starts at p.
// p must be a block pointer obtained from this allocator or from Walk.
func (fa *SegAllocator) BlockAt(p Ptr) Block {
	return fa.block(p)
}
