package alloc

// insertFree threads bp into the list of its size class, keeping the list
// sorted ascending by size. Equal sizes go after the existing entries.
// The block's tags must already carry size.
func (fa *SegAllocator) insertFree(bp Ptr, size uint32) {
	class := sizeClass(size)

	var last Ptr
	cur := fa.head(class)
	for cur != Nil && fa.blockSize(cur) <= size {
		last = cur
		cur = fa.succ(cur)
	}

	// Four shapes: middle (last -> bp -> cur), head (table -> bp -> cur),
	// tail (last -> bp -> nil), empty list (table -> bp -> nil).
	fa.setPred(bp, last)
	fa.setSucc(bp, cur)
	if cur != Nil {
		fa.setPred(cur, bp)
	}
	if last != Nil {
		fa.setSucc(last, bp)
	} else {
		fa.setHead(class, bp)
	}
	fa.stats.ListInserts++
}

// removeFree unlinks bp from its size-class list in O(1). The class comes from
// the block's stored size, so call it before retagging the block.
func (fa *SegAllocator) removeFree(bp Ptr) {
	class := sizeClass(fa.blockSize(bp))
	pred, succ := fa.pred(bp), fa.succ(bp)

	if pred != Nil {
		fa.setSucc(pred, succ)
	} else {
		fa.setHead(class, succ)
	}
	if succ != Nil {
		fa.setPred(succ, pred)
	}
	fa.stats.ListRemoves++
}
