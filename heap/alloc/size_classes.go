package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Size classes.
//
// Class i holds free blocks whose size reaches 1 after exactly i halvings,
// i.e. sizes in [2^i, 2^(i+1)); the last class takes everything larger.
// With the 16-byte minimum block the low classes stay empty:
//
//	Class  4:    16 -    31 bytes
//	Class  5:    32 -    63 bytes
//	Class  6:    64 -   127 bytes
//	...
//	Class 13:  8192 - 16383 bytes
//	Class 14: 16384+       bytes
//
// The list heads live in the first NumClasses words of the region.

// sizeClass returns the class index for a block size. Insertion, removal, fit
// search, and Check all go through this one function.
func sizeClass(size uint32) int {
	class := 0
	for size > 1 && class < format.NumClasses-1 {
		size >>= 1
		class++
	}
	return class
}

// SizeClass returns the class a free block of the given size is filed under.
func SizeClass(size int) int {
	if size <= 0 {
		return 0
	}
	if size > format.MaxRegionSize {
		return format.NumClasses - 1
	}
	return sizeClass(uint32(size))
}

func classSlot(class int) uint32 {
	return uint32(format.ClassTableOffset + class*format.WordSize)
}

func (fa *SegAllocator) head(class int) Ptr {
	return Ptr(fa.get(classSlot(class)))
}

func (fa *SegAllocator) setHead(class int, bp Ptr) {
	fa.put(classSlot(class), uint32(bp))
}
