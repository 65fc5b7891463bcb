package format

// Boundary tags.
//
// Every block carries the same tag word in its header and footer:
//
//	Bits    Description
//	31..3   Block size in bytes (multiple of 8, includes header and footer)
//	2..1    Reserved, always zero
//	0       Allocated flag
const (
	// TagAllocated is the allocated bit of a tag word.
	TagAllocated = 0x1

	// TagSizeMask extracts the size from a tag word.
	TagSizeMask = ^uint32(AlignmentMask)
)

// Pack combines a block size and allocated flag into a tag word.
func Pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | TagAllocated
	}
	return size
}

// TagSize returns the block size stored in a tag word.
func TagSize(tag uint32) uint32 {
	return tag & TagSizeMask
}

// TagAlloc reports whether a tag word marks its block allocated.
func TagAlloc(tag uint32) bool {
	return tag&TagAllocated != 0
}

// EpilogueTag is the tag of the zero-size allocated marker ending the region.
const EpilogueTag = TagAllocated

// PrologueTag is the tag of the prologue block.
const PrologueTag = PrologueSize | TagAllocated

// AdjustedSize converts a requested payload size into a block size: header
// and footer overhead added, rounded to the alignment, at least MinBlockSize.
// The caller guarantees n > 0 and that the result fits in a uint32.
func AdjustedSize(n int) int {
	if n <= DoubleWordSize {
		return MinBlockSize
	}
	return Align8(n + DoubleWordSize)
}

// MaxRequest is the largest payload size whose adjusted block size still fits
// in a region of MaxRegionSize.
const MaxRequest = MaxRegionSize - InitialRegionSize - DoubleWordSize
