// Package format houses the low-level layout constants and word codecs for the
// heap image managed by heap/alloc. It has no knowledge of free lists or
// placement policy.
package format

import "math"

const (
	// WordSize is the size of a header, footer, or free-list link word.
	WordSize = 4

	// DoubleWordSize is the combined header + footer overhead of a block and
	// the payload alignment unit.
	DoubleWordSize = 8

	// Alignment is the guaranteed alignment of every payload offset.
	Alignment = 8

	// AlignmentMask is used for rounding sizes up to Alignment.
	AlignmentMask = Alignment - 1

	// MinBlockSize is the smallest legal block: header, footer, and room for
	// the predecessor/successor links while the block is free.
	MinBlockSize = 2 * DoubleWordSize

	// ChunkSize is the default amount the region is extended by when no free
	// block fits a request.
	ChunkSize = 1 << 12

	// NumClasses is the number of segregated size classes.
	NumClasses = 15

	// SplitThreshold separates small requests (placed at the low end of a
	// split free block) from large ones (placed at the high end).
	SplitThreshold = 96

	// MaxRegionSize is the largest region addressable with 32-bit offsets,
	// further capped to an aligned int on 32-bit platforms.
	MaxRegionSize = min(1<<32-Alignment, math.MaxInt&^AlignmentMask)
)

// Region layout. The class table sits at offset 0, followed by the prologue
// block and the initial epilogue header.
//
//	Offset  Size  Description
//	0x00    60    Size-class list heads (15 words)
//	0x3C    4     Prologue header (8 | allocated)
//	0x40    4     Prologue footer (8 | allocated)
//	0x44    4     Epilogue header (0 | allocated)
//	0x48    ...   First block payload
const (
	// ClassTableOffset is where the list heads start.
	ClassTableOffset = 0

	// ClassTableSize is the size of the list-head table in bytes.
	ClassTableSize = NumClasses * WordSize

	// PrologueHeaderOffset is the offset of the prologue header word.
	PrologueHeaderOffset = ClassTableOffset + ClassTableSize

	// PrologueOffset is the payload offset of the prologue block.
	PrologueOffset = PrologueHeaderOffset + WordSize

	// PrologueSize is the size of the prologue block (header + footer).
	PrologueSize = DoubleWordSize

	// FirstBlockOffset is the payload offset of the first real block.
	FirstBlockOffset = PrologueOffset + PrologueSize

	// InitialRegionSize is the size of an initialized region before the
	// first extension.
	InitialRegionSize = ClassTableSize + 3*WordSize
)
