package alloc

import (
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// DirtyTracker is a type alias for the canonical interface defined in heap/dirty.
type DirtyTracker = dirty.DirtyTracker

// Ptr is the payload offset of a block within the managed region.
// Offset 0 is the class table, so no block ever lives there.
type Ptr uint32

// Nil is the null block pointer.
const Nil Ptr = 0

// Allocator defines the interface for heap allocation and deallocation.
//
// Implementations:
//   - SegAllocator: segregated-fit allocator with boundary tags
//   - CheckedAllocator: wrapper that tracks live allocations for tests and replay
type Allocator interface {
	// Alloc allocates a block with at least size usable bytes.
	// Returns the block pointer and a slice over its payload.
	// Alloc(0) returns (Nil, nil, nil).
	Alloc(size int) (Ptr, []byte, error)

	// Realloc resizes the block at p, moving it if needed.
	// Realloc(p, 0) frees p and returns Nil. Realloc(Nil, n) behaves as Alloc(n).
	Realloc(p Ptr, size int) (Ptr, []byte, error)

	// Free releases the block at p. Free(Nil) is a no-op.
	Free(p Ptr)
}

// Block is a read-only view of one block in the region.
//
// It is a tagged union discriminated by Allocated: Pred and Succ are only
// meaningful for free blocks, where they thread the block into its size-class
// list. For allocated blocks they are zero.
type Block struct {
	Ptr       Ptr  // payload offset
	Size      int  // total block size, header and footer included
	Allocated bool // allocation flag from the header tag
	Pred      Ptr  // previous entry in the size-class list (free blocks only)
	Succ      Ptr  // next entry in the size-class list (free blocks only)
}

// Usable returns the number of payload bytes of the block.
func (b Block) Usable() int { return b.Size - format.DoubleWordSize }

// End returns the payload offset of the structurally next block.
func (b Block) End() Ptr { return b.Ptr + Ptr(b.Size) }
