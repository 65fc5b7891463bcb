// Package alloc provides a general-purpose heap allocator over a single
// growable region.
//
// # Overview
//
// SegAllocator implements malloc/free/realloc semantics with a segregated
// free-list index, boundary-tagged blocks, immediate coalescing, and a
// size-dependent split policy. Every byte of allocator state, including the
// free-list heads, lives inside the region, so a file-backed heap can be
// closed and reattached.
//
// # Allocator Interface
//
//   - Alloc(size): Allocate a block with at least size usable bytes
//   - Free(p): Release a block and merge it with free neighbours
//   - Realloc(p, size): Resize in place when possible, otherwise move
//
// # Usage Example
//
//	r := mem.NewSliceRegion(mem.DefaultLimit)
//	fa, err := alloc.New(r, nil, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, buf, err := fa.Alloc(24)
//	if err != nil {
//	    return err // wraps alloc.ErrOutOfMemory
//	}
//	copy(buf, "hello")
//
//	p, buf, err = fa.Realloc(p, 4096)
//	...
//	fa.Free(p)
//
// # Region Layout
//
//	[ class table (15 words) | prologue hdr | prologue ftr | blocks ... | epilogue hdr ]
//
// Each block has a header and a footer word holding (size | allocated). Free
// blocks store predecessor and successor offsets in their first two payload
// words. Block pointers (Ptr) are payload offsets and are always 8-byte
// aligned; the minimum block is 16 bytes.
//
// # Size Classes
//
// Class i holds blocks of size [2^i, 2^(i+1)), the last class (14) everything
// from 16KB up. Lists are sorted ascending, so the fit search returns the
// best fit of the first class that has one.
//
// # Placement
//
// Requests under 96 bytes are carved from the low end of a free block and
// larger ones from the high end. Remainders under 16 bytes are not split off.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/mem: Regions (slice, anonymous mmap, file)
//   - github.com/joshuapare/heapkit/heap/dirty: Dirty range tracking for file-backed heaps
package alloc
