package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/format"
)

// SegAllocator is a segregated-fit allocator over a single growable region.
//
//   - 15 size classes, each an ascending-sorted doubly linked free list
//   - boundary tags on every block for O(1) coalescing in both directions
//   - all state, including the list heads, lives inside the region
//
// NOT thread-safe.
type SegAllocator struct {
	region mem.Region
	dt     DirtyTracker // Notified of every metadata word written (may be nil)

	// Cached region contents; refreshed after every extension.
	data []byte

	chunk uint32
	split uint32

	stats Stats
}

// New initializes a heap in an empty region.
//
// Parameters:
//   - r: The region to manage; must be empty (r.Len() == 0)
//   - dt: Dirty tracker for metadata writes (can be nil)
//   - cfg: Placement configuration (use nil for DefaultConfig)
//
// The class table is zeroed, the prologue and epilogue are installed, and the
// region is extended once by the chunk size. Returns an error wrapping
// ErrOutOfMemory if the region cannot provide that space.
func New(r mem.Region, dt DirtyTracker, cfg *Config) (*SegAllocator, error) {
	fa, err := newSeg(r, dt, cfg)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes already in use", ErrRegionNotEmpty, r.Len())
	}

	if _, err := r.Extend(format.InitialRegionSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	fa.data = r.Bytes()

	for class := range format.NumClasses {
		fa.setHead(class, Nil)
	}
	fa.put(format.PrologueHeaderOffset, format.PrologueTag)
	fa.put(format.PrologueOffset, format.PrologueTag)
	fa.put(format.PrologueOffset+format.WordSize, format.EpilogueTag)

	if _, err := fa.extendHeap(fa.chunk); err != nil {
		return nil, err
	}
	return fa, nil
}

// Attach reopens a heap image previously built by New, such as a file-backed
// region. The image must pass Check.
func Attach(r mem.Region, dt DirtyTracker, cfg *Config) (*SegAllocator, error) {
	fa, err := newSeg(r, dt, cfg)
	if err != nil {
		return nil, err
	}
	fa.data = r.Bytes()
	if err := fa.Check(); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return fa, nil
}

func newSeg(r mem.Region, dt DirtyTracker, cfg *Config) (*SegAllocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SegAllocator{
		region: r,
		dt:     dt,
		chunk:  uint32(cfg.ChunkSize),
		split:  uint32(cfg.SplitThreshold),
	}, nil
}

// Alloc allocates a block with at least size usable bytes.
//
// Alloc(0) returns (Nil, nil, nil) and changes nothing. The returned slice
// covers exactly the usable payload (len == cap), so appends never reach the
// footer. It stays valid until the block is freed or moved by Realloc.
func (fa *SegAllocator) Alloc(size int) (Ptr, []byte, error) {
	fa.stats.AllocCalls++
	if size == 0 {
		return Nil, nil, nil
	}

	asize, err := adjust(size)
	if err != nil {
		return Nil, nil, err
	}

	bp, err := fa.allocBlock(asize)
	if err != nil {
		return Nil, nil, err
	}
	return bp, fa.payload(bp), nil
}

// allocBlock finds or makes room for an adjusted size and places it.
func (fa *SegAllocator) allocBlock(asize uint32) (Ptr, error) {
	if bp := fa.findFit(asize); bp != Nil {
		fa.stats.AllocFastPath++
		return fa.place(bp, asize), nil
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] no fit for %d bytes, heap=%d\n", asize, len(fa.data))
	}

	bp, err := fa.extendHeap(max(asize, fa.chunk))
	if err != nil {
		return Nil, err
	}
	fa.stats.AllocSlowPath++
	return fa.place(bp, asize), nil
}

// Free releases the block at p and merges it with free neighbours.
//
// Freeing a pointer that is not a live allocation from this allocator is
// undefined behaviour and is not detected.
func (fa *SegAllocator) Free(p Ptr) {
	if p == Nil {
		return
	}
	fa.stats.FreeCalls++

	size := fa.blockSize(p)
	fa.setTags(p, size, false)
	fa.coalesce(p, size)
}

// Realloc resizes the block at p.
//
//   - size == 0 frees p and returns Nil
//   - p == Nil behaves as Alloc(size)
//   - a block that is already large enough is returned unchanged (no shrinking)
//   - a free or end-of-heap successor is absorbed in place, extending the
//     region first if needed
//   - otherwise the block moves: the usable prefix both blocks share is
//     copied and the old block is freed
//
// On error p is left untouched.
func (fa *SegAllocator) Realloc(p Ptr, size int) (Ptr, []byte, error) {
	if p == Nil {
		return fa.Alloc(size)
	}
	fa.stats.ReallocCalls++
	if size == 0 {
		fa.Free(p)
		return Nil, nil, nil
	}

	asize, err := adjust(size)
	if err != nil {
		return Nil, nil, err
	}

	old := fa.blockSize(p)
	if old >= asize {
		fa.stats.ReallocUnchanged++
		return p, fa.payload(p), nil
	}

	if ok, err := fa.growInPlace(p, old, asize); err != nil {
		return Nil, nil, err
	} else if ok {
		fa.stats.ReallocInPlace++
		return p, fa.payload(p), nil
	}

	np, err := fa.allocBlock(asize)
	if err != nil {
		return Nil, nil, err
	}
	n := min(old, fa.blockSize(np)) - format.DoubleWordSize
	copy(fa.data[np:uint32(np)+n], fa.data[p:uint32(p)+n])
	fa.Free(p)
	fa.stats.ReallocMoved++

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[REALLOC] moved %d -> %d (%d -> %d bytes)\n", p, np, old, asize)
	}
	return np, fa.payload(np), nil
}

// growInPlace absorbs the successor of p when it is free or the epilogue.
// The region is extended only when the successor is the last block, so the
// extension lands directly behind it. Reports false when p must move.
func (fa *SegAllocator) growInPlace(p Ptr, old, asize uint32) (bool, error) {
	next := fa.nextBlock(p)
	nsize := fa.blockSize(next)
	if fa.isAllocated(next) && nsize != 0 {
		return false, nil
	}

	if old+nsize < asize {
		last := nsize == 0 || fa.blockSize(fa.nextBlock(next)) == 0
		if !last {
			return false, nil
		}
		if _, err := fa.extendHeap(max(asize-old-nsize, fa.chunk)); err != nil {
			return false, err
		}
		// The extension is now a free block directly after p, merged with
		// next if next was free.
		next = fa.nextBlock(p)
	}

	fa.removeFree(next)
	fa.setTags(p, old+fa.blockSize(next), true)
	return true, nil
}

// extendHeap grows the region by n bytes (rounded up to the alignment),
// turns the new span into a free block behind the old last block, moves the
// epilogue to the new end, and coalesces.
//
// Region limits are checked before anything is written, so a failure leaves
// the heap untouched.
func (fa *SegAllocator) extendHeap(n uint32) (Ptr, error) {
	n = format.Align8U32(n)
	if uint64(len(fa.data))+uint64(n) > format.MaxRegionSize {
		return Nil, fmt.Errorf("%w: region would exceed %d bytes", ErrOutOfMemory, format.MaxRegionSize)
	}

	off, err := fa.region.Extend(int(n))
	if err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[EXTEND] failed: %d bytes: %v\n", n, err)
		}
		return Nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	fa.data = fa.region.Bytes()
	fa.stats.ExtendCalls++
	fa.stats.ExtendBytes += int64(n)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[EXTEND] +%d bytes at %d, heap=%d\n", n, off, len(fa.data))
	}

	// The old epilogue header becomes the new block's header.
	bp := Ptr(off)
	fa.setTags(bp, n, false)
	fa.put(hdrp(fa.nextBlock(bp)), format.EpilogueTag)

	return fa.coalesce(bp, n), nil
}

// adjust converts a request into a block size, rejecting sizes that cannot
// fit in any region before any state is touched.
func adjust(size int) (uint32, error) {
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if size > format.MaxRequest {
		return 0, fmt.Errorf("%w: request of %d bytes exceeds the addressable region", ErrOutOfMemory, size)
	}
	return uint32(format.AdjustedSize(size)), nil
}

func (fa *SegAllocator) payload(bp Ptr) []byte {
	end := uint32(bp) + fa.blockSize(bp) - format.DoubleWordSize
	return fa.data[bp:end:end]
}

// Bytes returns the payload of the live block at p.
func (fa *SegAllocator) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	return fa.payload(p)
}

// UsableSize returns the payload size of the live block at p.
func (fa *SegAllocator) UsableSize(p Ptr) int {
	if p == Nil {
		return 0
	}
	return int(fa.blockSize(p)) - format.DoubleWordSize
}

// HeapSize returns the current size of the managed region.
func (fa *SegAllocator) HeapSize() int { return len(fa.data) }

// Region returns the managed region.
func (fa *SegAllocator) Region() mem.Region { return fa.region }
