package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Setup
// ============================================================================

// Fresh-heap layout with the default config: one free block of ChunkSize
// bytes at the first payload offset, epilogue right behind it.
const (
	firstBP       = Ptr(format.FirstBlockOffset)
	freshHeapSize = format.InitialRegionSize + format.ChunkSize
)

// newTestAllocator builds an allocator over a fresh slice region.
func newTestAllocator(t testing.TB, limit int) (*SegAllocator, *mem.SliceRegion) {
	t.Helper()
	r := mem.NewSliceRegion(limit)
	fa, err := New(r, nil, nil)
	require.NoError(t, err)
	requireConsistent(t, fa)
	return fa, r
}

// ============================================================================
// Invariant Checks
// ============================================================================

// requireConsistent fails the test if the heap image is inconsistent.
func requireConsistent(t testing.TB, fa *SegAllocator) {
	t.Helper()
	require.NoError(t, fa.Check())
}

// requireNoAdjacentFree re-checks the coalescing invariant directly from the walk.
func requireNoAdjacentFree(t testing.TB, fa *SegAllocator) {
	t.Helper()
	prevFree := false
	fa.Walk(func(b Block) bool {
		require.False(t, prevFree && !b.Allocated, "adjacent free blocks at %d", b.Ptr)
		prevFree = !b.Allocated
		return true
	})
}

// allocN allocates size bytes and checks the basic guarantees.
func allocN(t testing.TB, fa *SegAllocator, size int) Ptr {
	t.Helper()
	p, buf, err := fa.Alloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	require.Zero(t, int(p)%format.Alignment, "payload %d not aligned", p)
	require.GreaterOrEqual(t, len(buf), size)
	require.Equal(t, len(buf), cap(buf))
	return p
}

// freeSnapshot captures every free list for before/after comparisons.
func freeSnapshot(fa *SegAllocator) [][]Block {
	out := make([][]Block, format.NumClasses)
	for class := range format.NumClasses {
		out[class] = fa.FreeList(class)
	}
	return out
}

// ============================================================================
// Payload Patterns
// ============================================================================

func fillPattern(b []byte, seed byte) {
	for i := range b {
		b[i] = seed + byte(i*7)
	}
}

func requirePattern(t testing.TB, b []byte, seed byte, n int) {
	t.Helper()
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		require.Equal(t, seed+byte(i*7), b[i], "payload byte %d", i)
	}
}
