package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRealloc_NilAllocates(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)

	p, buf, err := fa.Realloc(Nil, 24)
	require.NoError(t, err)
	require.Equal(t, firstBP, p)
	require.Len(t, buf, 24)
	require.Zero(t, fa.Stats().ReallocCalls)

	p, buf, err = fa.Realloc(Nil, 0)
	require.NoError(t, err)
	require.Equal(t, Nil, p)
	require.Nil(t, buf)
}

func TestRealloc_ZeroFrees(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)
	p := allocN(t, fa, 100)

	np, buf, err := fa.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, Nil, np)
	require.Nil(t, buf)
	require.Equal(t, 1, fa.Stats().FreeCalls)
	require.Zero(t, fa.Usage().AllocatedBlocks)
	requireConsistent(t, fa)
}

func TestRealloc_NegativeSize(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)
	p := allocN(t, fa, 24)

	_, _, err := fa.Realloc(p, -5)
	require.ErrorIs(t, err, ErrBadSize)
	require.True(t, fa.BlockAt(p).Allocated)
}

func TestRealloc_NeverShrinks(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)

	p, buf, err := fa.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, Ptr(4056), p)
	fillPattern(buf, 3)
	before := freeSnapshot(fa)

	np, nbuf, err := fa.Realloc(p, 50)
	require.NoError(t, err)
	require.Equal(t, p, np)
	require.Equal(t, 112, fa.BlockAt(np).Size)
	require.Len(t, nbuf, 104)
	requirePattern(t, nbuf, 3, 104)
	require.Equal(t, before, freeSnapshot(fa))
	require.Equal(t, 1, fa.Stats().ReallocUnchanged)
}

func TestRealloc_GrowWithinSlack(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)

	// 20 bytes round up to a 32-byte block with 24 usable.
	p := allocN(t, fa, 20)
	np, _, err := fa.Realloc(p, 24)
	require.NoError(t, err)
	require.Equal(t, p, np)
	require.Equal(t, 1, fa.Stats().ReallocUnchanged)
}

func TestRealloc_AbsorbsFreeNext(t *testing.T) {
	fa, r := newTestAllocator(t, 1<<20)

	p, buf, err := fa.Alloc(24)
	require.NoError(t, err)
	fillPattern(buf, 9)

	np, nbuf, err := fa.Realloc(p, 200)
	require.NoError(t, err)
	require.Equal(t, p, np)
	require.Equal(t, 4096, fa.BlockAt(np).Size)
	require.Equal(t, 4088, fa.UsableSize(np))
	require.Len(t, nbuf, 4088)
	requirePattern(t, nbuf, 9, 24)
	require.Equal(t, freshHeapSize, r.Len())
	require.Equal(t, 1, fa.Stats().ReallocInPlace)
	requireConsistent(t, fa)
}

func TestRealloc_ExtendsPastEpilogue(t *testing.T) {
	fa, r := newTestAllocator(t, 1<<20)

	// 4008-byte block carved high: 88 free bytes below it, epilogue above.
	p, buf, err := fa.Alloc(4000)
	require.NoError(t, err)
	require.Equal(t, Ptr(160), p)
	fillPattern(buf, 1)

	np, nbuf, err := fa.Realloc(p, 8000)
	require.NoError(t, err)
	require.Equal(t, p, np)
	require.Equal(t, 8104, fa.BlockAt(np).Size)
	require.Equal(t, freshHeapSize+4096, r.Len())
	requirePattern(t, nbuf, 1, 4000)
	require.Equal(t, 88, fa.BlockAt(firstBP).Size)
	require.Equal(t, 1, fa.Stats().ReallocInPlace)
	requireConsistent(t, fa)
}

func TestRealloc_ExtendsThroughTrailingFree(t *testing.T) {
	fa, r := newTestAllocator(t, 1<<20)

	p := allocN(t, fa, 24)
	np, _, err := fa.Realloc(p, 5000)
	require.NoError(t, err)
	require.Equal(t, p, np)
	require.Equal(t, 8192, fa.BlockAt(np).Size)
	require.Equal(t, freshHeapSize+4096, r.Len())
	require.Zero(t, fa.Usage().FreeBlocks)
	requireConsistent(t, fa)
}

func TestRealloc_MovesWhenNextAllocated(t *testing.T) {
	fa, r := newTestAllocator(t, 1<<20)

	p, buf, err := fa.Alloc(24)
	require.NoError(t, err)
	q := allocN(t, fa, 24)
	fillPattern(buf, 42)

	np, nbuf, err := fa.Realloc(p, 100)
	require.NoError(t, err)
	require.Equal(t, Ptr(4056), np)
	require.Len(t, nbuf, 104)
	requirePattern(t, nbuf, 42, 24)
	for i := 24; i < 32; i++ {
		require.Zero(t, nbuf[i], "byte %d copied from past the old payload", i)
	}

	require.False(t, fa.BlockAt(p).Allocated)
	require.True(t, fa.BlockAt(q).Allocated)
	require.Equal(t, 3920, fa.BlockAt(q+32).Size)
	require.Equal(t, freshHeapSize, r.Len())
	require.Equal(t, 1, fa.Stats().ReallocMoved)
	requireConsistent(t, fa)
}

func TestRealloc_MovesWhenFreeNextIsNotLast(t *testing.T) {
	fa, r := newTestAllocator(t, 1<<20)

	p := allocN(t, fa, 24)
	x := allocN(t, fa, 24)
	allocN(t, fa, 24)
	fa.Free(x)

	// 32 + 32 bytes cannot hold 208, and the region end is not adjacent.
	np, _, err := fa.Realloc(p, 200)
	require.NoError(t, err)
	require.Equal(t, Ptr(3960), np)

	merged := fa.BlockAt(p)
	require.False(t, merged.Allocated)
	require.Equal(t, 64, merged.Size)
	require.Equal(t, freshHeapSize, r.Len())
	requireConsistent(t, fa)
}

func TestRealloc_OutOfMemoryKeepsBlock(t *testing.T) {
	fa, r := newTestAllocator(t, freshHeapSize)

	p, buf, err := fa.Alloc(24)
	require.NoError(t, err)
	allocN(t, fa, 24)
	fillPattern(buf, 77)
	before := freeSnapshot(fa)

	np, nbuf, err := fa.Realloc(p, 5000)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, Nil, np)
	require.Nil(t, nbuf)

	require.True(t, fa.BlockAt(p).Allocated)
	requirePattern(t, fa.Bytes(p), 77, 24)
	require.Equal(t, before, freeSnapshot(fa))
	require.Equal(t, freshHeapSize, r.Len())
	requireConsistent(t, fa)
}

func TestRealloc_OutOfMemoryWhileExtendingInPlace(t *testing.T) {
	fa, r := newTestAllocator(t, freshHeapSize)

	p, buf, err := fa.Alloc(24)
	require.NoError(t, err)
	fillPattern(buf, 5)

	_, _, err = fa.Realloc(p, 5000)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, 32, fa.BlockAt(p).Size)
	requirePattern(t, fa.Bytes(p), 5, 24)
	require.Equal(t, freshHeapSize, r.Len())
	requireConsistent(t, fa)
}
