package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// bestFitHeap leaves two free blocks in class 5, sizes 48 (at 72) and 40 (at 136),
// separated by small allocated guards.
func bestFitHeap(t *testing.T) *SegAllocator {
	t.Helper()
	fa, _ := newTestAllocator(t, 1<<20)

	a := allocN(t, fa, 40)
	allocN(t, fa, 8)
	b := allocN(t, fa, 32)
	allocN(t, fa, 8)
	require.Equal(t, firstBP, a)
	require.Equal(t, Ptr(136), b)

	fa.Free(a)
	fa.Free(b)
	requireConsistent(t, fa)
	return fa
}

func TestFreeList_SortedAscending(t *testing.T) {
	fa := bestFitHeap(t)

	list := fa.FreeList(5)
	require.Len(t, list, 2)
	require.Equal(t, Ptr(136), list[0].Ptr)
	require.Equal(t, 40, list[0].Size)
	require.Equal(t, firstBP, list[1].Ptr)
	require.Equal(t, 48, list[1].Size)

	// Links mirror each other.
	require.Equal(t, Nil, list[0].Pred)
	require.Equal(t, list[1].Ptr, list[0].Succ)
	require.Equal(t, list[0].Ptr, list[1].Pred)
	require.Equal(t, Nil, list[1].Succ)
}

func TestFreeList_BestFitWithinClass(t *testing.T) {
	fa := bestFitHeap(t)

	// 40-byte block: the later-freed but smaller block wins.
	p := allocN(t, fa, 32)
	require.Equal(t, Ptr(136), p)
	require.Equal(t, 40, fa.BlockAt(p).Size)

	list := fa.FreeList(5)
	require.Len(t, list, 1)
	require.Equal(t, firstBP, list[0].Ptr)
	requireConsistent(t, fa)
}

func TestFreeList_TiesKeepInsertionOrder(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)

	a := allocN(t, fa, 24)
	allocN(t, fa, 8)
	b := allocN(t, fa, 24)
	allocN(t, fa, 8)

	fa.Free(a)
	fa.Free(b)

	list := fa.FreeList(5)
	require.Len(t, list, 2)
	require.Equal(t, a, list[0].Ptr)
	require.Equal(t, b, list[1].Ptr)

	// Freed in the other order, the later one still goes last.
	p := allocN(t, fa, 24)
	require.Equal(t, a, p)
	fa.Free(p)
	list = fa.FreeList(5)
	require.Equal(t, []Ptr{b, a}, []Ptr{list[0].Ptr, list[1].Ptr})
	requireConsistent(t, fa)
}

func TestFreeList_SearchesHigherClasses(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)

	// Only the 4064-byte remainder (class 11) is free; a 24-byte request
	// starts at class 4 and walks up to it.
	allocN(t, fa, 24)
	for class := 0; class < 11; class++ {
		require.Empty(t, fa.FreeList(class), "class %d", class)
	}
	p := allocN(t, fa, 24)
	require.Equal(t, firstBP+32, p)
	require.Equal(t, 1, fa.Stats().ExtendCalls)
}

func TestFreeList_OutOfRangeClass(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)
	require.Nil(t, fa.FreeList(-1))
	require.Nil(t, fa.FreeList(15))
}

func TestFreeList_StatsBalance(t *testing.T) {
	fa, _ := newTestAllocator(t, 1<<20)
	var ptrs []Ptr
	for i := range 20 {
		ptrs = append(ptrs, allocN(t, fa, 8+i*24))
	}
	for _, p := range ptrs {
		fa.Free(p)
	}

	st := fa.Stats()
	free := fa.Usage().FreeBlocks
	require.Equal(t, free, st.ListInserts-st.ListRemoves)
}
