package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		size  int
		class int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{16, 4},
		{24, 4},
		{31, 4},
		{32, 5},
		{96, 6},
		{4095, 11},
		{4096, 12},
		{8191, 12},
		{8192, 13},
		{16383, 13},
		{16384, 14},
		{1 << 30, 14},
		{format.MaxRegionSize, 14},
	}
	for _, tt := range tests {
		require.Equal(t, tt.class, SizeClass(tt.size), "size %d", tt.size)
	}
}

func TestSizeClass_Monotonic(t *testing.T) {
	prev := 0
	for size := format.MinBlockSize; size <= 1<<16; size += format.Alignment {
		c := SizeClass(size)
		require.GreaterOrEqual(t, c, prev, "size %d", size)
		require.Less(t, c, format.NumClasses)
		prev = c
	}
}
