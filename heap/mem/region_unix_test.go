//go:build unix

package mem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnonRegion_CommitsOnDemand(t *testing.T) {
	r, err := NewAnonRegion(1 << 20)
	require.NoError(t, err)
	defer r.Close()

	off, err := r.Extend(72)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	// Cross several page boundaries and touch the last byte.
	off, err = r.Extend(3 * 4096)
	require.NoError(t, err)
	require.Equal(t, 72, off)
	data := r.Bytes()
	data[len(data)-1] = 0x5A
	require.Equal(t, byte(0x5A), r.Bytes()[r.Len()-1])
}

func TestAnonRegion_Limit(t *testing.T) {
	r, err := NewAnonRegion(8192)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Extend(r.Limit())
	require.NoError(t, err)
	_, err = r.Extend(8)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, r.Limit(), r.Len())
}

func TestAnonRegion_BadLimit(t *testing.T) {
	_, err := NewAnonRegion(0)
	require.ErrorIs(t, err, ErrBadLimit)
}

func TestAnonRegion_ExtendAfterClose(t *testing.T) {
	r, err := NewAnonRegion(4096)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = r.Extend(8)
	require.ErrorIs(t, err, ErrClosed)
}

func TestFileRegion_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.img")

	r, err := OpenFileRegion(path, 1<<20)
	require.NoError(t, err)
	require.Equal(t, 0, r.Len())

	_, err = r.Extend(4096 + 72)
	require.NoError(t, err)
	copy(r.Bytes()[100:], "persisted")
	require.NoError(t, r.Flush(context.Background()))
	require.NoError(t, r.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(4096+72), st.Size())

	r2, err := OpenFileRegion(path, 1<<20)
	require.NoError(t, err)
	defer r2.Close()
	require.Equal(t, 4096+72, r2.Len())
	require.Equal(t, "persisted", string(r2.Bytes()[100:109]))

	off, err := r2.Extend(8)
	require.NoError(t, err)
	require.Equal(t, 4096+72, off)
}

func TestFileRegion_FileLargerThanLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 3*4096), 0o600))

	_, err := OpenFileRegion(path, 4096)
	require.ErrorIs(t, err, ErrBadLimit)
}

func TestFileRegion_FlushHonorsContext(t *testing.T) {
	r, err := OpenFileRegion(filepath.Join(t.TempDir(), "ctx.img"), 4096)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.Flush(ctx), context.Canceled)
}
