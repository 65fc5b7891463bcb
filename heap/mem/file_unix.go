//go:build unix

package mem

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/buf"
)

// FileRegion is a region persisted in a file. The whole reservation is mapped
// MAP_SHARED once; growth only extends the file with ftruncate, so the mapping
// never moves. Bytes past the end of the file must never be touched.
//
// NOT thread-safe.
type FileRegion struct {
	f       *os.File
	mapping []byte
	brk     int
}

// OpenFileRegion opens (creating if needed) the heap image at path and maps
// limit bytes of address space for it. The current file size becomes the
// initial break, so an existing image can be reattached.
func OpenFileRegion(path string, limit int) (*FileRegion, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadLimit, limit)
	}
	limit = alignUp(limit, unix.Getpagesize())

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() > int64(limit) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file %s is %d bytes, limit %d", ErrBadLimit, path, st.Size(), limit)
	}

	m, err := unix.Mmap(int(f.Fd()), 0, limit, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return &FileRegion{f: f, mapping: m, brk: int(st.Size())}, nil
}

// Extend grows the backing file by n bytes. New bytes read as zero.
func (r *FileRegion) Extend(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	end, ok := buf.GrowWithin(r.brk, n, len(r.mapping))
	if !ok {
		return 0, fmt.Errorf("%w: extend by %d at %d (limit %d)", ErrOutOfMemory, n, r.brk, len(r.mapping))
	}
	if err := r.f.Truncate(int64(end)); err != nil {
		return 0, fmt.Errorf("%w: truncate to %d: %w", ErrOutOfMemory, end, err)
	}
	old := r.brk
	r.brk = end
	return old, nil
}

// Bytes returns the mapped file contents.
func (r *FileRegion) Bytes() []byte { return r.mapping[:r.brk:r.brk] }

// Len returns the current file size.
func (r *FileRegion) Len() int { return r.brk }

// Limit returns the reservation size.
func (r *FileRegion) Limit() int { return len(r.mapping) }

// Flush writes every mapped page back to the file and syncs it.
func (r *FileRegion) Flush(ctx context.Context) error {
	if r.f == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.brk > 0 {
		if err := unix.Msync(r.mapping[:r.brk], unix.MS_SYNC); err != nil {
			return fmt.Errorf("mem: msync: %w", err)
		}
	}
	return r.Sync()
}

// Sync flushes the file descriptor (metadata and size) without msync.
func (r *FileRegion) Sync() error {
	if r.f == nil {
		return ErrClosed
	}
	return r.f.Sync()
}

// Close unmaps and closes the file. Dirty pages are written back by the
// kernel; call Flush first for durability.
func (r *FileRegion) Close() error {
	var err error
	if r.mapping != nil {
		err = unix.Munmap(r.mapping)
		r.mapping = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	r.brk = 0
	return err
}
