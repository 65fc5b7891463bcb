//go:build unix

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/buf"
)

// AnonRegion reserves address space with an anonymous PROT_NONE mapping and
// commits pages read-write as the break moves past them.
//
// NOT thread-safe.
type AnonRegion struct {
	mapping   []byte
	brk       int
	committed int // page-aligned prefix of mapping that is read-write
	pageSize  int
}

// NewAnonRegion reserves limit bytes (rounded up to the page size).
func NewAnonRegion(limit int) (*AnonRegion, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadLimit, limit)
	}
	page := unix.Getpagesize()
	limit = alignUp(limit, page)

	m, err := unix.Mmap(-1, 0, limit, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mem: reserve %d bytes: %w", limit, err)
	}
	return &AnonRegion{mapping: m, pageSize: page}, nil
}

// Extend moves the break up by n bytes, committing whole pages as needed.
func (r *AnonRegion) Extend(n int) (int, error) {
	if r.mapping == nil {
		return 0, ErrClosed
	}
	end, ok := buf.GrowWithin(r.brk, n, len(r.mapping))
	if !ok {
		return 0, fmt.Errorf("%w: extend by %d at %d (limit %d)", ErrOutOfMemory, n, r.brk, len(r.mapping))
	}
	if end > r.committed {
		upto := min(alignUp(end, r.pageSize), len(r.mapping))
		if err := unix.Mprotect(r.mapping[r.committed:upto], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("%w: commit pages [%d,%d): %w", ErrOutOfMemory, r.committed, upto, err)
		}
		r.committed = upto
	}
	old := r.brk
	r.brk = end
	return old, nil
}

// Bytes returns the region up to the break.
func (r *AnonRegion) Bytes() []byte { return r.mapping[:r.brk:r.brk] }

// Len returns the current break.
func (r *AnonRegion) Len() int { return r.brk }

// Limit returns the reservation size.
func (r *AnonRegion) Limit() int { return len(r.mapping) }

// Close releases the mapping. Slices obtained from Bytes must not be used afterwards.
func (r *AnonRegion) Close() error {
	if r.mapping == nil {
		return nil
	}
	err := unix.Munmap(r.mapping)
	r.mapping = nil
	r.brk, r.committed = 0, 0
	return err
}

func alignUp(n, to int) int {
	return (n + to - 1) / to * to
}
