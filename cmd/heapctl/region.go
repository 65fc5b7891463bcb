package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Region kinds accepted by --region.
const (
	regionSlice = "slice"
	regionAnon  = "anon"
	regionFile  = "file"
)

// heapRegion bundles a region with the cleanup and persistence hooks its kind needs.
type heapRegion struct {
	mem.Region
	dt    *dirty.Tracker // non-nil for file regions
	close func() error
	flush func(ctx context.Context) error
}

// Tracker returns the dirty tracker to hand to the allocator. It returns an
// untyped nil for in-memory regions so the allocator skips tracking entirely.
func (r *heapRegion) Tracker() dirty.DirtyTracker {
	if r.dt == nil {
		return nil
	}
	return r.dt
}

// Persist flushes dirty pages of a file-backed region. A no-op otherwise.
func (r *heapRegion) Persist(ctx context.Context) error {
	if r.dt == nil {
		return nil
	}
	pending := r.dt.Pending()
	if err := r.dt.Flush(ctx, r.Bytes()); err != nil {
		return fmt.Errorf("failed to flush dirty pages: %w", err)
	}
	logger.Debug("flushed heap image", "ranges", pending, "size", r.Len())
	return r.flush(ctx)
}

// Close releases the region.
func (r *heapRegion) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// newRegion creates an empty region of the given kind. File regions start
// from an empty image at path; an existing file is replaced.
func newRegion(kind, path string, limit int) (*heapRegion, error) {
	switch kind {
	case regionSlice:
		return &heapRegion{Region: mem.NewSliceRegion(limit)}, nil

	case regionAnon:
		r, err := mem.NewAnonRegion(limit)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve anonymous region: %w", err)
		}
		return &heapRegion{Region: r, close: r.Close}, nil

	case regionFile:
		if path == "" {
			return nil, errors.New("--file is required with --region file")
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to replace heap image: %w", err)
		}
		return openFileRegion(path, limit)

	default:
		return nil, fmt.Errorf("unknown region kind %q (want %s, %s, or %s)", kind, regionSlice, regionAnon, regionFile)
	}
}

// openFileRegion maps an existing or new heap image.
func openFileRegion(path string, limit int) (*heapRegion, error) {
	r, err := mem.OpenFileRegion(path, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to open heap image: %w", err)
	}
	return &heapRegion{Region: r, dt: dirty.NewTracker(), close: r.Close, flush: r.Flush}, nil
}
