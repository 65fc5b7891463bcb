//go:build !unix

package mem

import "context"

// AnonRegion is only available on unix platforms.
type AnonRegion struct{ SliceRegion }

// NewAnonRegion returns ErrUnsupported on this platform.
func NewAnonRegion(int) (*AnonRegion, error) { return nil, ErrUnsupported }

// Close is a no-op.
func (r *AnonRegion) Close() error { return nil }

// FileRegion is only available on unix platforms.
type FileRegion struct{ SliceRegion }

// OpenFileRegion returns ErrUnsupported on this platform.
func OpenFileRegion(string, int) (*FileRegion, error) { return nil, ErrUnsupported }

// Flush is a no-op.
func (r *FileRegion) Flush(context.Context) error { return nil }

// Sync is a no-op.
func (r *FileRegion) Sync() error { return nil }

// Close is a no-op.
func (r *FileRegion) Close() error { return nil }
