package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Config tunes the placement policy.
type Config struct {
	// ChunkSize is the minimum amount the region is extended by when no free
	// block fits. Must be a positive multiple of 8, at least MinBlockSize.
	ChunkSize int

	// SplitThreshold separates small requests, carved from the low end of a
	// free block, from large ones, carved from the high end.
	SplitThreshold int
}

// DefaultConfig extends by 4KB and splits at 96 bytes.
var DefaultConfig = Config{
	ChunkSize:      format.ChunkSize,
	SplitThreshold: format.SplitThreshold,
}

func (c Config) validate() error {
	if c.ChunkSize < format.MinBlockSize || !format.IsAligned(c.ChunkSize) {
		return fmt.Errorf("%w: chunk size %d must be a multiple of %d and >= %d",
			ErrBadConfig, c.ChunkSize, format.Alignment, format.MinBlockSize)
	}
	if c.ChunkSize > format.MaxRegionSize-format.InitialRegionSize {
		return fmt.Errorf("%w: chunk size %d exceeds the addressable region", ErrBadConfig, c.ChunkSize)
	}
	if c.SplitThreshold < 0 {
		return fmt.Errorf("%w: negative split threshold %d", ErrBadConfig, c.SplitThreshold)
	}
	return nil
}
