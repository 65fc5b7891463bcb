package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the region could not be extended to satisfy a request.
	// It wraps the region's own error when one is available.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("alloc: bad request size")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("alloc: bad config")

	// ErrRegionNotEmpty indicates New was given a region that already holds data.
	// Use Attach to reopen an existing heap image.
	ErrRegionNotEmpty = errors.New("alloc: region not empty")

	// ErrCorrupt indicates the heap image failed a consistency check.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)
