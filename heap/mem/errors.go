package mem

import "errors"

var (
	// ErrOutOfMemory indicates the region cannot grow by the requested amount.
	ErrOutOfMemory = errors.New("mem: out of memory")

	// ErrBadLimit indicates a non-positive or unusable reservation size.
	ErrBadLimit = errors.New("mem: bad region limit")

	// ErrUnsupported indicates the region kind is not available on this platform.
	ErrUnsupported = errors.New("mem: region kind not supported on this platform")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("mem: region closed")
)
