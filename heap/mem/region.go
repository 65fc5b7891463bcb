// Package mem provides the growable regions heap/alloc manages.
//
// A Region behaves like a process break: it starts empty, grows only at its
// end, and every extension is contiguous with the previous end. All
// implementations reserve their address range up front, so byte slices taken
// from Bytes() stay valid across later extensions.
//
// Implementations:
//
//   - SliceRegion: a fixed Go byte slice with a moving break (portable)
//   - AnonRegion: an anonymous PROT_NONE reservation committed page by page (unix)
//   - FileRegion: a shared mapping of a file grown with ftruncate (unix)
package mem

// DefaultLimit is the default reservation for a region (20 MiB).
const DefaultLimit = 20 << 20

// Region is the extension primitive consumed by the allocator.
type Region interface {
	// Extend grows the region by n bytes and returns the offset of the first
	// new byte, which always equals the previous Len(). On failure the region
	// is unchanged and the error wraps ErrOutOfMemory.
	Extend(n int) (int, error)

	// Bytes returns the current contents, [0, Len()).
	Bytes() []byte

	// Len returns the current size of the region in bytes.
	Len() int
}
