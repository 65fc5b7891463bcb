package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
//
// The allocator reports every metadata word it writes (tags, list links, the
// class table) so a file-backed heap can flush only the pages it touched.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the region, length is the number of bytes.
	Add(off, length int)
}
