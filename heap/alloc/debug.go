package alloc

import (
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
)

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Dump writes the block map and the non-empty free lists to w.
func (fa *SegAllocator) Dump(w io.Writer) error {
	u := fa.Usage()
	if _, err := fmt.Fprintf(w, "heap: %d bytes, %d allocated blocks (%d bytes), %d free blocks (%d bytes)\n",
		u.HeapSize, u.AllocatedBlocks, u.AllocatedBytes, u.FreeBlocks, u.FreeBytes); err != nil {
		return err
	}

	var err error
	fa.Walk(func(b Block) bool {
		state := "alloc"
		if !b.Allocated {
			state = fmt.Sprintf("free  class=%d pred=%d succ=%d", SizeClass(b.Size), b.Pred, b.Succ)
		}
		_, err = fmt.Fprintf(w, "  %8d  %8d  %s\n", b.Ptr, b.Size, state)
		return err == nil
	})
	if err != nil {
		return err
	}

	for class := range format.NumClasses {
		list := fa.FreeList(class)
		if len(list) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "class %2d:", class); err != nil {
			return err
		}
		for _, b := range list {
			if _, err := fmt.Fprintf(w, " %d(%d)", b.Ptr, b.Size); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
