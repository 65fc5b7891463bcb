package alloc

import "fmt"

// CheckedAllocator wraps an Allocator and tracks every live allocation with
// its requested size. Freeing or resizing a pointer it does not know panics,
// turning the undefined behaviour of the raw allocator into a loud failure.
//
// Used by tests and by trace replay to find leaks and double frees.
type CheckedAllocator struct {
	mem  Allocator
	sz   int
	live map[Ptr]int
}

// NewCheckedAllocator wraps mem.
func NewCheckedAllocator(mem Allocator) *CheckedAllocator {
	return &CheckedAllocator{mem: mem, live: make(map[Ptr]int)}
}

// CurrentAlloc returns the sum of requested sizes of live allocations.
func (a *CheckedAllocator) CurrentAlloc() int { return a.sz }

// Live returns the number of live allocations.
func (a *CheckedAllocator) Live() int { return len(a.live) }

// Alloc forwards to the wrapped allocator and records the result.
func (a *CheckedAllocator) Alloc(size int) (Ptr, []byte, error) {
	p, b, err := a.mem.Alloc(size)
	if err != nil || p == Nil {
		return p, b, err
	}
	if _, dup := a.live[p]; dup {
		panic(fmt.Sprintf("alloc: pointer %d handed out twice", p))
	}
	a.live[p] = size
	a.sz += size
	return p, b, nil
}

// Realloc forwards to the wrapped allocator and moves the record.
func (a *CheckedAllocator) Realloc(p Ptr, size int) (Ptr, []byte, error) {
	old, ok := a.live[p]
	if p != Nil && !ok {
		panic(fmt.Sprintf("alloc: realloc of untracked pointer %d", p))
	}
	np, b, err := a.mem.Realloc(p, size)
	if err != nil {
		return np, b, err
	}
	if p != Nil {
		delete(a.live, p)
		a.sz -= old
	}
	if np != Nil {
		a.live[np] = size
		a.sz += size
	}
	return np, b, nil
}

// Free forwards to the wrapped allocator after dropping the record.
func (a *CheckedAllocator) Free(p Ptr) {
	if p == Nil {
		a.mem.Free(p)
		return
	}
	size, ok := a.live[p]
	if !ok {
		panic(fmt.Sprintf("alloc: free of untracked pointer %d", p))
	}
	delete(a.live, p)
	a.sz -= size
	a.mem.Free(p)
}

// TestingT is the subset of testing.TB used by AssertSize.
type TestingT interface {
	Errorf(format string, args ...any)
	Helper()
}

// AssertSize reports an error through t if the live total is not sz.
func (a *CheckedAllocator) AssertSize(t TestingT, sz int) {
	t.Helper()
	if a.sz != sz {
		t.Errorf("invalid memory size exp=%d, got=%d (%d live allocations)", sz, a.sz, len(a.live))
	}
}
