package alloc

import (
	"math/rand"
	"testing"

	"github.com/joshuapare/heapkit/heap/mem"
)

func benchAllocator(b *testing.B) *SegAllocator {
	b.Helper()
	fa, err := New(mem.NewSliceRegion(64<<20), nil, nil)
	if err != nil {
		b.Fatal(err)
	}
	return fa
}

func BenchmarkAllocFree_Small(b *testing.B) {
	fa := benchAllocator(b)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p, _, err := fa.Alloc(48)
		if err != nil {
			b.Fatal(err)
		}
		fa.Free(p)
	}
}

func BenchmarkAllocFree_Mixed(b *testing.B) {
	fa := benchAllocator(b)
	rng := rand.New(rand.NewSource(1))
	sizes := make([]int, 1024)
	for i := range sizes {
		sizes[i] = 1 + rng.Intn(2048)
	}
	ring := make([]Ptr, 256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		slot := i % len(ring)
		fa.Free(ring[slot])
		p, _, err := fa.Alloc(sizes[i%len(sizes)])
		if err != nil {
			b.Fatal(err)
		}
		ring[slot] = p
	}
}

func BenchmarkRealloc_Grow(b *testing.B) {
	fa := benchAllocator(b)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p, _, err := fa.Alloc(16)
		if err != nil {
			b.Fatal(err)
		}
		for n := 32; n <= 4096; n *= 2 {
			if p, _, err = fa.Realloc(p, n); err != nil {
				b.Fatal(err)
			}
		}
		fa.Free(p)
	}
}

func BenchmarkCheck(b *testing.B) {
	fa := benchAllocator(b)
	for i := range 1000 {
		if _, _, err := fa.Alloc(16 + i%500); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for range b.N {
		if err := fa.Check(); err != nil {
			b.Fatal(err)
		}
	}
}
