package trace

import "math/rand"

// GenOptions controls Generate.
type GenOptions struct {
	Seed int64

	// NumIDs is the number of distinct blocks; each is allocated once and
	// released before the trace ends.
	NumIDs int

	// MaxSize caps request sizes (default DefaultMaxSize). Sizes are skewed
	// towards small requests.
	MaxSize int

	// ReallocPercent is the share of operations on a live block that resize
	// it instead of releasing it. Clamped to [0, 90] so every trace ends.
	ReallocPercent int
}

// Generate builds a random, valid trace. The same options always produce the
// same trace.
func Generate(opts GenOptions) *Trace {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	opts.ReallocPercent = min(max(opts.ReallocPercent, 0), 90)

	rng := rand.New(rand.NewSource(opts.Seed))
	tr := &Trace{
		SuggestedHeap: DefaultSuggestedHeap,
		NumIDs:        opts.NumIDs,
		Weight:        1,
	}

	var live []int
	next := 0
	for next < opts.NumIDs || len(live) > 0 {
		if next < opts.NumIDs && (len(live) == 0 || rng.Intn(2) == 0) {
			tr.Ops = append(tr.Ops, Op{Kind: Alloc, ID: next, Size: genSize(rng, opts.MaxSize)})
			live = append(live, next)
			next++
			continue
		}

		i := rng.Intn(len(live))
		id := live[i]
		if rng.Intn(100) < opts.ReallocPercent {
			tr.Ops = append(tr.Ops, Op{Kind: Realloc, ID: id, Size: genSize(rng, opts.MaxSize)})
			continue
		}
		tr.Ops = append(tr.Ops, Op{Kind: Free, ID: id})
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}
	return tr
}

// genSize draws a size in [1, maxSize] whose magnitude is uniform in log scale.
func genSize(rng *rand.Rand, maxSize int) int {
	bits := 1
	for 1<<bits < maxSize {
		bits++
	}
	n := 1 + rng.Intn(1<<(1+rng.Intn(bits)))
	return min(n, maxSize)
}
