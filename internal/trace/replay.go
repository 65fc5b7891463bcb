package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// ErrMismatch indicates the allocator under test broke one of its guarantees
// during replay.
var ErrMismatch = errors.New("trace: allocator misbehaved")

// Heap is the allocator surface replay drives.
type Heap interface {
	alloc.Allocator
	Bytes(p alloc.Ptr) []byte
	HeapSize() int
	Check() error
}

// Options controls Replay.
type Options struct {
	// CheckEvery runs the heap's consistency check after every n operations
	// and once at the end. Zero disables checking.
	CheckEvery int

	// Track routes all calls through an alloc.CheckedAllocator, so untracked
	// pointers panic and the live byte count is cross-checked at the end.
	Track bool
}

// Result summarizes one replay.
type Result struct {
	Ops      int
	Allocs   int
	Reallocs int
	Frees    int

	PeakLive  int // Highest sum of requested sizes live at once
	PeakHeap  int // Largest region size seen
	FinalHeap int
	FinalLive int

	Duration time.Duration
}

// Utilization is the peak live payload over the final heap size, the
// malloc-lab space metric.
func (r Result) Utilization() float64 {
	if r.FinalHeap == 0 {
		return 0
	}
	return float64(r.PeakLive) / float64(r.FinalHeap)
}

// Throughput returns operations per second.
func (r Result) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Duration.Seconds()
}

// OpError reports the operation at which replay failed.
type OpError struct {
	Index int
	Op    Op
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s %d %d): %v", e.Index, e.Op.Kind, e.Op.ID, e.Op.Size, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

type liveRange struct {
	p    alloc.Ptr
	size int
}

type replayer struct {
	h     Heap
	mem   alloc.Allocator
	track *alloc.CheckedAllocator
	live  []liveRange // indexed by id; p == Nil when not live
	res   Result
	cur   int // sum of live requested sizes
}

// Replay runs tr against h, validating every returned block:
//
//   - payload offsets are aligned and lie inside the region
//   - no live payload overlaps another
//   - contents written for an id survive until it is resized or released,
//     and the shared prefix survives a resize
//
// Traces built in memory are validated first. The first violation or allocator
// error stops the replay and is returned as an *OpError.
func Replay(ctx context.Context, h Heap, tr *Trace, opts Options) (Result, error) {
	if err := tr.Validate(); err != nil {
		return Result{}, err
	}
	rp := &replayer{
		h:    h,
		mem:  h,
		live: make([]liveRange, tr.NumIDs),
	}
	if opts.Track {
		rp.track = alloc.NewCheckedAllocator(h)
		rp.mem = rp.track
	}

	start := time.Now()
	for i, op := range tr.Ops {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return rp.finish(start), err
			}
		}
		if err := rp.apply(op); err != nil {
			return rp.finish(start), &OpError{Index: i, Op: op, Err: err}
		}
		if opts.CheckEvery > 0 && (i+1)%opts.CheckEvery == 0 {
			if err := rp.verify(); err != nil {
				return rp.finish(start), &OpError{Index: i, Op: op, Err: err}
			}
		}
	}
	res := rp.finish(start)

	if opts.CheckEvery > 0 {
		if err := rp.verify(); err != nil {
			return res, err
		}
	}
	if rp.track != nil && rp.track.CurrentAlloc() != rp.cur {
		return res, fmt.Errorf("%w: tracker holds %d bytes, replay expects %d", ErrMismatch, rp.track.CurrentAlloc(), rp.cur)
	}
	return res, nil
}

func (rp *replayer) finish(start time.Time) Result {
	rp.res.Duration = time.Since(start)
	rp.res.FinalHeap = rp.h.HeapSize()
	rp.res.PeakHeap = max(rp.res.PeakHeap, rp.res.FinalHeap)
	rp.res.FinalLive = rp.cur
	return rp.res
}

func (rp *replayer) apply(op Op) error {
	rp.res.Ops++
	switch op.Kind {
	case Alloc:
		rp.res.Allocs++
		p, buf, err := rp.mem.Alloc(op.Size)
		if err != nil {
			return err
		}
		if err := rp.accept(op.ID, p, buf, op.Size); err != nil {
			return err
		}
		fill(buf[:op.Size], op.ID)

	case Realloc:
		rp.res.Reallocs++
		old := rp.live[op.ID]
		rp.drop(op.ID)
		p, buf, err := rp.mem.Realloc(old.p, op.Size)
		if err != nil {
			return err
		}
		if err := rp.accept(op.ID, p, buf, op.Size); err != nil {
			return err
		}
		if err := verifyFill(buf, op.ID, min(old.size, op.Size)); err != nil {
			return err
		}
		fill(buf[:op.Size], op.ID)

	case Free:
		rp.res.Frees++
		p := rp.live[op.ID].p
		rp.drop(op.ID)
		rp.mem.Free(p)
	}

	rp.res.PeakLive = max(rp.res.PeakLive, rp.cur)
	rp.res.PeakHeap = max(rp.res.PeakHeap, rp.h.HeapSize())
	return nil
}

// accept validates a freshly returned block and records it under id.
func (rp *replayer) accept(id int, p alloc.Ptr, buf []byte, size int) error {
	if size == 0 {
		if p != alloc.Nil {
			return fmt.Errorf("%w: zero-size request returned %d", ErrMismatch, p)
		}
		return nil
	}
	if !format.IsAligned(int(p)) {
		return fmt.Errorf("%w: payload %d is not %d-byte aligned", ErrMismatch, p, format.Alignment)
	}
	if len(buf) < size {
		return fmt.Errorf("%w: payload of %d bytes for a %d-byte request", ErrMismatch, len(buf), size)
	}
	lo, hi := int(p), int(p)+size
	if lo < format.FirstBlockOffset || hi > rp.h.HeapSize() {
		return fmt.Errorf("%w: payload [%d,%d) outside heap [%d,%d)", ErrMismatch, lo, hi, format.FirstBlockOffset, rp.h.HeapSize())
	}
	for other, lr := range rp.live {
		if lr.p == alloc.Nil {
			continue
		}
		olo, ohi := int(lr.p), int(lr.p)+lr.size
		if lo < ohi && olo < hi {
			return fmt.Errorf("%w: payload [%d,%d) overlaps id %d at [%d,%d)", ErrMismatch, lo, hi, other, olo, ohi)
		}
	}

	rp.live[id] = liveRange{p: p, size: size}
	rp.cur += size
	return nil
}

func (rp *replayer) drop(id int) {
	rp.cur -= rp.live[id].size
	rp.live[id] = liveRange{}
}

// verify runs the heap check and re-reads every live payload.
func (rp *replayer) verify() error {
	if err := rp.h.Check(); err != nil {
		return err
	}
	for id, lr := range rp.live {
		if lr.p == alloc.Nil {
			continue
		}
		if err := verifyFill(rp.h.Bytes(lr.p), id, lr.size); err != nil {
			return err
		}
	}
	return nil
}

func patternByte(id, i int) byte {
	return byte(id*131 + i)
}

func fill(b []byte, id int) {
	for i := range b {
		b[i] = patternByte(id, i)
	}
}

func verifyFill(b []byte, id, n int) error {
	for i := range n {
		if b[i] != patternByte(id, i) {
			return fmt.Errorf("%w: id %d payload byte %d changed", ErrMismatch, id, i)
		}
	}
	return nil
}
