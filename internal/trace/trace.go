// Package trace reads, writes, generates, and replays allocation traces.
//
// A trace is a text file in the classic malloc-lab layout: four header
// numbers (suggested heap size, number of ids, number of ops, weight) followed
// by one operation per line:
//
//	a <id> <size>    allocate size bytes and name the block id
//	r <id> <size>    resize block id to size bytes
//	f <id>           release block id
//
// Blank lines and lines starting with '#' are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax indicates a malformed trace file.
var ErrSyntax = errors.New("trace: syntax error")

// ErrInvalid indicates a well-formed trace whose operations are inconsistent,
// such as freeing an id that is not allocated.
var ErrInvalid = errors.New("trace: invalid trace")

// Kind identifies an operation.
type Kind uint8

// Operation kinds.
const (
	Alloc Kind = iota
	Realloc
	Free
)

// String returns the trace token for the kind.
func (k Kind) String() string {
	switch k {
	case Alloc:
		return OpAllocToken
	case Realloc:
		return OpReallocToken
	case Free:
		return OpFreeToken
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Op is one trace operation. Size is unused for Free.
type Op struct {
	Kind Kind
	ID   int
	Size int
}

// Trace is a parsed trace file.
type Trace struct {
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// ParseFile reads and parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a trace and validates it.
func Parse(r io.Reader) (*Trace, error) {
	scanner := bufio.NewScanner(r)
	var header []int
	numOps := 0
	tr := &Trace{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(scanner.Text())
		if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
			continue
		}
		fields := strings.Fields(trim)

		if len(header) < HeaderFields {
			for _, f := range fields {
				n, err := strconv.Atoi(f)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("%w: line %d: bad header value %q", ErrSyntax, lineNo, f)
				}
				header = append(header, n)
			}
			if len(header) > HeaderFields {
				return nil, fmt.Errorf("%w: line %d: too many header values", ErrSyntax, lineNo)
			}
			if len(header) == HeaderFields {
				tr.SuggestedHeap, tr.NumIDs, numOps, tr.Weight = header[0], header[1], header[2], header[3]
				if numOps > MaxTraceOps {
					return nil, fmt.Errorf("%w: header declares %d ops, more than the %d supported", ErrInvalid, numOps, MaxTraceOps)
				}
				if err := tr.checkIDs(); err != nil {
					return nil, err
				}
				tr.Ops = make([]Op, 0, min(numOps, opsPrealloc))
			}
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, lineNo, err)
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(header) < HeaderFields {
		return nil, fmt.Errorf("%w: truncated header (%d of %d values)", ErrSyntax, len(header), HeaderFields)
	}
	if len(tr.Ops) != numOps {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrInvalid, numOps, len(tr.Ops))
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

func parseOp(fields []string) (Op, error) {
	var op Op
	switch fields[0] {
	case OpAllocToken:
		op.Kind = Alloc
	case OpReallocToken:
		op.Kind = Realloc
	case OpFreeToken:
		op.Kind = Free
	default:
		return op, fmt.Errorf("unknown op %q", fields[0])
	}

	want := 3
	if op.Kind == Free {
		want = 2
	}
	if len(fields) != want {
		return op, fmt.Errorf("op %q takes %d fields, got %d", fields[0], want-1, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 {
		return op, fmt.Errorf("bad id %q", fields[1])
	}
	op.ID = id
	if want == 3 {
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return op, fmt.Errorf("bad size %q", fields[2])
		}
		op.Size = size
	}
	return op, nil
}

// Validate checks that ids are in range, that only live ids are resized or
// released, and that no live id is allocated again.
func (tr *Trace) Validate() error {
	if err := tr.checkIDs(); err != nil {
		return err
	}
	live := make([]bool, tr.NumIDs)
	for i, op := range tr.Ops {
		if op.ID >= tr.NumIDs {
			return fmt.Errorf("%w: op %d: id %d out of range [0,%d)", ErrInvalid, i, op.ID, tr.NumIDs)
		}
		switch op.Kind {
		case Alloc:
			if live[op.ID] {
				return fmt.Errorf("%w: op %d: id %d allocated twice", ErrInvalid, i, op.ID)
			}
			live[op.ID] = true
		case Realloc:
			if !live[op.ID] {
				return fmt.Errorf("%w: op %d: realloc of unallocated id %d", ErrInvalid, i, op.ID)
			}
		case Free:
			if !live[op.ID] {
				return fmt.Errorf("%w: op %d: free of unallocated id %d", ErrInvalid, i, op.ID)
			}
			live[op.ID] = false
		}
	}
	return nil
}

func (tr *Trace) checkIDs() error {
	if tr.NumIDs < 0 || tr.NumIDs > MaxTraceIDs {
		return fmt.Errorf("%w: header declares %d ids, more than the %d supported", ErrInvalid, tr.NumIDs, MaxTraceIDs)
	}
	return nil
}

// WriteTo writes the trace in the text format Parse reads.
func (tr *Trace) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	write := func(format string, args ...any) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}

	if err := write("%d\n%d\n%d\n%d\n", tr.SuggestedHeap, tr.NumIDs, len(tr.Ops), tr.Weight); err != nil {
		return n, err
	}
	for _, op := range tr.Ops {
		var err error
		if op.Kind == Free {
			err = write("%s %d\n", op.Kind, op.ID)
		} else {
			err = write("%s %d %d\n", op.Kind, op.ID, op.Size)
		}
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Counts returns the number of operations of each kind.
func (tr *Trace) Counts() (allocs, reallocs, frees int) {
	for _, op := range tr.Ops {
		switch op.Kind {
		case Alloc:
			allocs++
		case Realloc:
			reallocs++
		case Free:
			frees++
		}
	}
	return allocs, reallocs, frees
}
