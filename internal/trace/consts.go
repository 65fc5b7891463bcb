package trace

const (
	// ============================================================================
	// Trace File Tokens
	// ============================================================================

	// OpAllocToken starts an allocation line: "a <id> <size>"
	OpAllocToken = "a"

	// OpReallocToken starts a resize line: "r <id> <size>"
	OpReallocToken = "r"

	// OpFreeToken starts a release line: "f <id>"
	OpFreeToken = "f"

	// CommentPrefix marks a comment line
	CommentPrefix = "#"

	// HeaderFields is the number of numeric header values: suggested heap
	// size, number of ids, number of ops, weight.
	HeaderFields = 4

	// MaxTraceIDs caps the id count a trace header may declare.
	MaxTraceIDs = 1 << 24

	// MaxTraceOps caps the op count a trace header may declare.
	MaxTraceOps = 1 << 26

	// opsPrealloc bounds how many ops Parse reserves up front from the header.
	opsPrealloc = 1 << 12

	// ============================================================================
	// Generator Defaults
	// ============================================================================

	// DefaultSuggestedHeap is written into generated headers.
	DefaultSuggestedHeap = 20 << 20

	// DefaultMaxSize caps generated request sizes.
	DefaultMaxSize = 1 << 14
)
