//go:build !unix

package dirty

import "context"

// flushRanges is a no-op where regions are not file mappings.
func flushRanges(ctx context.Context, _ []byte, _ []Range) error {
	return ctx.Err()
}
