package cli

import (
	"context"
	"fmt"
	"io"
)

// Rewriter persists normalized items back to storage.
type Rewriter interface {
	Rewrite(ctx context.Context) (int, error)
}

// RunBackfill rewrites stored items with normalized difficulties and backfilled correctness
func RunBackfill(ctx context.Context, rewriter Rewriter, w io.Writer) error {
	count, err := rewriter.Rewrite(ctx)
	if err != nil {
		return fmt.Errorf("rewriter.Rewrite() > %w", err)
	}
	fmt.Fprintf(w, "Backfilled %d items\n", count)
	return nil
}
