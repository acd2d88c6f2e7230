// Package datasync copies learning items between stores, such as from the YAML file into a database.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/at-ishikawa/recallr/internal/learning"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ItemsNew       int
	ItemsSkipped   int
	ItemsUpdated   int
	ReviewsNew     int
	ReviewsSkipped int
	Warnings       int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer reads items from a source store and writes them to a target store.
type Importer struct {
	source learning.Repository
	target learning.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(source, target learning.Repository, writer io.Writer) *Importer {
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

// ImportItems copies every source item into the target.
// Items missing from the target are created with their reviews. Items already in the
// target only receive the reviews they are missing; reviews are matched by position
// because the history is append-only.
func (imp *Importer) ImportItems(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	items, err := imp.source.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.FindAll() > %w", err)
	}

	for i := range items {
		if err := imp.importItem(ctx, &items[i], opts, &result); err != nil {
			return nil, fmt.Errorf("importItem(%s) > %w", items[i].ID, err)
		}
	}
	return &result, nil
}

func (imp *Importer) importItem(ctx context.Context, item *learning.Item, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.target.FindByID(ctx, item.ID)
	if errors.Is(err, learning.ErrItemNotFound) {
		if !opts.DryRun {
			if err := imp.target.Create(ctx, item); err != nil {
				return fmt.Errorf("target.Create() > %w", err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q (%d reviews)\n", item.Title, len(item.Reviews))
		result.ItemsNew++
		result.ReviewsNew += len(item.Reviews)
		return nil
	}
	if err != nil {
		return fmt.Errorf("target.FindByID() > %w", err)
	}

	if len(existing.Reviews) > len(item.Reviews) {
		fmt.Fprintf(imp.writer, "  [WARN]  %q has %d reviews in the target but %d in the source\n",
			item.Title, len(existing.Reviews), len(item.Reviews))
		result.Warnings++
		result.ItemsSkipped++
		return nil
	}

	missing := item.Reviews[len(existing.Reviews):]
	if len(missing) == 0 {
		result.ItemsSkipped++
		result.ReviewsSkipped += len(item.Reviews)
		return nil
	}

	if !opts.DryRun {
		for _, review := range missing {
			if err := imp.target.RecordReview(ctx, item.ID, review, item.Schedule()); err != nil {
				return fmt.Errorf("target.RecordReview() > %w", err)
			}
		}
	}
	fmt.Fprintf(imp.writer, "  [UPDATE]  %q (+%d reviews)\n", item.Title, len(missing))
	result.ItemsUpdated++
	result.ReviewsNew += len(missing)
	result.ReviewsSkipped += len(existing.Reviews)
	return nil
}
