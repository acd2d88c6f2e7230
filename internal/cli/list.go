package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/schedule"
)

// RunList prints every item ordered by its last review
func RunList(ctx context.Context, repo learning.Repository, w io.Writer, ascending bool) error {
	items, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No learning items yet. Add one with `recallr add`.")
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].LastReviewedAt().Before(items[j].LastReviewedAt())
		}
		return items[i].LastReviewedAt().After(items[j].LastReviewedAt())
	})

	fmt.Fprintf(w, "%-36s  %5s  %7s  %-10s  %-10s  %s\n", "ID", "Stage", "Reviews", "Last", "Next", "Title")
	for _, item := range items {
		last := "never"
		if len(item.Reviews) > 0 {
			last = item.LastReviewedAt().Format(time.DateOnly)
		}
		next := "-"
		if result, ok := schedule.StoredResult(item); ok {
			next = result.NextReviewDate.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%-36s  %5d  %7d  %-10s  %-10s  %s\n", item.ID, item.Stage, len(item.Reviews), last, next, item.Title)
	}
	return nil
}
