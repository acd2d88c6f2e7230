package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/schedule"
)

// RunDue prints the items due at today, highest priority first
func RunDue(ctx context.Context, repo learning.Repository, w io.Writer, today time.Time, limit int) error {
	items, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	titles := make(map[string]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	entries := schedule.DueToday(items, today)
	if len(entries) == 0 {
		fmt.Fprintln(w, "Nothing is due today.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %8s  %8s  %8s  %s\n", "ID", "Priority", "Days", "Interval", "Title")
	for i, entry := range entries {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "... and %d more\n", len(entries)-limit)
			break
		}
		priority := fmt.Sprintf("%8d", entry.Priority)
		if entry.Priority >= 150 {
			priority = color.RedString(priority)
		}
		fmt.Fprintf(w, "%-36s  %s  %8d  %8d  %s\n", entry.ID, priority, entry.DaysSince, entry.Expected, titles[entry.ID])
	}
	return nil
}
