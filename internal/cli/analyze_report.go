package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/statistics"
)

// RunAnalyzeReport displays review statistics per month
func RunAnalyzeReport(ctx context.Context, repo learning.Repository, w io.Writer, year, month int) error {
	items, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load learning items: %w", err)
	}

	result := statistics.CalculateStatistics(items, year, month)

	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No reviews found for the specified period.")
		return nil
	}

	fmt.Fprintln(w, "Review Statistics Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %8s  %8s  %8s  %6s  %9s\n", "Period", "Reviews", "Correct", "Accuracy", "Items", "New items")
	fmt.Fprintf(w, "%-10s  %8s  %8s  %8s  %6s  %9s\n", "------", "-------", "-------", "--------", "-----", "---------")

	for _, s := range result.Periods {
		fmt.Fprintf(w, "%-10s  %8d  %8d  %7.0f%%  %6d  %9d\n",
			s.Period, s.Reviews, s.Correct, s.Accuracy()*100, s.ItemsReviewed, s.NewItems)
	}

	fmt.Fprintln(w)
	a := result.Aggregate
	fmt.Fprintf(w, "%-10s  %8d  %8d  %7.0f%%  %6d  %9d\n",
		"Totals:", a.Reviews, a.Correct, a.Accuracy()*100, a.ItemsReviewed, a.NewItems)
	return nil
}
