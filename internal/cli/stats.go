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

// RunStats prints the review statistics of one item
func RunStats(ctx context.Context, repo learning.Repository, w io.Writer, id string) error {
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.FindByID(%s) > %w", id, err)
	}

	stats := schedule.Stats(item.Reviews)
	if result, ok := schedule.StoredResult(*item); ok {
		stats = stats.WithSchedule(result)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintln(w, item.Title)
	fmt.Fprintf(w, "  Stage:             %d\n", item.Stage)
	fmt.Fprintf(w, "  Total reviews:     %d\n", stats.TotalReviews)
	fmt.Fprintf(w, "  Correct answers:   %d\n", stats.CorrectAnswers)
	fmt.Fprintf(w, "  Retention rate:    %.0f%%\n", stats.RetentionRate*100)
	fmt.Fprintf(w, "  Avg response time: %s\n", formatResponseTime(stats.AvgResponseTime))
	fmt.Fprintf(w, "  Difficulty score:  %.1f\n", stats.DifficultyScore)
	fmt.Fprintf(w, "  Last review:       %s\n", formatDate(stats.LastReviewDate))
	fmt.Fprintf(w, "  Next review:       %s\n", formatNextReview(stats.NextReviewDate))
	return nil
}

func formatResponseTime(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.DateOnly)
}

// formatNextReview prints the next review date stored by the latest review.
func formatNextReview(t *time.Time) string {
	if t == nil {
		return "not scheduled"
	}
	return t.Format(time.DateOnly)
}
