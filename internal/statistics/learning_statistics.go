package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/recallr/internal/learning"
)

// ReviewStatistics holds statistics for a time period
type ReviewStatistics struct {
	Period        string // "2025-01"
	Reviews       int    // Total reviews in the period
	Correct       int    // Reviews answered correctly
	ItemsReviewed int    // Unique items reviewed
	NewItems      int    // Items reviewed for the first time
}

// Accuracy returns the share of correct reviews, or 0 without reviews.
func (s ReviewStatistics) Accuracy() float64 {
	if s.Reviews == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Reviews)
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	Reviews       int
	Correct       int
	ItemsReviewed int // deduplicated across periods
	NewItems      int
}

// Accuracy returns the share of correct reviews, or 0 without reviews.
func (s AggregateStatistics) Accuracy() float64 {
	if s.Reviews == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Reviews)
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ReviewStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	reviews  int
	correct  int
	items    map[string]struct{}
	newItems int
}

// CalculateStatistics calculates review statistics per month.
// It accepts optional year and month filters (0 means no filter).
// The first review of an item counts as new even when later reviews fall outside the filter,
// and a first review outside the filter makes every later review a re-review.
func CalculateStatistics(items []learning.Item, year, month int) StatisticsResult {
	stats := make(map[string]*periodData)
	globalItems := make(map[string]struct{})
	globalNew := 0

	for _, item := range items {
		for i, review := range item.Reviews {
			if review.ReviewedAt.IsZero() {
				continue
			}
			reviewYear := review.ReviewedAt.Year()
			reviewMonth := int(review.ReviewedAt.Month())
			if !matchesFilter(reviewYear, reviewMonth, year, month) {
				continue
			}

			period := fmt.Sprintf("%d-%02d", reviewYear, reviewMonth)
			data := ensurePeriodExists(stats, period)
			data.reviews++
			if review.Correct {
				data.correct++
			}
			data.items[item.ID] = struct{}{}
			globalItems[item.ID] = struct{}{}
			if i == 0 {
				data.newItems++
				globalNew++
			}
		}
	}

	return buildResult(stats, len(globalItems), globalNew)
}

func ensurePeriodExists(stats map[string]*periodData, period string) *periodData {
	if stats[period] == nil {
		stats[period] = &periodData{items: make(map[string]struct{})}
	}
	return stats[period]
}

func matchesFilter(reviewYear, reviewMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if reviewYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return reviewMonth == filterMonth
}

func buildResult(stats map[string]*periodData, uniqueItems, newItems int) StatisticsResult {
	periods := make([]ReviewStatistics, 0, len(stats))

	var totalReviews, totalCorrect int
	for period, data := range stats {
		periods = append(periods, ReviewStatistics{
			Period:        period,
			Reviews:       data.reviews,
			Correct:       data.correct,
			ItemsReviewed: len(data.items),
			NewItems:      data.newItems,
		})
		totalReviews += data.reviews
		totalCorrect += data.correct
	}

	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods: periods,
		Aggregate: AggregateStatistics{
			Reviews:       totalReviews,
			Correct:       totalCorrect,
			ItemsReviewed: uniqueItems,
			NewItems:      newItems,
		},
	}
}
