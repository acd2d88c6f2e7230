package schedule

import (
	"math"
	"time"

	"github.com/at-ishikawa/recallr/internal/learning"
)

// baseIntervals is the number of days until the next review for each stage.
var baseIntervals = [...]int{1, 3, 7, 14, 30, 60, 120}

// MaxStage is the highest stage an item can reach.
const MaxStage = len(baseIntervals) - 1

// recentWindow is the number of latest reviews considered when scheduling.
const recentWindow = 3

// BaseIntervals returns a copy of the base interval table.
func BaseIntervals() []int {
	return append([]int(nil), baseIntervals[:]...)
}

// BaseInterval returns the base interval of stage, or 1 if stage is out of range.
func BaseInterval(stage int) int {
	if stage < 0 || stage > MaxStage {
		return 1
	}
	return baseIntervals[stage]
}

// ScheduleResult is the outcome of scheduling one completed review.
type ScheduleResult struct {
	NextStage      int
	IntervalDays   int
	NextReviewDate time.Time
}

// Schedule returns r in the form stored with the item.
func (r ScheduleResult) Schedule() learning.Schedule {
	next := r.NextReviewDate
	return learning.Schedule{
		Stage:        r.NextStage,
		IntervalDays: r.IntervalDays,
		NextReviewAt: &next,
	}
}

// StoredResult returns the result of the latest NextInterval call stored
// with the item. ok is false if the item has never been scheduled.
func StoredResult(item learning.Item) (result ScheduleResult, ok bool) {
	if item.NextReviewAt == nil {
		return ScheduleResult{}, false
	}
	return ScheduleResult{
		NextStage:      item.Stage,
		IntervalDays:   item.IntervalDays,
		NextReviewDate: *item.NextReviewAt,
	}, true
}

func difficultyFactor(d learning.Difficulty) float64 {
	switch d {
	case learning.DifficultyEasy:
		return 1.3
	case learning.DifficultyHard:
		return 0.8
	default:
		return 1.0
	}
}

// NextInterval computes the stage and interval after a review rated last.
// history is the item's full review history, including the review just
// completed if the caller has already appended it; only the latest three
// reviews are considered. today is the day the review was completed.
func NextInterval(stage int, history []learning.Review, last learning.Difficulty, today time.Time) ScheduleResult {
	stage = min(max(stage, 0), MaxStage)

	candidate := min(stage+1, MaxStage)
	base := float64(baseIntervals[candidate])

	recent := history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	perf := Analyze(recent)

	factor := difficultyFactor(last)
	switch {
	case perf.RetentionRate > 0.9:
		factor *= 1.2
	case perf.RetentionRate < 0.7:
		factor *= 0.7
		// Struggling items do not advance.
		candidate = max(stage, 1)
	}

	interval := int(math.Round(base * factor))

	if last == learning.DifficultyHard && perf.RetentionRate < 0.5 {
		candidate = max(stage-1, 0)
		interval = int(math.Round(float64(baseIntervals[candidate]) * 0.8))
	}

	return ScheduleResult{
		NextStage:      candidate,
		IntervalDays:   interval,
		NextReviewDate: today.AddDate(0, 0, interval),
	}
}
