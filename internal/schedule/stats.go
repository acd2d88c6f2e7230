package schedule

import (
	"math"
	"time"

	"github.com/at-ishikawa/recallr/internal/learning"
)

const (
	neutralDifficultyScore = 0.5
	difficultyScoreStep    = 0.1
)

// LearningStats is a display-oriented summary of one item's history.
// It is never used for scheduling decisions. NextReviewDate is only set
// from a ScheduleResult, see WithSchedule.
type LearningStats struct {
	TotalReviews    int
	CorrectAnswers  int
	AvgResponseTime time.Duration
	RetentionRate   float64
	LastReviewDate  *time.Time
	NextReviewDate  *time.Time
	DifficultyScore float64
}

// Stats aggregates the full review history of an item.
func Stats(reviews []learning.Review) LearningStats {
	perf := Analyze(reviews)

	stats := LearningStats{
		TotalReviews:    perf.Reviews,
		CorrectAnswers:  perf.Correct,
		AvgResponseTime: perf.AvgResponseTime,
		RetentionRate:   perf.RetentionRate,
		DifficultyScore: difficultyScore(perf.RetentionRate),
	}
	if len(reviews) > 0 {
		last := reviews[len(reviews)-1].ReviewedAt
		stats.LastReviewDate = &last
	}
	return stats
}

// WithSchedule returns a copy of s whose NextReviewDate comes from result.
func (s LearningStats) WithSchedule(result ScheduleResult) LearningStats {
	next := result.NextReviewDate
	s.NextReviewDate = &next
	return s
}

// difficultyScore moves one step from neutral toward 0.2 for well retained
// items and toward 0.8 for poorly retained ones.
func difficultyScore(retention float64) float64 {
	score := neutralDifficultyScore
	switch {
	case retention > 0.8:
		score = math.Max(0.2, score-difficultyScoreStep)
	case retention < 0.6:
		score = math.Min(0.8, score+difficultyScoreStep)
	}
	return score
}
