// Package schedule implements the spaced-repetition scheduling engine.
//
// Every function in this package is pure: it only reads its arguments and
// returns newly allocated values, so it is safe to call concurrently.
package schedule

import (
	"math"
	"time"

	"github.com/at-ishikawa/recallr/internal/learning"
)

const (
	// DefaultRetentionRate is assumed for items without any review.
	DefaultRetentionRate = 0.8
	// DefaultConsistencyScore is used when fewer than two reviews exist.
	DefaultConsistencyScore = 0.5
)

// Performance summarizes a window of reviews.
type Performance struct {
	Reviews          int
	Correct          int
	RetentionRate    float64
	AvgResponseTime  time.Duration
	ConsistencyScore float64
}

// Analyze summarizes reviews into a retention rate, a mean response time and
// a consistency score. An empty slice yields the optimistic defaults.
func Analyze(reviews []learning.Review) Performance {
	if len(reviews) == 0 {
		return Performance{
			RetentionRate:    DefaultRetentionRate,
			ConsistencyScore: DefaultConsistencyScore,
		}
	}

	var (
		correct   int
		timed     int
		totalTime time.Duration
	)
	for _, review := range reviews {
		if review.Correct {
			correct++
		}
		if rt, ok := review.ResponseTime(); ok {
			totalTime += rt
			timed++
		}
	}

	perf := Performance{
		Reviews:          len(reviews),
		Correct:          correct,
		RetentionRate:    float64(correct) / float64(len(reviews)),
		ConsistencyScore: consistencyScore(reviews),
	}
	if timed > 0 {
		perf.AvgResponseTime = totalTime / time.Duration(timed)
	}
	return perf
}

// difficultyWeight maps a difficulty onto 1, 2 or 3. Unknown values count as medium.
func difficultyWeight(d learning.Difficulty) float64 {
	switch d {
	case learning.DifficultyEasy:
		return 1
	case learning.DifficultyHard:
		return 3
	default:
		return 2
	}
}

// consistencyScore is 1 - variance/2 of the difficulty weights, floored at 0.
func consistencyScore(reviews []learning.Review) float64 {
	if len(reviews) < 2 {
		return DefaultConsistencyScore
	}

	var sum float64
	for _, review := range reviews {
		sum += difficultyWeight(review.Difficulty)
	}
	mean := sum / float64(len(reviews))

	var squared float64
	for _, review := range reviews {
		d := difficultyWeight(review.Difficulty) - mean
		squared += d * d
	}
	variance := squared / float64(len(reviews))

	return math.Max(0, 1-variance/2)
}
