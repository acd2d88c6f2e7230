package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/learning"
)

func TestStats(t *testing.T) {
	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	at := func(days int, d learning.Difficulty, correct bool, ms int64) learning.Review {
		return learning.Review{
			ReviewedAt:     first.AddDate(0, 0, days),
			Difficulty:     d,
			Correct:        correct,
			ResponseTimeMs: ms,
		}
	}

	tests := []struct {
		name                string
		reviews             []learning.Review
		wantTotal           int
		wantCorrect         int
		wantRetention       float64
		wantAvgResponseTime time.Duration
		wantLastReview      *time.Time
		wantDifficultyScore float64
	}{
		{
			name:                "no reviews",
			reviews:             nil,
			wantRetention:       0.8,
			wantDifficultyScore: 0.5,
		},
		{
			name: "well retained item looks easier",
			reviews: []learning.Review{
				at(0, learning.DifficultyEasy, true, 1200),
				at(3, learning.DifficultyEasy, true, 800),
				at(10, learning.DifficultyMedium, true, 0),
				at(24, learning.DifficultyEasy, true, 1000),
				at(40, learning.DifficultyMedium, true, 0),
			},
			wantTotal:           5,
			wantCorrect:         5,
			wantRetention:       1,
			wantAvgResponseTime: time.Second,
			wantLastReview:      ptr(first.AddDate(0, 0, 40)),
			wantDifficultyScore: 0.4,
		},
		{
			name: "poorly retained item looks harder",
			reviews: []learning.Review{
				at(0, learning.DifficultyHard, false, 0),
				at(1, learning.DifficultyMedium, true, 0),
				at(2, learning.DifficultyHard, false, 0),
			},
			wantTotal:           3,
			wantCorrect:         1,
			wantRetention:       1.0 / 3,
			wantLastReview:      ptr(first.AddDate(0, 0, 2)),
			wantDifficultyScore: 0.6,
		},
		{
			name: "middling retention stays neutral",
			reviews: []learning.Review{
				at(0, learning.DifficultyMedium, true, 0),
				at(1, learning.DifficultyMedium, true, 0),
				at(2, learning.DifficultyHard, false, 0),
			},
			wantTotal:           3,
			wantCorrect:         2,
			wantRetention:       2.0 / 3,
			wantLastReview:      ptr(first.AddDate(0, 0, 2)),
			wantDifficultyScore: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Stats(tt.reviews)

			assert.Equal(t, tt.wantTotal, got.TotalReviews)
			assert.Equal(t, tt.wantCorrect, got.CorrectAnswers)
			assert.InDelta(t, tt.wantRetention, got.RetentionRate, 1e-9)
			assert.Equal(t, tt.wantAvgResponseTime, got.AvgResponseTime)
			assert.Equal(t, tt.wantLastReview, got.LastReviewDate)
			assert.InDelta(t, tt.wantDifficultyScore, got.DifficultyScore, 1e-9)
			assert.Nil(t, got.NextReviewDate)
		})
	}
}

func TestLearningStats_WithSchedule(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	history := []learning.Review{
		{ReviewedAt: today, Difficulty: learning.DifficultyEasy, Correct: true},
	}

	stats := Stats(history)
	result := NextInterval(0, history, learning.DifficultyEasy, today)
	got := stats.WithSchedule(result)

	require.NotNil(t, got.NextReviewDate)
	assert.Equal(t, result.NextReviewDate, *got.NextReviewDate)
	assert.Nil(t, stats.NextReviewDate, "the original value is not modified")
}

func ptr[T any](v T) *T {
	return &v
}
