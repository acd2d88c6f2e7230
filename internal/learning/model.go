package learning

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Difficulty is the user-reported recall difficulty of a completed review.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Review is one completed review event. Reviews of an item are append-only.
type Review struct {
	ReviewedAt     time.Time  `yaml:"reviewed_at" db:"reviewed_at"`
	Difficulty     Difficulty `yaml:"difficulty" db:"difficulty"`
	Correct        bool       `yaml:"correct" db:"correct"`
	ResponseTimeMs int64      `yaml:"response_time_ms,omitempty" db:"response_time_ms"` // 0 when not measured
}

// ResponseTime returns the measured response time and whether it was recorded.
func (r Review) ResponseTime() (time.Duration, bool) {
	if r.ResponseTimeMs <= 0 {
		return 0, false
	}
	return time.Duration(r.ResponseTimeMs) * time.Millisecond, true
}

// reviewDocument mirrors Review for decoding, so that a missing "correct" key
// can be told apart from an explicit false.
type reviewDocument struct {
	ReviewedAt     time.Time `yaml:"reviewed_at"`
	Difficulty     string    `yaml:"difficulty"`
	Correct        *bool     `yaml:"correct"`
	ResponseTimeMs int64     `yaml:"response_time_ms,omitempty"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
// Legacy records without "correct" are backfilled as difficulty != hard.
// The difficulty is kept verbatim here; normalization is done by Normalizer.
func (r *Review) UnmarshalYAML(value *yaml.Node) error {
	var doc reviewDocument
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("value.Decode(review) > %w", err)
	}

	r.ReviewedAt = doc.ReviewedAt
	r.Difficulty = Difficulty(doc.Difficulty)
	r.ResponseTimeMs = doc.ResponseTimeMs
	if doc.Correct != nil {
		r.Correct = *doc.Correct
	} else {
		normalized, _ := NormalizeDifficulty(doc.Difficulty)
		r.Correct = normalized != DifficultyHard
	}
	return nil
}

// Schedule is the stored outcome of the latest scheduling decision.
// NextReviewAt is nil until the item has been scheduled.
type Schedule struct {
	Stage        int
	IntervalDays int
	NextReviewAt *time.Time
}

// Item is one trackable piece of knowledge.
type Item struct {
	ID        string    `yaml:"id" db:"id"`
	Title     string    `yaml:"title" db:"title"`
	Body      string    `yaml:"body,omitempty" db:"body"`
	CreatedAt time.Time `yaml:"created_at" db:"created_at"`
	Stage     int       `yaml:"stage" db:"stage"`
	// IntervalDays and NextReviewAt are written together with Stage by RecordReview.
	IntervalDays int        `yaml:"interval_days,omitempty" db:"interval_days"`
	NextReviewAt *time.Time `yaml:"next_review_at,omitempty" db:"next_review_at"`
	Reviews      []Review   `yaml:"reviews,omitempty" db:"-"`
}

// Schedule returns the stored schedule of the item.
func (item Item) Schedule() Schedule {
	return Schedule{
		Stage:        item.Stage,
		IntervalDays: item.IntervalDays,
		NextReviewAt: item.NextReviewAt,
	}
}

// apply stores next as the item's current schedule.
func (item *Item) apply(next Schedule) {
	item.Stage = next.Stage
	item.IntervalDays = next.IntervalDays
	item.NextReviewAt = next.NextReviewAt
}

// LastReviewedAt returns the date of the latest review, or CreatedAt if the
// item has never been reviewed.
func (item Item) LastReviewedAt() time.Time {
	if len(item.Reviews) == 0 {
		return item.CreatedAt
	}
	return item.Reviews[len(item.Reviews)-1].ReviewedAt
}

// LearningFile is the document stored by YAMLRepository.
type LearningFile struct {
	Items []Item `yaml:"items"`
}
