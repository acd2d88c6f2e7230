package learning

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// NormalizeDifficulty maps a stored difficulty onto a known value.
// Unknown values become medium and ok is false.
func NormalizeDifficulty(raw string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if d.Valid() {
		return d, true
	}
	return DifficultyMedium, false
}

// ParseDifficulty parses a difficulty typed by a user. Single letters e, m and h
// are accepted as shortcuts.
func ParseDifficulty(raw string) (Difficulty, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "e":
		return DifficultyEasy, nil
	case "m":
		return DifficultyMedium, nil
	case "h":
		return DifficultyHard, nil
	}
	d := Difficulty(value)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
	return d, nil
}

// Normalizer validates items read from storage before they reach the scheduler.
type Normalizer struct {
	// Strict rejects unknown difficulties instead of coercing them to medium.
	Strict bool
	Logger *slog.Logger
}

// Normalize rewrites unknown difficulties in place. Each coercion is logged.
func (n Normalizer) Normalize(items []Item) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for i := range items {
		for j := range items[i].Reviews {
			review := &items[i].Reviews[j]
			d, ok := NormalizeDifficulty(string(review.Difficulty))
			if ok {
				review.Difficulty = d
				continue
			}
			if n.Strict {
				return fmt.Errorf("item %s review #%d: %w: %q", items[i].ID, j, ErrInvalidDifficulty, review.Difficulty)
			}
			logger.Warn("Normalized unknown difficulty to medium",
				"item", items[i].ID,
				"review", j,
				"difficulty", string(review.Difficulty))
			review.Difficulty = d
		}
	}
	return nil
}

// Anomaly is a problem found in stored learning data.
type Anomaly struct {
	ItemID   string
	Location string
	Message  string
}

func (a Anomaly) Error() string {
	location := ""
	if a.Location != "" {
		location = fmt.Sprintf(" (%s)", a.Location)
	}
	return fmt.Sprintf("%s%s: %s", a.ItemID, location, a.Message)
}

// Validate reports every anomaly in items without modifying them.
// maxStage is the highest valid stage index.
func Validate(items []Item, maxStage int) []Anomaly {
	var anomalies []Anomaly
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			anomalies = append(anomalies, Anomaly{ItemID: item.Title, Message: "id is empty"})
		} else if _, ok := seen[item.ID]; ok {
			anomalies = append(anomalies, Anomaly{ItemID: item.ID, Message: "duplicate id"})
		}
		seen[item.ID] = struct{}{}

		if item.Stage < 0 || item.Stage > maxStage {
			anomalies = append(anomalies, Anomaly{
				ItemID:  item.ID,
				Message: fmt.Sprintf("stage %d is out of range [0, %d]", item.Stage, maxStage),
			})
		}

		for i, review := range item.Reviews {
			location := fmt.Sprintf("reviews[%d]", i)
			if !review.Difficulty.Valid() {
				anomalies = append(anomalies, Anomaly{
					ItemID:   item.ID,
					Location: location,
					Message:  fmt.Sprintf("unknown difficulty %q", review.Difficulty),
				})
			}
			if !item.CreatedAt.IsZero() && review.ReviewedAt.Before(item.CreatedAt) {
				anomalies = append(anomalies, Anomaly{
					ItemID:   item.ID,
					Location: location,
					Message:  "reviewed before the item was created",
				})
			}
		}

		if !sort.SliceIsSorted(item.Reviews, func(i, j int) bool {
			return item.Reviews[i].ReviewedAt.Before(item.Reviews[j].ReviewedAt)
		}) {
			anomalies = append(anomalies, Anomaly{ItemID: item.ID, Message: "reviews are not in chronological order"})
		}
	}
	return anomalies
}
