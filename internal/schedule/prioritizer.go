package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/at-ishikawa/recallr/internal/learning"
)

const (
	overdueBasePriority = 100
	strugglingBonus     = 50
	strugglingRetention = 0.7
)

// QueueEntry is an item that is due for review.
type QueueEntry struct {
	ID        string
	Priority  int
	Overdue   bool
	DaysSince int
	Expected  int
}

// DaysBetween returns the number of whole days elapsed from since to now,
// rounded down. It is negative when since is after now.
func DaysBetween(since, now time.Time) int {
	return int(math.Floor(now.Sub(since).Hours() / 24))
}

// DueToday returns the items whose expected interval has elapsed, highest
// priority first. Items with equal priority keep their input order.
// The expected interval is the one stored by the latest review, or the base
// interval of the item's stage when it has never been scheduled.
func DueToday(items []learning.Item, today time.Time) []QueueEntry {
	entries := make([]QueueEntry, 0, len(items))
	for _, item := range items {
		daysSince := DaysBetween(item.LastReviewedAt(), today)
		expected := ExpectedInterval(item)
		if daysSince < expected {
			continue
		}

		priority := daysSince - expected + overdueBasePriority
		if Analyze(item.Reviews).RetentionRate < strugglingRetention {
			priority += strugglingBonus
		}
		entries = append(entries, QueueEntry{
			ID:        item.ID,
			Priority:  priority,
			Overdue:   true,
			DaysSince: daysSince,
			Expected:  expected,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})
	return entries
}

// ExpectedInterval returns the number of days the item waits after its last
// review before it is due again.
func ExpectedInterval(item learning.Item) int {
	if item.NextReviewAt != nil && item.IntervalDays > 0 {
		return item.IntervalDays
	}
	return BaseInterval(item.Stage)
}
