package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/schedule"
)

// ReviewCLI manages an interactive review session over today's queue
type ReviewCLI struct {
	repo         learning.Repository
	queue        []*learning.Item
	total        int
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	now          func() time.Time
	bold         *color.Color
	italic       *color.Color
}

// NewReviewCLI loads the items due at now and keeps the first limit of them.
// A limit of 0 keeps the whole queue.
func NewReviewCLI(
	ctx context.Context,
	repo learning.Repository,
	limit int,
	stdin io.Reader,
	stdout io.Writer,
	now func() time.Time,
) (*ReviewCLI, error) {
	items, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll() > %w", err)
	}

	queue := dueItems(items, now(), limit)
	return &ReviewCLI{
		repo:         repo,
		queue:        queue,
		total:        len(queue),
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		now:          now,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}, nil
}

func dueItems(items []learning.Item, today time.Time, limit int) []*learning.Item {
	byID := make(map[string]*learning.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	entries := schedule.DueToday(items, today)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	queue := make([]*learning.Item, 0, len(entries))
	for _, entry := range entries {
		queue = append(queue, byID[entry.ID])
	}
	return queue
}

// GetItemCount returns the number of remaining items
func (r *ReviewCLI) GetItemCount() int {
	return len(r.queue)
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	if len(r.queue) == 0 {
		fmt.Fprintln(r.stdoutWriter, "No more items to review!")
		return errEnd
	}
	item := r.queue[0]

	fmt.Fprintf(r.stdoutWriter, "[%d/%d] ", r.total-len(r.queue)+1, r.total)
	_, _ = r.bold.Fprintln(r.stdoutWriter, item.Title)
	if item.Body != "" {
		_, _ = r.italic.Fprintln(r.stdoutWriter, item.Body)
	}

	startedAt := r.now()
	correct, quit, err := r.askCorrect()
	if err != nil {
		return err
	}
	if quit {
		return errEnd
	}
	responseTime := r.now().Sub(startedAt)

	difficulty, quit, err := r.askDifficulty()
	if err != nil {
		return err
	}
	if quit {
		return errEnd
	}

	reviewedAt := r.now()
	review := learning.Review{
		ReviewedAt:     reviewedAt,
		Difficulty:     difficulty,
		Correct:        correct,
		ResponseTimeMs: responseTime.Milliseconds(),
	}
	history := append(append([]learning.Review(nil), item.Reviews...), review)
	result := schedule.NextInterval(item.Stage, history, difficulty, reviewedAt)

	if err := r.repo.RecordReview(ctx, item.ID, review, result.Schedule()); err != nil {
		return fmt.Errorf("repo.RecordReview(%s) > %w", item.ID, err)
	}

	if correct {
		fmt.Fprint(r.stdoutWriter, "✅ ")
	} else {
		fmt.Fprint(r.stdoutWriter, "❌ ")
	}
	_, _ = color.New(color.FgGreen).Fprintf(r.stdoutWriter, "Next review in %d days on %s (stage %d)\n\n",
		result.IntervalDays, result.NextReviewDate.Format(time.DateOnly), result.NextStage)

	r.queue = r.queue[1:]
	return nil
}

func (r *ReviewCLI) askCorrect() (correct bool, quit bool, err error) {
	for {
		answer, err := r.prompt("Did you recall it? [y/n, q to quit]: ")
		if err != nil {
			return false, false, err
		}
		switch answer {
		case "y", "yes":
			return true, false, nil
		case "n", "no":
			return false, false, nil
		case "q":
			return false, true, nil
		}
		_, _ = color.New(color.FgRed).Fprintf(r.stdoutWriter, "Please answer y or n\n")
	}
}

func (r *ReviewCLI) askDifficulty() (learning.Difficulty, bool, error) {
	for {
		answer, err := r.prompt("How difficult was it? [e]asy/[m]edium/[h]ard: ")
		if err != nil {
			return "", false, err
		}
		if answer == "q" {
			return "", true, nil
		}
		difficulty, err := learning.ParseDifficulty(answer)
		if err == nil {
			return difficulty, false, nil
		}
		_, _ = color.New(color.FgRed).Fprintf(r.stdoutWriter, "%v\n", err)
	}
}

func (r *ReviewCLI) prompt(message string) (string, error) {
	_, _ = r.bold.Fprint(r.stdoutWriter, message)
	answer, err := r.stdinReader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if errors.Is(err, io.EOF) {
		// Closed input ends the session
		if answer == "" {
			return "q", nil
		}
		return answer, nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return answer, nil
}
