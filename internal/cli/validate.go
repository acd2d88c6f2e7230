package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/learning"
	"github.com/at-ishikawa/recallr/internal/schedule"
)

// RunValidate checks the stored items as they are, before any normalization.
// It returns an error when at least one anomaly is found.
func RunValidate(ctx context.Context, reader learning.RawReader, w io.Writer) error {
	items, err := reader.FindAllRaw(ctx)
	if err != nil {
		return fmt.Errorf("reader.FindAllRaw() > %w", err)
	}

	anomalies := learning.Validate(items, schedule.MaxStage)
	fmt.Fprintln(w, "=== Validation Results ===")
	if len(anomalies) == 0 {
		color.New(color.FgGreen).Fprintf(w, "✓ All %d items are valid\n", len(items))
		return nil
	}

	color.New(color.FgRed).Fprintf(w, "✗ Anomalies (%d):\n", len(anomalies))
	for _, anomaly := range anomalies {
		fmt.Fprintf(w, "  - %s\n", anomaly.Error())
	}
	return fmt.Errorf("validation failed with %d anomalies", len(anomalies))
}
