package datasync

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/recallr/internal/learning"
	mock_learning "github.com/at-ishikawa/recallr/internal/mocks/learning"
)

func TestImporter_ImportItems(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := learning.Review{ReviewedAt: created.AddDate(0, 0, 1), Difficulty: learning.DifficultyEasy, Correct: true}
	second := learning.Review{ReviewedAt: created.AddDate(0, 0, 4), Difficulty: learning.DifficultyMedium, Correct: true}
	next := created.AddDate(0, 0, 11)
	item := learning.Item{
		ID: "a", Title: "Goroutines", CreatedAt: created,
		Stage: 2, IntervalDays: 7, NextReviewAt: &next,
		Reviews: []learning.Review{first, second},
	}

	tests := []struct {
		name       string
		opts       ImportOptions
		setup      func(source, target *mock_learning.MockRepository)
		want       *ImportResult
		wantOutput string
		wantErr    bool
	}{
		{
			name: "new item is created with its reviews",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{item}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(nil, fmt.Errorf("%w: a", learning.ErrItemNotFound))
				target.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, got *learning.Item) error {
						assert.Equal(t, item, *got)
						return nil
					})
			},
			want:       &ImportResult{ItemsNew: 1, ReviewsNew: 2},
			wantOutput: `[NEW]  "Goroutines" (2 reviews)`,
		},
		{
			name: "dry run does not write",
			opts: ImportOptions{DryRun: true},
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{item}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(nil, fmt.Errorf("%w: a", learning.ErrItemNotFound))
			},
			want: &ImportResult{ItemsNew: 1, ReviewsNew: 2},
		},
		{
			name: "existing item receives only missing reviews",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{item}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(&learning.Item{
					ID: "a", Title: "Goroutines", CreatedAt: created, Stage: 1, Reviews: []learning.Review{first},
				}, nil)
				target.EXPECT().RecordReview(gomock.Any(), "a", second, learning.Schedule{
					Stage: 2, IntervalDays: 7, NextReviewAt: &next,
				}).Return(nil)
			},
			want:       &ImportResult{ItemsUpdated: 1, ReviewsNew: 1, ReviewsSkipped: 1},
			wantOutput: `[UPDATE]  "Goroutines" (+1 reviews)`,
		},
		{
			name: "up to date item is skipped",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{item}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(&item, nil)
			},
			want: &ImportResult{ItemsSkipped: 1, ReviewsSkipped: 2},
		},
		{
			name: "target with more reviews is reported",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{{ID: "a", Title: "Goroutines"}}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(&item, nil)
			},
			want:       &ImportResult{ItemsSkipped: 1, Warnings: 1},
			wantOutput: `[WARN]  "Goroutines" has 2 reviews in the target but 0 in the source`,
		},
		{
			name: "source error",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return(nil, fmt.Errorf("broken file"))
			},
			wantErr: true,
		},
		{
			name: "target error",
			setup: func(source, target *mock_learning.MockRepository) {
				source.EXPECT().FindAll(gomock.Any()).Return([]learning.Item{item}, nil)
				target.EXPECT().FindByID(gomock.Any(), "a").Return(nil, fmt.Errorf("connection lost"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := mock_learning.NewMockRepository(ctrl)
			target := mock_learning.NewMockRepository(ctrl)
			tt.setup(source, target)

			var buf bytes.Buffer
			got, err := NewImporter(source, target, &buf).ImportItems(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantOutput != "" {
				assert.Contains(t, buf.String(), tt.wantOutput)
			}
		})
	}
}
