// Package learning provides learning item domain models and repositories.
package learning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recallr/internal/database"
)

var (
	ErrItemNotFound      = errors.New("learning item not found")
	ErrItemExists        = errors.New("learning item already exists")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

//go:generate mockgen -source=repository.go -destination=../mocks/learning/mock_repository.go -package=mock_learning

// Repository stores learning items and their review history.
// RecordReview must append the review and store the next schedule atomically.
type Repository interface {
	FindAll(ctx context.Context) ([]Item, error)
	FindByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	RecordReview(ctx context.Context, id string, review Review, next Schedule) error
}

// RawReader reads items as stored, before difficulty normalization.
type RawReader interface {
	FindAllRaw(ctx context.Context) ([]Item, error)
}

// Remover deletes an item together with its review history.
type Remover interface {
	Delete(ctx context.Context, id string) error
}

type reviewRow struct {
	ItemID string `db:"item_id"`
	Seq    int    `db:"seq"`
	Review
}

// DBRepository implements Repository on top of a SQL database.
type DBRepository struct {
	db         *sqlx.DB
	normalizer Normalizer
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB, normalizer Normalizer) *DBRepository {
	return &DBRepository{db: db, normalizer: normalizer}
}

// FindAll returns all items with their reviews, oldest item first.
func (r *DBRepository) FindAll(ctx context.Context) ([]Item, error) {
	items, err := r.FindAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.normalizer.Normalize(items); err != nil {
		return nil, fmt.Errorf("normalizer.Normalize() > %w", err)
	}
	return items, nil
}

// FindAllRaw returns all items exactly as stored, without normalization.
func (r *DBRepository) FindAllRaw(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := r.db.SelectContext(ctx, &items,
		"SELECT id, title, body, stage, interval_days, next_review_at, created_at FROM learning_items ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(learning_items) > %w", err)
	}

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT item_id, seq, reviewed_at, difficulty, correct, response_time_ms FROM review_records ORDER BY item_id, seq"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_records) > %w", err)
	}

	reviews := make(map[string][]Review, len(items))
	for _, row := range rows {
		reviews[row.ItemID] = append(reviews[row.ItemID], row.Review)
	}
	for i := range items {
		items[i].Reviews = reviews[items[i].ID]
	}
	return items, nil
}

// FindByID returns the item with the given id, or ErrItemNotFound.
func (r *DBRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item,
		r.db.Rebind("SELECT id, title, body, stage, interval_days, next_review_at, created_at FROM learning_items WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(learning_item) > %w", err)
	}

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind("SELECT item_id, seq, reviewed_at, difficulty, correct, response_time_ms FROM review_records WHERE item_id = ? ORDER BY seq"),
		id); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_records by item) > %w", err)
	}
	for _, row := range rows {
		item.Reviews = append(item.Reviews, row.Review)
	}

	items := []Item{item}
	if err := r.normalizer.Normalize(items); err != nil {
		return nil, fmt.Errorf("normalizer.Normalize() > %w", err)
	}
	return &items[0], nil
}

// Create inserts a new item together with any reviews it already has.
func (r *DBRepository) Create(ctx context.Context, item *Item) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count,
			tx.Rebind("SELECT COUNT(*) FROM learning_items WHERE id = ?"), item.ID); err != nil {
			return fmt.Errorf("tx.GetContext(count learning_items) > %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrItemExists, item.ID)
		}

		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO learning_items (id, title, body, stage, interval_days, next_review_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			item.ID, item.Title, item.Body, item.Stage, item.IntervalDays, item.NextReviewAt, item.CreatedAt); err != nil {
			return fmt.Errorf("tx.ExecContext(insert learning_item) > %w", err)
		}
		for seq, review := range item.Reviews {
			if err := insertReview(ctx, tx, item.ID, seq, review); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordReview appends review to the item and stores next in one transaction.
func (r *DBRepository) RecordReview(ctx context.Context, id string, review Review, next Schedule) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE learning_items SET stage = ?, interval_days = ?, next_review_at = ? WHERE id = ?"),
			next.Stage, next.IntervalDays, next.NextReviewAt, id)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update schedule) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}

		var seq int
		if err := tx.GetContext(ctx, &seq,
			tx.Rebind("SELECT COUNT(*) FROM review_records WHERE item_id = ?"), id); err != nil {
			return fmt.Errorf("tx.GetContext(count review_records) > %w", err)
		}
		return insertReview(ctx, tx, id, seq, review)
	})
}

// Delete removes the item and its reviews.
func (r *DBRepository) Delete(ctx context.Context, id string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM review_records WHERE item_id = ?"), id); err != nil {
			return fmt.Errorf("tx.ExecContext(delete review_records) > %w", err)
		}
		result, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM learning_items WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(delete learning_item) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return nil
	})
}

func insertReview(ctx context.Context, tx *sqlx.Tx, itemID string, seq int, review Review) error {
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO review_records (item_id, seq, reviewed_at, difficulty, correct, response_time_ms)
		VALUES (?, ?, ?, ?, ?, ?)`),
		itemID, seq, review.ReviewedAt, string(review.Difficulty), review.Correct, review.ResponseTimeMs); err != nil {
		return fmt.Errorf("tx.ExecContext(insert review_record) > %w", err)
	}
	return nil
}

// Rewrite stores the normalized difficulty of every review whose stored value
// is not canonical. It returns the number of items changed.
func (r *DBRepository) Rewrite(ctx context.Context) (int, error) {
	items, err := r.FindAllRaw(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	err = database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for i := range items {
			itemChanged := false
			for seq, review := range items[i].Reviews {
				normalized, ok := NormalizeDifficulty(string(review.Difficulty))
				if ok && normalized == review.Difficulty {
					continue
				}
				if !ok && r.normalizer.Strict {
					return fmt.Errorf("item %s review #%d: %w: %q", items[i].ID, seq, ErrInvalidDifficulty, review.Difficulty)
				}
				if _, err := tx.ExecContext(ctx,
					tx.Rebind("UPDATE review_records SET difficulty = ? WHERE item_id = ? AND seq = ?"),
					string(normalized), items[i].ID, seq); err != nil {
					return fmt.Errorf("tx.ExecContext(update difficulty) > %w", err)
				}
				itemChanged = true
			}
			if itemChanged {
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
