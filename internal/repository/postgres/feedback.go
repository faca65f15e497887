package postgres

import (
	"context"
	"database/sql"

	"hypewatch/internal/domain/feedback"
	"hypewatch/pkg/errors"
)

// FeedbackRepository implements feedback.Repository backed by PostgreSQL
type FeedbackRepository struct {
	db DBTX
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// EnsureSchema creates the feedback table if it does not exist
func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS feedback (
			id              TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			rating          TEXT NOT NULL,
			notes           TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "failed to ensure feedback schema")
	}
	return nil
}

// Create stores a feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	query := `
		INSERT INTO feedback (id, conversation_id, rating, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.ConversationID, fb.Rating, fb.Notes, fb.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create feedback")
	}
	return nil
}

// List returns the most recent feedback records, newest first
func (r *FeedbackRepository) List(ctx context.Context, limit int) ([]*feedback.Feedback, error) {
	query := `
		SELECT id, conversation_id, rating, notes, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`

	var items []*feedback.Feedback
	err := r.db.SelectContext(ctx, &items, query, limit)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list feedback")
	}
	return items, nil
}
