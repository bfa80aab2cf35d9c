package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/pkg/models"
)

// ReviewLogRepository handles database operations for the rating history
type ReviewLogRepository struct {
	db *sqlx.DB
}

// NewReviewLogRepository creates a new repository instance
func NewReviewLogRepository(db *sqlx.DB) *ReviewLogRepository {
	return &ReviewLogRepository{db: db}
}

// Create inserts a review log entry
func (r *ReviewLogRepository) Create(ctx context.Context, entry *models.ReviewLog) error {
	if entry.ReviewedAt.IsZero() {
		entry.ReviewedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO review_log (
			session_id, deck_id, card_id, rating, interval_days, ease_factor, reviewed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		entry.SessionID,
		entry.DeckID,
		entry.CardID,
		entry.Rating,
		entry.Interval,
		entry.EaseFactor,
		entry.ReviewedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create review log: %w", err)
	}
	return nil
}

// GetBySession returns a session's ratings in the order they were applied
func (r *ReviewLogRepository) GetBySession(ctx context.Context, sessionID string) ([]models.ReviewLog, error) {
	var entries []models.ReviewLog
	query := r.db.Rebind(`
		SELECT id, session_id, deck_id, card_id, rating, interval_days, ease_factor, reviewed_at
		FROM review_log
		WHERE session_id = ?
		ORDER BY id
	`)
	if err := r.db.SelectContext(ctx, &entries, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get review log: %w", err)
	}
	return entries, nil
}
