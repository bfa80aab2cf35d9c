package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/pkg/models"
)

// QuizHistoryLimit is how many results are kept per deck
const QuizHistoryLimit = 50

// QuizResultRepository handles database operations for quiz results
type QuizResultRepository struct {
	db    *sqlx.DB
	limit int
}

// NewQuizResultRepository creates a new repository instance
func NewQuizResultRepository(db *sqlx.DB) *QuizResultRepository {
	return &QuizResultRepository{db: db, limit: QuizHistoryLimit}
}

// Create inserts a quiz result and drops the deck's results beyond the newest QuizHistoryLimit
func (r *QuizResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO quiz_results (
			session_id, deck_id, total, correct, percent, duration_seconds, taken_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		result.SessionID,
		result.DeckID,
		result.Total,
		result.Correct,
		result.Percent,
		result.DurationSeconds,
		result.TakenAt,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}

	query = r.db.Rebind(`
		DELETE FROM quiz_results
		WHERE deck_id = ? AND id NOT IN (
			SELECT id FROM quiz_results
			WHERE deck_id = ?
			ORDER BY taken_at DESC, id DESC
			LIMIT ?
		)
	`)
	if _, err := r.db.ExecContext(ctx, query, result.DeckID, result.DeckID, r.limit); err != nil {
		return fmt.Errorf("failed to trim quiz history: %w", err)
	}
	return nil
}

// GetByDeck returns a deck's quiz results, newest first
func (r *QuizResultRepository) GetByDeck(ctx context.Context, deckID string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	query := r.db.Rebind(`
		SELECT id, session_id, deck_id, total, correct, percent, duration_seconds, taken_at
		FROM quiz_results
		WHERE deck_id = ?
		ORDER BY taken_at DESC, id DESC
	`)
	if err := r.db.SelectContext(ctx, &results, query, deckID); err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %w", err)
	}
	return results, nil
}
