package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/internal/progress"
	"github.com/example/medlearn/pkg/models"
)

var _ progress.Store = (*ProgressRepository)(nil)

// ProgressRepository stores card review state in the card_progress table
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

type progressRow struct {
	DeckID string `db:"deck_id"`
	CardID int    `db:"card_id"`
	models.ReviewState
}

// Get returns the review state of a card, or nil if it was never rated
func (r *ProgressRepository) Get(ctx context.Context, deckID string, cardID int) (*models.ReviewState, error) {
	var state models.ReviewState
	query := r.db.Rebind(`
		SELECT interval_days, ease_factor, reviews, last_review
		FROM card_progress
		WHERE deck_id = ? AND card_id = ?
	`)
	err := r.db.GetContext(ctx, &state, query, deckID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card progress: %w", err)
	}
	return &state, nil
}

// Put creates or replaces the review state of a card
func (r *ProgressRepository) Put(ctx context.Context, deckID string, cardID int, state models.ReviewState) error {
	query := r.db.Rebind(`
		INSERT INTO card_progress (deck_id, card_id, interval_days, ease_factor, reviews, last_review)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (deck_id, card_id) DO UPDATE SET
			interval_days = excluded.interval_days,
			ease_factor = excluded.ease_factor,
			reviews = excluded.reviews,
			last_review = excluded.last_review
	`)
	_, err := r.db.ExecContext(ctx, query,
		deckID,
		cardID,
		state.Interval,
		state.EaseFactor,
		state.Reviews,
		state.LastReview,
	)
	if err != nil {
		return fmt.Errorf("failed to save card progress: %w", err)
	}
	return nil
}

// Deck returns the review state of every rated card in a deck
func (r *ProgressRepository) Deck(ctx context.Context, deckID string) (map[int]models.ReviewState, error) {
	var rows []progressRow
	query := r.db.Rebind(`
		SELECT deck_id, card_id, interval_days, ease_factor, reviews, last_review
		FROM card_progress
		WHERE deck_id = ?
	`)
	if err := r.db.SelectContext(ctx, &rows, query, deckID); err != nil {
		return nil, fmt.Errorf("failed to get deck progress: %w", err)
	}

	states := make(map[int]models.ReviewState, len(rows))
	for _, row := range rows {
		states[row.CardID] = row.ReviewState
	}
	return states, nil
}

// All returns the review state of every rated card
func (r *ProgressRepository) All(ctx context.Context) (progress.Snapshot, error) {
	var rows []progressRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT deck_id, card_id, interval_days, ease_factor, reviews, last_review
		FROM card_progress
		ORDER BY deck_id, card_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	snap := progress.Snapshot{}
	for _, row := range rows {
		snap.Set(row.DeckID, row.CardID, row.ReviewState)
	}
	return snap, nil
}

// Import writes every state in snap, replacing existing rows
func (r *ProgressRepository) Import(ctx context.Context, snap progress.Snapshot) (int, error) {
	n := 0
	for deckID, cards := range snap {
		for cardID, state := range cards {
			if err := r.Put(ctx, deckID, cardID, state); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
