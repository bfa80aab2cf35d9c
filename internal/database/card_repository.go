package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/pkg/models"
)

// CardRepository handles database operations for flashcards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new repository instance
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// GetByDeck returns a deck's cards ordered by id
func (r *CardRepository) GetByDeck(ctx context.Context, deckID string) ([]models.Card, error) {
	var cards []models.Card
	query := r.db.Rebind(`
		SELECT id, deck_id, question, answer, category
		FROM cards
		WHERE deck_id = ?
		ORDER BY id
	`)
	if err := r.db.SelectContext(ctx, &cards, query, deckID); err != nil {
		return nil, fmt.Errorf("failed to get cards by deck: %w", err)
	}
	return cards, nil
}

// FindByQuestion returns the card of a deck with the given question, or nil
func (r *CardRepository) FindByQuestion(ctx context.Context, deckID, question string) (*models.Card, error) {
	var cards []models.Card
	query := r.db.Rebind(`
		SELECT id, deck_id, question, answer, category
		FROM cards
		WHERE deck_id = ? AND question = ?
		LIMIT 1
	`)
	if err := r.db.SelectContext(ctx, &cards, query, deckID, question); err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return &cards[0], nil
}

// Create inserts a card. A zero ID is replaced with the next id in the deck.
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == 0 {
		var next int
		query := r.db.Rebind("SELECT COALESCE(MAX(id), 0) + 1 FROM cards WHERE deck_id = ?")
		if err := r.db.GetContext(ctx, &next, query, card.DeckID); err != nil {
			return fmt.Errorf("failed to allocate card id: %w", err)
		}
		card.ID = next
	}

	query := r.db.Rebind(`
		INSERT INTO cards (deck_id, id, question, answer, category)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, card.DeckID, card.ID, card.Question, card.Answer, card.Category)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Update rewrites a card's answer and category
func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	query := r.db.Rebind("UPDATE cards SET answer = ?, category = ? WHERE deck_id = ? AND id = ?")
	if _, err := r.db.ExecContext(ctx, query, card.Answer, card.Category, card.DeckID, card.ID); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

// CountByDeck returns the number of cards per deck
func (r *CardRepository) CountByDeck(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		DeckID string `db:"deck_id"`
		Count  int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, "SELECT deck_id, COUNT(*) AS count FROM cards GROUP BY deck_id")
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.DeckID] = row.Count
	}
	return counts, nil
}
