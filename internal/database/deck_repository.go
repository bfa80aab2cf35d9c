package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/pkg/models"
)

// DeckRepository handles database operations for decks
type DeckRepository struct {
	db *sqlx.DB
}

// NewDeckRepository creates a new repository instance
func NewDeckRepository(db *sqlx.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// GetAll returns all decks ordered by name
func (r *DeckRepository) GetAll(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.SelectContext(ctx, &decks, "SELECT id, name, icon, created_at FROM decks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %w", err)
	}
	return decks, nil
}

// GetByID returns a deck, or nil if it does not exist
func (r *DeckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	var deck models.Deck
	query := r.db.Rebind("SELECT id, name, icon, created_at FROM decks WHERE id = ?")
	err := r.db.GetContext(ctx, &deck, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return &deck, nil
}

// Upsert creates a deck or updates its name and icon. Reports whether a new deck was created.
func (r *DeckRepository) Upsert(ctx context.Context, deck *models.Deck) (bool, error) {
	existing, err := r.GetByID(ctx, deck.ID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		query := r.db.Rebind("UPDATE decks SET name = ?, icon = ? WHERE id = ?")
		if _, err := r.db.ExecContext(ctx, query, deck.Name, deck.Icon, deck.ID); err != nil {
			return false, fmt.Errorf("failed to update deck: %w", err)
		}
		deck.CreatedAt = existing.CreatedAt
		return false, nil
	}

	deck.CreatedAt = time.Now().UTC()
	query := r.db.Rebind("INSERT INTO decks (id, name, icon, created_at) VALUES (?, ?, ?, ?)")
	if _, err := r.db.ExecContext(ctx, query, deck.ID, deck.Name, deck.Icon, deck.CreatedAt); err != nil {
		return false, fmt.Errorf("failed to create deck: %w", err)
	}
	return true, nil
}
