// Package progress persists per-card review state keyed by deck and card id.
package progress

import (
	"context"
	"errors"

	"github.com/example/medlearn/pkg/models"
)

// ErrCorrupt is returned when a persisted progress blob cannot be decoded
var ErrCorrupt = errors.New("progress: corrupt progress data")

// Snapshot maps deck id to card id to review state
type Snapshot map[string]map[int]models.ReviewState

// Store is the persistence contract consumed by the review service.
// Get returns a nil state and nil error when the card was never rated.
type Store interface {
	Get(ctx context.Context, deckID string, cardID int) (*models.ReviewState, error)
	Put(ctx context.Context, deckID string, cardID int, state models.ReviewState) error
	Deck(ctx context.Context, deckID string) (map[int]models.ReviewState, error)
	All(ctx context.Context) (Snapshot, error)
}

// Set stores state for a card, creating the deck entry when needed
func (s Snapshot) Set(deckID string, cardID int, state models.ReviewState) {
	deck, ok := s[deckID]
	if !ok {
		deck = make(map[int]models.ReviewState)
		s[deckID] = deck
	}
	deck[cardID] = state
}

// Lookup returns the state for a card or nil
func (s Snapshot) Lookup(deckID string, cardID int) *models.ReviewState {
	state, ok := s[deckID][cardID]
	if !ok {
		return nil
	}
	return &state
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for deckID, cards := range s {
		c := make(map[int]models.ReviewState, len(cards))
		for id, state := range cards {
			c[id] = state
		}
		out[deckID] = c
	}
	return out
}

// Cards returns the number of card states across all decks
func (s Snapshot) Cards() int {
	n := 0
	for _, cards := range s {
		n += len(cards)
	}
	return n
}
