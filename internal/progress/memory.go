package progress

import (
	"context"
	"sync"

	"github.com/example/medlearn/pkg/models"
)

// MemoryStore keeps progress in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data Snapshot
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: Snapshot{}}
}

func (s *MemoryStore) Get(_ context.Context, deckID string, cardID int) (*models.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Lookup(deckID, cardID), nil
}

func (s *MemoryStore) Put(_ context.Context, deckID string, cardID int, state models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Set(deckID, cardID, state)
	return nil
}

func (s *MemoryStore) Deck(_ context.Context, deckID string) (map[int]models.ReviewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]models.ReviewState, len(s.data[deckID]))
	for id, state := range s.data[deckID] {
		out[id] = state
	}
	return out, nil
}

func (s *MemoryStore) All(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}
