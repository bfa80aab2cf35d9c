package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/medlearn/pkg/models"
)

// FileStore keeps the whole progress blob in a single JSON file. The file is
// read on every call and rewritten on every Put; last write wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, deckID string, cardID int) (*models.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return snap.Lookup(deckID, cardID), nil
}

func (s *FileStore) Put(_ context.Context, deckID string, cardID int, state models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	snap.Set(deckID, cardID, state)
	return s.save(snap)
}

func (s *FileStore) Deck(_ context.Context, deckID string) (map[int]models.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	out := snap[deckID]
	if out == nil {
		out = map[int]models.ReviewState{}
	}
	return out, nil
}

func (s *FileStore) All(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace overwrites the file with snap
func (s *FileStore) Replace(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snap)
}

func (s *FileStore) load() (Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open progress file: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}

func (s *FileStore) save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}
