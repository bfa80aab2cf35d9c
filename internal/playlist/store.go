package playlist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/example/medlearn/pkg/models"
)

// Store persists course progress. Get returns nil for a course never opened.
type Store interface {
	Get(ctx context.Context, courseID string) (*Progress, error)
	Put(ctx context.Context, courseID string, progress Progress) error
}

// MemoryStore keeps course progress in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Progress
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Progress)}
}

func (s *MemoryStore) Get(_ context.Context, courseID string) (*Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[courseID]
	if !ok {
		return nil, nil
	}
	p.Completed = copyFlags(p.Completed)
	return &p, nil
}

func (s *MemoryStore) Put(_ context.Context, courseID string, progress Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress.Completed = copyFlags(progress.Completed)
	s.data[courseID] = progress
	return nil
}

func copyFlags(in map[int]bool) map[int]bool {
	out := make(map[int]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Tracker loads and saves playlists. Storage failures are logged and
// otherwise ignored: a failed read opens the course fresh, a failed write
// keeps the change in memory only.
type Tracker struct {
	store  Store
	logger *zap.Logger
}

// NewTracker creates a tracker over store. A nil logger disables logging.
func NewTracker(store Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, logger: logger}
}

// Open restores the course playlist
func (t *Tracker) Open(ctx context.Context, courseID string, lessons []models.Lesson) Playlist {
	saved, err := t.store.Get(ctx, courseID)
	if err != nil {
		t.logger.Warn("lesson progress read failed, starting fresh", zap.String("course", courseID), zap.Error(err))
		saved = nil
	}
	return Load(courseID, lessons, saved)
}

// Save persists p
func (t *Tracker) Save(ctx context.Context, p Playlist) {
	if err := t.store.Put(ctx, p.CourseID, p.Progress()); err != nil {
		t.logger.Warn("lesson progress write failed, update not persisted", zap.String("course", p.CourseID), zap.Error(err))
	}
}
