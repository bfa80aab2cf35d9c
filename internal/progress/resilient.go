package progress

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/medlearn/pkg/models"
)

// Resilient wraps a Store so that storage failures never reach the caller.
// Failed reads look like "no progress yet"; failed writes are logged and
// dropped, so persistence is best effort rather than transactional.
type Resilient struct {
	next   Store
	logger *zap.Logger
}

// NewResilient wraps next. A nil logger disables logging.
func NewResilient(next Store, logger *zap.Logger) *Resilient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{next: next, logger: logger}
}

func (r *Resilient) Get(ctx context.Context, deckID string, cardID int) (*models.ReviewState, error) {
	state, err := r.next.Get(ctx, deckID, cardID)
	if err != nil {
		r.logger.Warn("progress read failed, starting fresh",
			zap.String("deck", deckID), zap.Int("card", cardID), zap.Error(err))
		return nil, nil
	}
	return state, nil
}

func (r *Resilient) Put(ctx context.Context, deckID string, cardID int, state models.ReviewState) error {
	if err := r.next.Put(ctx, deckID, cardID, state); err != nil {
		r.logger.Warn("progress write failed, update not persisted",
			zap.String("deck", deckID), zap.Int("card", cardID), zap.Error(err))
	}
	return nil
}

func (r *Resilient) Deck(ctx context.Context, deckID string) (map[int]models.ReviewState, error) {
	states, err := r.next.Deck(ctx, deckID)
	if err != nil {
		r.logger.Warn("deck progress read failed, starting fresh", zap.String("deck", deckID), zap.Error(err))
		return map[int]models.ReviewState{}, nil
	}
	return states, nil
}

func (r *Resilient) All(ctx context.Context) (Snapshot, error) {
	snap, err := r.next.All(ctx)
	if err != nil {
		r.logger.Warn("progress read failed, starting fresh", zap.Error(err))
		return Snapshot{}, nil
	}
	return snap, nil
}
