// Package review applies learner ratings to cards: it reads prior progress,
// runs the scheduler, persists the result and advances the study session.
package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/medlearn/internal/progress"
	"github.com/example/medlearn/internal/session"
	sr "github.com/example/medlearn/internal/spaced_repetition"
	"github.com/example/medlearn/pkg/models"
)

var (
	ErrNotFlipped    = errors.New("review: answer must be shown before rating")
	ErrSessionDone   = errors.New("review: session has no cards left")
	ErrInvalidRating = sr.ErrInvalidRating
)

// LogWriter records applied ratings
type LogWriter interface {
	Create(ctx context.Context, entry *models.ReviewLog) error
}

// Service wires the scheduler to a progress store
type Service struct {
	sm2    *sr.SM2
	store  progress.Store
	logs   LogWriter
	logger *zap.Logger
}

// NewService creates a review service. store is wrapped so that storage
// failures degrade to fresh state instead of failing the rating.
func NewService(sm2 *sr.SM2, store progress.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sm2:    sm2,
		store:  progress.NewResilient(store, logger),
		logger: logger,
	}
}

// WithLog records every rating to w
func (s *Service) WithLog(w LogWriter) *Service {
	s.logs = w
	return s
}

// Rate applies rating to the current card of sess and returns the advanced
// session together with the card's new review state.
func (s *Service) Rate(ctx context.Context, sess session.State, rating sr.Rating) (session.State, models.ReviewState, error) {
	if !rating.IsValid() {
		return sess, models.ReviewState{}, fmt.Errorf("%w: %v", ErrInvalidRating, rating)
	}
	cardID, ok := sess.Current()
	if !ok {
		return sess, models.ReviewState{}, ErrSessionDone
	}
	if !sess.Flipped {
		return sess, models.ReviewState{}, ErrNotFlipped
	}

	prior, _ := s.store.Get(ctx, sess.DeckID, cardID)
	next := s.sm2.ApplyRating(prior, rating)
	_ = s.store.Put(ctx, sess.DeckID, cardID, next)

	if s.logs != nil {
		entry := &models.ReviewLog{
			SessionID:  sess.ID,
			DeckID:     sess.DeckID,
			CardID:     cardID,
			Rating:     int(rating),
			Interval:   next.Interval,
			EaseFactor: next.EaseFactor,
		}
		if err := s.logs.Create(ctx, entry); err != nil {
			s.logger.Warn("review log write failed", zap.String("session", sess.ID), zap.Error(err))
		}
	}

	s.logger.Debug("card rated",
		zap.String("deck", sess.DeckID),
		zap.Int("card", cardID),
		zap.Stringer("rating", rating),
		zap.Int("interval", next.Interval),
		zap.Float64("ease_factor", next.EaseFactor),
		zap.Int("reviews", next.Reviews),
	)

	return sess.Advance(int(rating)), next, nil
}

// Stats classifies every card of a deck
func (s *Service) Stats(ctx context.Context, deckID string, cardIDs []int) models.DeckStats {
	states, _ := s.store.Deck(ctx, deckID)
	return s.sm2.Summarize(deckID, cardIDs, states)
}

// State returns the stored review state of a card, nil if never rated
func (s *Service) State(ctx context.Context, deckID string, cardID int) *models.ReviewState {
	state, _ := s.store.Get(ctx, deckID, cardID)
	return state
}

// Classify returns the learning category of a card
func (s *Service) Classify(ctx context.Context, deckID string, cardID int) sr.Category {
	return s.sm2.Classify(s.State(ctx, deckID, cardID))
}
