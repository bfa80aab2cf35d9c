package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/medlearn/pkg/models"
)

// SM2 implements a simplified SuperMemo-2 variant for flashcard review.
// The first two successful reviews use fixed steps (1 then 6), later ones
// grow the interval by the card's ease factor.
type SM2 struct {
	// Lowest rating that counts as a successful recall
	PassThreshold Rating
	// Interval at which a card is reported as mastered
	MasteredInterval int
	// Clock used to stamp LastReview
	Now func() time.Time
}

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:    Good,
		MasteredInterval: 7,
		Now:              time.Now,
	}
}

// EaseDelta returns the ease factor change for a rating before the floor is applied:
// Easy +0.00, Good -0.14, Hard -0.32, Again -0.54. Easy only holds the
// ease steady; no rating raises it.
func EaseDelta(rating Rating) float64 {
	q := float64(rating)
	return 0.1 - (5-q)*(0.08+(5-q)*0.02)
}

// ApplyRating computes the review state that follows prior after the learner
// rates a card. A nil prior means the card has never been rated. prior is not
// modified.
//
// rating must be valid (Again through Easy); anything else is a caller bug
// and panics.
func (sm *SM2) ApplyRating(prior *models.ReviewState, rating Rating) models.ReviewState {
	if !rating.IsValid() {
		panic(fmt.Sprintf("spaced_repetition: ApplyRating called with %v", rating))
	}

	next := models.DefaultReviewState()
	if prior != nil {
		next = *prior
	}

	if rating < sm.PassThreshold {
		// Lapse
		next.Interval = 0
	} else {
		switch next.Interval {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			// math.Round rounds half away from zero; uses the ease factor before this rating
			next.Interval = int(math.Round(float64(next.Interval) * next.EaseFactor))
		}
	}

	next.EaseFactor = math.Max(models.MinEaseFactor, next.EaseFactor+EaseDelta(rating))
	next.Reviews++
	next.LastReview = sm.now().UnixMilli()

	return next
}

func (sm *SM2) now() time.Time {
	if sm.Now == nil {
		return time.Now()
	}
	return sm.Now()
}

// Classify reports the learning category of a card. A nil state is a card
// that was never rated.
func (sm *SM2) Classify(state *models.ReviewState) Category {
	switch {
	case state == nil || state.Reviews == 0:
		return CategoryNew
	case state.Interval >= sm.MasteredInterval:
		return CategoryMastered
	default:
		return CategoryReview
	}
}

// Summarize counts the deck's cards by category. Cards missing from states
// are new.
func (sm *SM2) Summarize(deckID string, cardIDs []int, states map[int]models.ReviewState) models.DeckStats {
	stats := models.DeckStats{DeckID: deckID, Total: len(cardIDs)}

	for _, id := range cardIDs {
		var state *models.ReviewState
		if s, ok := states[id]; ok {
			state = &s
		}

		switch sm.Classify(state) {
		case CategoryNew:
			stats.New++
		case CategoryMastered:
			stats.Mastered++
		default:
			stats.Review++
		}
	}

	return stats
}
