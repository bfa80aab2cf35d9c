package models

// Default scheduling values for a card that has never been rated.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewState tracks a learner's spaced-repetition progress on a single card
type ReviewState struct {
	Interval   int     `json:"interval" db:"interval_days"` // Days until next review, scalar counter
	EaseFactor float64 `json:"easeFactor" db:"ease_factor"` // Interval growth multiplier, never below MinEaseFactor
	Reviews    int     `json:"reviews" db:"reviews"`        // Number of ratings applied
	LastReview int64   `json:"lastReview" db:"last_review"` // Milliseconds since epoch of the last rating
}

// DefaultReviewState returns the state a card starts from before its first rating
func DefaultReviewState() ReviewState {
	return ReviewState{
		Interval:   0,
		EaseFactor: DefaultEaseFactor,
		Reviews:    0,
	}
}
