package spaced_repetition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRating is returned by ParseRating for unknown input
var ErrInvalidRating = errors.New("spaced_repetition: invalid rating")

// Rating is the learner's recall quality after seeing the answer
type Rating int

const (
	// Could not recall the answer
	Again Rating = 1
	// Recalled with serious difficulty
	Hard Rating = 2
	// Recalled after some hesitation
	Good Rating = 3
	// Recalled effortlessly
	Easy Rating = 4
)

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

// IsValid reports whether r is one of Again, Hard, Good or Easy
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating accepts "1".."4" or a rating name in any case
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		r := Rating(n)
		if !r.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidRating, n)
		}
		return r, nil
	}

	for r := Again; r <= Easy; r++ {
		if strings.EqualFold(s, ratingNames[r]) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// Category is a derived view of a card's progress, never stored
type Category string

const (
	CategoryNew      Category = "new"
	CategoryReview   Category = "review"
	CategoryMastered Category = "mastered"
)
