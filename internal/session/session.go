// Package session models a flashcard study session as an explicit value.
// Every transition returns a new State; nothing is mutated in place.
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Stats counts what happened during a session
type Stats struct {
	CardsStudied int
	Ratings      [5]int // indexed by rating value 1..4
	StartedAt    time.Time
}

// State is the position of a learner inside a shuffled deck
type State struct {
	ID      string
	DeckID  string
	Order   []int // card ids in study order
	Index   int
	Flipped bool
	Stats   Stats
}

// Summary is shown when a session ends
type Summary struct {
	CardsStudied int
	Correct      int // Good and Easy ratings
	Elapsed      time.Duration
}

// New starts a session over cardIDs in shuffled order
func New(deckID string, cardIDs []int, rnd *rand.Rand, now time.Time) State {
	return State{
		ID:     uuid.NewString(),
		DeckID: deckID,
		Order:  Shuffle(cardIDs, rnd),
		Stats:  Stats{StartedAt: now},
	}
}

// Current returns the card being shown
func (s State) Current() (int, bool) {
	if s.Done() {
		return 0, false
	}
	return s.Order[s.Index], true
}

// Done reports whether every card has been rated
func (s State) Done() bool {
	return s.Index >= len(s.Order)
}

// Remaining returns how many cards are left, the current one included
func (s State) Remaining() int {
	if s.Done() {
		return 0
	}
	return len(s.Order) - s.Index
}

// Flip toggles between question and answer. A finished session is unchanged.
func (s State) Flip() State {
	if s.Done() {
		return s
	}
	s.Flipped = !s.Flipped
	return s
}

// Advance records a rating for the current card and moves on. Ratings are
// only accepted while the answer is showing; otherwise s is returned as is.
// rating must be 1..4.
func (s State) Advance(rating int) State {
	if s.Done() || !s.Flipped {
		return s
	}
	s.Stats.CardsStudied++
	s.Stats.Ratings[rating]++
	s.Index++
	s.Flipped = false
	return s
}

// Previous goes back one card without undoing its rating
func (s State) Previous() State {
	if s.Index > 0 {
		s.Index--
		s.Flipped = false
	}
	return s
}

// Reset starts over with fresh stats and a new order
func (s State) Reset(rnd *rand.Rand, now time.Time) State {
	return State{
		ID:     s.ID,
		DeckID: s.DeckID,
		Order:  Shuffle(s.Order, rnd),
		Stats:  Stats{StartedAt: now},
	}
}

// Progress returns the 1-based position of the current card and the deck size
func (s State) Progress() (int, int) {
	pos := s.Index + 1
	if pos > len(s.Order) {
		pos = len(s.Order)
	}
	return pos, len(s.Order)
}

// Summary returns the end-of-session figures as of now
func (s State) Summary(now time.Time) Summary {
	elapsed := now.Sub(s.Stats.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return Summary{
		CardsStudied: s.Stats.CardsStudied,
		Correct:      s.Stats.Ratings[3] + s.Stats.Ratings[4],
		Elapsed:      elapsed,
	}
}

// FormatElapsed renders d as m:ss
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
