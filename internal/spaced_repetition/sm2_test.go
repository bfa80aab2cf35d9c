package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/example/medlearn/pkg/models"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestSM2() *SM2 {
	sm := NewSM2()
	sm.Now = func() time.Time { return fixedNow }
	return sm
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyRatingScenarios(t *testing.T) {
	tests := []struct {
		name     string
		prior    *models.ReviewState
		rating   Rating
		interval int
		ease     float64
		reviews  int
	}{
		{"first review good", nil, Good, 1, 2.36, 1},
		{"second review good", &models.ReviewState{Interval: 1, EaseFactor: 2.36, Reviews: 1}, Good, 6, 2.22, 2},
		{"third review easy", &models.ReviewState{Interval: 6, EaseFactor: 2.22, Reviews: 2}, Easy, 13, 2.22, 3},
		{"lapse", &models.ReviewState{Interval: 13, EaseFactor: 2.22, Reviews: 3}, Again, 0, 1.68, 4},
		{"ease floor", &models.ReviewState{Interval: 0, EaseFactor: 1.35, Reviews: 10}, Again, 0, 1.3, 11},
		{"hard resets", &models.ReviewState{Interval: 40, EaseFactor: 2.5, Reviews: 7}, Hard, 0, 2.18, 8},
	}

	sm := newTestSM2()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.ApplyRating(tt.prior, tt.rating)
			if got.Interval != tt.interval {
				t.Errorf("Interval = %d, want %d", got.Interval, tt.interval)
			}
			if !approxEqual(got.EaseFactor, tt.ease) {
				t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, tt.ease)
			}
			if got.Reviews != tt.reviews {
				t.Errorf("Reviews = %d, want %d", got.Reviews, tt.reviews)
			}
			if got.LastReview != fixedNow.UnixMilli() {
				t.Errorf("LastReview = %d, want %d", got.LastReview, fixedNow.UnixMilli())
			}
		})
	}
}

func TestApplyRatingDoesNotMutatePrior(t *testing.T) {
	sm := newTestSM2()
	prior := models.ReviewState{Interval: 6, EaseFactor: 2.22, Reviews: 2, LastReview: 42}
	_ = sm.ApplyRating(&prior, Easy)

	want := models.ReviewState{Interval: 6, EaseFactor: 2.22, Reviews: 2, LastReview: 42}
	if prior != want {
		t.Errorf("prior changed to %+v", prior)
	}
}

func TestApplyRatingInvariants(t *testing.T) {
	sm := newTestSM2()
	intervals := []int{0, 1, 2, 6, 13, 100}
	eases := []float64{1.3, 1.35, 1.8, 2.5, 3.1}
	reviews := []int{0, 1, 25}

	for _, interval := range intervals {
		for _, ease := range eases {
			for _, n := range reviews {
				for r := Again; r <= Easy; r++ {
					prior := models.ReviewState{Interval: interval, EaseFactor: ease, Reviews: n}
					got := sm.ApplyRating(&prior, r)

					if got.EaseFactor < models.MinEaseFactor {
						t.Errorf("%+v rated %v: EaseFactor %v below floor", prior, r, got.EaseFactor)
					}
					if got.Interval < 0 {
						t.Errorf("%+v rated %v: negative interval %d", prior, r, got.Interval)
					}
					if got.Reviews != n+1 {
						t.Errorf("%+v rated %v: Reviews = %d, want %d", prior, r, got.Reviews, n+1)
					}
					if r < Good && got.Interval != 0 {
						t.Errorf("%+v rated %v: lapse kept interval %d", prior, r, got.Interval)
					}
				}
			}
		}
	}
}

func TestApplyRatingAbsentPriorCountsOneReview(t *testing.T) {
	sm := newTestSM2()
	for r := Again; r <= Easy; r++ {
		if got := sm.ApplyRating(nil, r); got.Reviews != 1 {
			t.Errorf("rating %v: Reviews = %d, want 1", r, got.Reviews)
		}
	}
}

func TestGraduationSequence(t *testing.T) {
	sm := newTestSM2()
	want := []int{1, 6, 13, 27, 52}

	var state *models.ReviewState
	for i, interval := range want {
		next := sm.ApplyRating(state, Good)
		if next.Interval != interval {
			t.Fatalf("call %d: Interval = %d, want %d", i+1, next.Interval, interval)
		}
		state = &next
	}
}

func TestGraduationUsesEaseAfterSecondCall(t *testing.T) {
	sm := newTestSM2()
	first := sm.ApplyRating(nil, Good)
	second := sm.ApplyRating(&first, Good)
	third := sm.ApplyRating(&second, Good)

	want := int(math.Round(6 * second.EaseFactor))
	if third.Interval != want {
		t.Errorf("third Interval = %d, want %d", third.Interval, want)
	}
}

func TestEaseDelta(t *testing.T) {
	tests := []struct {
		rating Rating
		want   float64
	}{
		{Easy, 0},
		{Good, -0.14},
		{Hard, -0.32},
		{Again, -0.54},
	}
	for _, tt := range tests {
		if got := EaseDelta(tt.rating); !approxEqual(got, tt.want) {
			t.Errorf("EaseDelta(%v) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestApplyRatingPanicsOnInvalidRating(t *testing.T) {
	sm := newTestSM2()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for rating 0")
		}
	}()
	sm.ApplyRating(nil, Rating(0))
}

func TestClassify(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		name  string
		state *models.ReviewState
		want  Category
	}{
		{"absent", nil, CategoryNew},
		{"zero reviews", &models.ReviewState{Interval: 0, EaseFactor: 2.5}, CategoryNew},
		{"interval 7", &models.ReviewState{Interval: 7, EaseFactor: 2.5, Reviews: 3}, CategoryMastered},
		{"interval 6", &models.ReviewState{Interval: 6, EaseFactor: 2.5, Reviews: 2}, CategoryReview},
		{"lapsed", &models.ReviewState{Interval: 0, EaseFactor: 1.3, Reviews: 9}, CategoryReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := sm.Classify(tt.state)
			second := sm.Classify(tt.state)
			if first != tt.want {
				t.Errorf("Classify = %q, want %q", first, tt.want)
			}
			if first != second {
				t.Errorf("Classify not stable: %q then %q", first, second)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	sm := NewSM2()
	states := map[int]models.ReviewState{
		1: {Interval: 7, EaseFactor: 2.5, Reviews: 3},
		2: {Interval: 1, EaseFactor: 2.36, Reviews: 1},
		9: {Interval: 30, EaseFactor: 2.5, Reviews: 5}, // not in deck
	}

	got := sm.Summarize("neurology", []int{1, 2, 3, 4}, states)
	want := models.DeckStats{DeckID: "neurology", New: 2, Review: 1, Mastered: 1, Total: 4}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}
