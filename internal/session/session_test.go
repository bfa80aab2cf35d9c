package session

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	a := Shuffle(items, NewRand(42))
	b := Shuffle(items, NewRand(42))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}

	sorted := append([]int(nil), a...)
	sort.Ints(sorted)
	if !reflect.DeepEqual(sorted, items) {
		t.Fatalf("shuffle lost elements: %v", a)
	}
	if !reflect.DeepEqual(items, []int{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("input modified: %v", items)
	}
}

func TestAdvanceRequiresFlip(t *testing.T) {
	s := New("neurology", []int{1, 2, 3}, NewRand(1), start)

	same := s.Advance(3)
	if same.Index != 0 || same.Stats.CardsStudied != 0 {
		t.Fatalf("advance without flip changed state: %+v", same)
	}

	next := s.Flip().Advance(3)
	if next.Index != 1 || next.Flipped {
		t.Fatalf("after rating: index %d flipped %v", next.Index, next.Flipped)
	}
	if next.Stats.CardsStudied != 1 || next.Stats.Ratings[3] != 1 {
		t.Fatalf("stats = %+v", next.Stats)
	}
	if s.Index != 0 {
		t.Fatal("original state was mutated")
	}
}

func TestSessionRunsToCompletion(t *testing.T) {
	s := New("cardiology", []int{1, 2, 3}, NewRand(7), start)
	for _, r := range []int{4, 1, 3} {
		s = s.Flip().Advance(r)
	}

	if !s.Done() || s.Remaining() != 0 {
		t.Fatalf("expected done, remaining %d", s.Remaining())
	}
	if _, ok := s.Current(); ok {
		t.Fatal("Current should report no card once done")
	}
	if flipped := s.Flip(); flipped.Flipped {
		t.Fatal("Flip on finished session should do nothing")
	}

	sum := s.Summary(start.Add(95 * time.Second))
	if sum.CardsStudied != 3 || sum.Correct != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if got := FormatElapsed(sum.Elapsed); got != "1:35" {
		t.Fatalf("FormatElapsed = %q, want 1:35", got)
	}
}

func TestPreviousAndReset(t *testing.T) {
	s := New("neurology", []int{1, 2, 3, 4}, NewRand(3), start)
	first, _ := s.Current()

	s = s.Flip().Advance(2).Previous()
	if got, _ := s.Current(); got != first {
		t.Fatalf("Previous returned to %d, want %d", got, first)
	}
	if s.Stats.CardsStudied != 1 {
		t.Fatal("Previous should not undo stats")
	}
	if s.Previous().Index != 0 {
		t.Fatal("Previous at first card should stay put")
	}

	later := start.Add(time.Minute)
	r := s.Reset(NewRand(3), later)
	if r.Index != 0 || r.Stats.CardsStudied != 0 || !r.Stats.StartedAt.Equal(later) {
		t.Fatalf("reset state = %+v", r)
	}
	if r.ID != s.ID || len(r.Order) != 4 {
		t.Fatalf("reset changed identity or size: %+v", r)
	}
}

func TestProgress(t *testing.T) {
	s := New("neurology", []int{1, 2}, NewRand(1), start)
	if pos, total := s.Progress(); pos != 1 || total != 2 {
		t.Fatalf("Progress = %d/%d", pos, total)
	}
	s = s.Flip().Advance(3).Flip().Advance(3)
	if pos, total := s.Progress(); pos != 2 || total != 2 {
		t.Fatalf("Progress at end = %d/%d", pos, total)
	}
}
