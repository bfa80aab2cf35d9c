// Package quiz builds multiple-choice quizzes from flashcards and scores them.
package quiz

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/example/medlearn/pkg/models"
)

var (
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrNoQuestion      = errors.New("quiz: no current question")
	ErrBadOption       = errors.New("quiz: option out of range")
	ErrTimeUp          = errors.New("quiz: time limit reached")
)

const unanswered = -1

// Question is a single multiple-choice question built from a card
type Question struct {
	CardID       int
	Prompt       string
	Options      []string
	CorrectIndex int
	Category     string
}

// Build creates up to count questions from cards. Each question offers the
// card's answer plus optionCount-1 distractors, taken from the same category
// first and from other cards after that.
func Build(cards []models.Card, count, optionCount int, rnd *rand.Rand) []Question {
	pool := make([]models.Card, len(cards))
	copy(pool, cards)
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > 0 && len(pool) > count {
		pool = pool[:count]
	}

	questions := make([]Question, 0, len(pool))
	for _, card := range pool {
		options := append(distractors(card, cards, optionCount-1, rnd), card.Answer)
		correctIndex := len(options) - 1

		rnd.Shuffle(len(options), func(i, j int) {
			if i == correctIndex {
				correctIndex = j
			} else if j == correctIndex {
				correctIndex = i
			}
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, Question{
			CardID:       card.ID,
			Prompt:       card.Question,
			Options:      options,
			CorrectIndex: correctIndex,
			Category:     card.Category,
		})
	}
	return questions
}

// FilterCategory returns the cards in category, compared case-insensitively.
// An empty category or "all" keeps every card.
func FilterCategory(cards []models.Card, category string) []models.Card {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return cards
	}
	var out []models.Card
	for _, c := range cards {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

// distractors picks up to n wrong answers for card
func distractors(card models.Card, all []models.Card, n int, rnd *rand.Rand) []string {
	var same, other []string
	seen := map[string]bool{card.Answer: true}
	for _, c := range all {
		if c.ID == card.ID || seen[c.Answer] {
			continue
		}
		seen[c.Answer] = true
		if c.Category == card.Category {
			same = append(same, c.Answer)
		} else {
			other = append(other, c.Answer)
		}
	}
	rnd.Shuffle(len(same), func(i, j int) { same[i], same[j] = same[j], same[i] })
	rnd.Shuffle(len(other), func(i, j int) { other[i], other[j] = other[j], other[i] })

	if n < 0 {
		n = 0
	}
	out := make([]string, 0, n)
	for _, group := range [][]string{same, other} {
		for _, a := range group {
			if len(out) == n {
				return out
			}
			out = append(out, a)
		}
	}
	return out
}

// State is an in-progress quiz. Transitions return a new State.
type State struct {
	Questions []Question
	Answers   []int
	Current   int
	StartedAt time.Time
	TimeLimit time.Duration // zero means untimed
}

// Start begins a quiz over questions
func Start(questions []Question, now time.Time, limit time.Duration) State {
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = unanswered
	}
	return State{Questions: questions, Answers: answers, StartedAt: now, TimeLimit: limit}
}

// Answer records the chosen option for the current question. Each question
// can be answered once.
func (s State) Answer(option int, now time.Time) (State, bool, error) {
	if s.Current >= len(s.Questions) {
		return s, false, ErrNoQuestion
	}
	if s.Expired(now) {
		return s, false, ErrTimeUp
	}
	q := s.Questions[s.Current]
	if option < 0 || option >= len(q.Options) {
		return s, false, ErrBadOption
	}
	if s.Answers[s.Current] != unanswered {
		return s, false, ErrAlreadyAnswered
	}

	answers := make([]int, len(s.Answers))
	copy(answers, s.Answers)
	answers[s.Current] = option
	s.Answers = answers
	return s, option == q.CorrectIndex, nil
}

// Next moves to the following question. Moving past the last one finishes the quiz.
func (s State) Next() State {
	if s.Current < len(s.Questions) {
		s.Current++
	}
	return s
}

// Prev moves back one question
func (s State) Prev() State {
	if s.Current > 0 {
		s.Current--
	}
	return s
}

// Finished reports whether the learner moved past the last question
func (s State) Finished() bool {
	return s.Current >= len(s.Questions)
}

// Remaining returns the time left on a timed quiz, or zero
func (s State) Remaining(now time.Time) time.Duration {
	if s.TimeLimit <= 0 {
		return 0
	}
	left := s.TimeLimit - now.Sub(s.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a timed quiz ran out of time
func (s State) Expired(now time.Time) bool {
	return s.TimeLimit > 0 && now.Sub(s.StartedAt) >= s.TimeLimit
}

// Missed starts an untimed retry over the questions answered incorrectly.
// Unanswered questions are not included. The result has no questions when
// every answer was right.
func (s State) Missed(now time.Time) State {
	var missed []Question
	for i, q := range s.Questions {
		if s.Answers[i] != unanswered && s.Answers[i] != q.CorrectIndex {
			missed = append(missed, q)
		}
	}
	return Start(missed, now, 0)
}

// CategoryScore is the per-category part of a Result
type CategoryScore struct {
	Correct int
	Total   int
}

// Result summarizes a quiz
type Result struct {
	Total      int
	Correct    int
	Incorrect  int
	Percent    int
	AvgSeconds int
	Elapsed    time.Duration
	ByCategory map[string]CategoryScore
	Verdict    string
}

// Result scores the quiz as of now. Unanswered questions count as incorrect.
func (s State) Result(now time.Time) Result {
	r := Result{
		Total:      len(s.Questions),
		ByCategory: make(map[string]CategoryScore),
	}

	for i, q := range s.Questions {
		cs := r.ByCategory[q.Category]
		cs.Total++
		if s.Answers[i] == q.CorrectIndex {
			r.Correct++
			cs.Correct++
		}
		r.ByCategory[q.Category] = cs
	}
	r.Incorrect = r.Total - r.Correct

	r.Elapsed = now.Sub(s.StartedAt)
	if r.Elapsed < 0 {
		r.Elapsed = 0
	}
	if r.Total > 0 {
		r.Percent = int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
		r.AvgSeconds = int(math.Round(r.Elapsed.Seconds() / float64(r.Total)))
	}
	r.Verdict = Verdict(r.Percent)
	return r
}

// Verdict returns the closing message for a score
func Verdict(percent int) string {
	switch {
	case percent >= 80:
		return "Excellent work!"
	case percent >= 60:
		return "Good job! Keep learning!"
	default:
		return "Keep practicing! You'll get there!"
	}
}
