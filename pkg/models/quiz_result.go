package models

import "time"

// QuizResult tracks the outcome of a finished multiple-choice quiz
type QuizResult struct {
	ID              int64     `json:"id" db:"id"`
	SessionID       string    `json:"session_id" db:"session_id"`
	DeckID          string    `json:"deck_id" db:"deck_id"`
	Total           int       `json:"total" db:"total"`
	Correct         int       `json:"correct" db:"correct"`
	Percent         int       `json:"percent" db:"percent"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	TakenAt         time.Time `json:"taken_at" db:"taken_at"`
}
