package models

import "time"

// ReviewLog records one rating applied during a study session
type ReviewLog struct {
	ID         int64     `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	DeckID     string    `json:"deck_id" db:"deck_id"`
	CardID     int       `json:"card_id" db:"card_id"`
	Rating     int       `json:"rating" db:"rating"`
	Interval   int       `json:"interval" db:"interval_days"`
	EaseFactor float64   `json:"ease_factor" db:"ease_factor"`
	ReviewedAt time.Time `json:"reviewed_at" db:"reviewed_at"`
}
