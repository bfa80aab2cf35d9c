package models

import "time"

// Deck groups cards of one subject, e.g. "neurology"
type Deck struct {
	ID        string    `json:"id" db:"id"` // Slug used as the progress key
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
