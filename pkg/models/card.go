package models

// Card is a single flashcard belonging to a deck
type Card struct {
	ID       int    `json:"id" db:"id"`
	DeckID   string `json:"deck_id" db:"deck_id"`
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
	Category string `json:"category" db:"category"`
}
