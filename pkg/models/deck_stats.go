package models

// DeckStats counts a deck's cards by learning category
type DeckStats struct {
	DeckID   string `json:"deck_id"`
	New      int    `json:"new"`
	Review   int    `json:"review"`
	Mastered int    `json:"mastered"`
	Total    int    `json:"total"`
}
