package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DeckActivity aggregates the review log and quiz results of one deck
type DeckActivity struct {
	DeckID       string
	TotalReviews int
	Ratings      map[int]int // rating value -> count
	Quizzes      int
	AvgPercent   float64
	BestPercent  int
}

// StatisticsRepository computes aggregates over the review log and quiz results
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// DeckActivity returns the rating counts and quiz scores recorded for a deck
func (r *StatisticsRepository) DeckActivity(ctx context.Context, deckID string) (*DeckActivity, error) {
	activity := &DeckActivity{DeckID: deckID, Ratings: make(map[int]int)}

	var ratings []struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	query := r.db.Rebind("SELECT rating, COUNT(*) AS count FROM review_log WHERE deck_id = ? GROUP BY rating")
	if err := r.db.SelectContext(ctx, &ratings, query, deckID); err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	for _, row := range ratings {
		activity.Ratings[row.Rating] = row.Count
		activity.TotalReviews += row.Count
	}

	var quiz struct {
		Count int     `db:"count"`
		Avg   float64 `db:"avg_percent"`
		Best  int     `db:"best_percent"`
	}
	query = r.db.Rebind(`
		SELECT COUNT(*) AS count,
			COALESCE(AVG(percent), 0) AS avg_percent,
			COALESCE(MAX(percent), 0) AS best_percent
		FROM quiz_results
		WHERE deck_id = ?
	`)
	if err := r.db.GetContext(ctx, &quiz, query, deckID); err != nil {
		return nil, fmt.Errorf("failed to aggregate quiz results: %w", err)
	}
	activity.Quizzes = quiz.Count
	activity.AvgPercent = quiz.Avg
	activity.BestPercent = quiz.Best

	return activity, nil
}
