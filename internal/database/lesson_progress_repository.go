package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/internal/playlist"
)

var _ playlist.Store = (*LessonProgressRepository)(nil)

// LessonProgressRepository stores the resume point and watched flags of each course
type LessonProgressRepository struct {
	db *sqlx.DB
}

// NewLessonProgressRepository creates a new repository instance
func NewLessonProgressRepository(db *sqlx.DB) *LessonProgressRepository {
	return &LessonProgressRepository{db: db}
}

// Get returns the saved progress of a course, or nil if it was never saved
func (r *LessonProgressRepository) Get(ctx context.Context, courseID string) (*playlist.Progress, error) {
	var lastIndex int
	query := r.db.Rebind("SELECT last_index FROM course_progress WHERE course_id = ?")
	err := r.db.GetContext(ctx, &lastIndex, query, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}

	var rows []struct {
		LessonID  int  `db:"lesson_id"`
		Completed bool `db:"completed"`
	}
	query = r.db.Rebind("SELECT lesson_id, completed FROM lesson_progress WHERE course_id = ?")
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	progress := &playlist.Progress{LastIndex: lastIndex, Completed: make(map[int]bool, len(rows))}
	for _, row := range rows {
		progress.Completed[row.LessonID] = row.Completed
	}
	return progress, nil
}

// Put replaces the saved progress of a course
func (r *LessonProgressRepository) Put(ctx context.Context, courseID string, progress playlist.Progress) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO course_progress (course_id, last_index) VALUES (?, ?)
		ON CONFLICT (course_id) DO UPDATE SET last_index = excluded.last_index
	`)
	if _, err := tx.ExecContext(ctx, query, courseID, progress.LastIndex); err != nil {
		return fmt.Errorf("failed to save course progress: %w", err)
	}

	query = tx.Rebind(`
		INSERT INTO lesson_progress (course_id, lesson_id, completed) VALUES (?, ?, ?)
		ON CONFLICT (course_id, lesson_id) DO UPDATE SET completed = excluded.completed
	`)
	for lessonID, completed := range progress.Completed {
		if _, err := tx.ExecContext(ctx, query, courseID, lessonID, completed); err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lesson progress: %w", err)
	}
	return nil
}
