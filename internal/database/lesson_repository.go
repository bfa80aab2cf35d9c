package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/medlearn/pkg/models"
)

// CourseSummary is a course with its lesson count
type CourseSummary struct {
	CourseID string `db:"course_id"`
	Lessons  int    `db:"lessons"`
}

// LessonRepository handles database operations for course playlists
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new repository instance
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create appends a lesson to the end of its course playlist
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	var next int
	query := r.db.Rebind("SELECT COALESCE(MAX(id), 0) + 1 FROM lessons WHERE course_id = ?")
	if err := r.db.GetContext(ctx, &next, query, lesson.CourseID); err != nil {
		return fmt.Errorf("failed to allocate lesson id: %w", err)
	}
	lesson.ID = next

	query = r.db.Rebind(`
		INSERT INTO lessons (course_id, id, title, filename, duration_seconds)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, lesson.CourseID, lesson.ID, lesson.Title, lesson.Filename, lesson.DurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

// GetByCourse returns a course's lessons in playlist order
func (r *LessonRepository) GetByCourse(ctx context.Context, courseID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	query := r.db.Rebind(`
		SELECT course_id, id, title, filename, duration_seconds
		FROM lessons
		WHERE course_id = ?
		ORDER BY id
	`)
	if err := r.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	return lessons, nil
}

// Courses lists every course that has lessons
func (r *LessonRepository) Courses(ctx context.Context) ([]CourseSummary, error) {
	var courses []CourseSummary
	err := r.db.SelectContext(ctx, &courses,
		"SELECT course_id, COUNT(*) AS lessons FROM lessons GROUP BY course_id ORDER BY course_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}
