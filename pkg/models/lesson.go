package models

// Lesson is one video in a course playlist. IDs are assigned per course in
// playlist order.
type Lesson struct {
	ID              int    `json:"id" db:"id"`
	CourseID        string `json:"course_id" db:"course_id"`
	Title           string `json:"title" db:"title"`
	Filename        string `json:"filename" db:"filename"`
	DurationSeconds int    `json:"duration_seconds" db:"duration_seconds"`
}
