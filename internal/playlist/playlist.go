// Package playlist tracks which lessons of a course were watched and where
// the learner left off. Playback itself is not handled here.
package playlist

import (
	"math"

	"github.com/example/medlearn/pkg/models"
)

// Progress is what gets persisted per course
type Progress struct {
	LastIndex int          `json:"lastIndex"`
	Completed map[int]bool `json:"completed"` // lesson id -> completed
}

// Overall is the course completion shown above the playlist
type Overall struct {
	Completed int
	Total     int
	Percent   int
}

// Playlist is a course's lessons with their completion flags and the
// current position. Transitions return a new Playlist.
type Playlist struct {
	CourseID  string
	Lessons   []models.Lesson
	Completed map[int]bool
	Current   int
}

// Load restores a playlist from saved progress. A nil saved starts at the
// first lesson. The resume point is clamped to the playlist, and flags for
// lessons no longer in the playlist are dropped.
func Load(courseID string, lessons []models.Lesson, saved *Progress) Playlist {
	p := Playlist{CourseID: courseID, Lessons: lessons, Completed: make(map[int]bool, len(lessons))}
	if saved == nil {
		return p
	}

	for _, l := range lessons {
		if saved.Completed[l.ID] {
			p.Completed[l.ID] = true
		}
	}
	p.Current = saved.LastIndex
	if p.Current > len(lessons)-1 {
		p.Current = len(lessons) - 1
	}
	if p.Current < 0 {
		p.Current = 0
	}
	return p
}

// CurrentLesson returns the selected lesson, if the playlist has any
func (p Playlist) CurrentLesson() (models.Lesson, bool) {
	if p.Current < 0 || p.Current >= len(p.Lessons) {
		return models.Lesson{}, false
	}
	return p.Lessons[p.Current], true
}

// Select moves to lesson index. Out of range indexes are ignored.
func (p Playlist) Select(index int) (Playlist, bool) {
	if index < 0 || index >= len(p.Lessons) {
		return p, false
	}
	p.Current = index
	return p, true
}

// MarkCompleted flags lesson index as watched. It reports whether anything changed.
func (p Playlist) MarkCompleted(index int) (Playlist, bool) {
	if index < 0 || index >= len(p.Lessons) {
		return p, false
	}
	id := p.Lessons[index].ID
	if p.Completed[id] {
		return p, false
	}

	completed := make(map[int]bool, len(p.Completed)+1)
	for k, v := range p.Completed {
		completed[k] = v
	}
	completed[id] = true
	p.Completed = completed
	return p, true
}

// Finish marks the current lesson watched and moves on to the next one.
// On the last lesson the position stays put.
func (p Playlist) Finish() Playlist {
	p, _ = p.MarkCompleted(p.Current)
	if p.Current < len(p.Lessons)-1 {
		p.Current++
	}
	return p
}

// IsCompleted reports whether lesson index was watched
func (p Playlist) IsCompleted(index int) bool {
	return index >= 0 && index < len(p.Lessons) && p.Completed[p.Lessons[index].ID]
}

// Overall counts watched lessons. An empty playlist is 0% complete.
func (p Playlist) Overall() Overall {
	o := Overall{Total: len(p.Lessons)}
	for i := range p.Lessons {
		if p.IsCompleted(i) {
			o.Completed++
		}
	}
	if o.Total > 0 {
		o.Percent = int(math.Round(float64(o.Completed) / float64(o.Total) * 100))
	}
	return o
}

// Progress returns the state to persist
func (p Playlist) Progress() Progress {
	completed := make(map[int]bool, len(p.Lessons))
	for _, l := range p.Lessons {
		completed[l.ID] = p.Completed[l.ID]
	}
	return Progress{LastIndex: p.Current, Completed: completed}
}
