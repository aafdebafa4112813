package models

import (
	"time"

	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

// CourseSlot is a weekly meeting of a course in a term. An empty ID marks a draft that has not
// been stored yet.
type CourseSlot struct {
	ID          string    `db:"id" json:"id,omitempty"`
	CourseID    string    `db:"course_id" json:"course_id,omitempty"`
	Term        string    `db:"term" json:"term,omitempty"`
	StartTimeID int       `db:"start_time_id" json:"start_time_id"`
	EndTimeID   int       `db:"end_time_id" json:"end_time_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Persisted reports whether the slot has been confirmed by the backend.
func (s CourseSlot) Persisted() bool {
	return s.ID != ""
}

// Range returns the slot's time range.
func (s CourseSlot) Range() timeslot.Range {
	return timeslot.Range{StartID: s.StartTimeID, EndID: s.EndTimeID}
}
