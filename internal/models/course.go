package models

import "time"

// Course is one section of a course offered in a term.
type Course struct {
	ID            string    `db:"id" json:"id"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	CourseName    string    `db:"course_name" json:"course_name"`
	SectionName   string    `db:"section_name" json:"section_name"`
	Faculty       string    `db:"faculty" json:"faculty"`
	Term          string    `db:"term" json:"term"`
	Lecturer      string    `db:"lecturer" json:"lecturer"`
	Credits       int       `db:"credits" json:"credits"`
	Prerequisites string    `db:"prerequisites" json:"prerequisites"`
	Corequisites  string    `db:"corequisites" json:"corequisites"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter defines filters supported by the course list endpoint.
type CourseFilter struct {
	Search    string
	Term      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
