package dto

import "github.com/noah-isme/course-admin-api/internal/models"

// CourseRequest carries the editable course fields for create and update.
type CourseRequest struct {
	CourseCode    string `json:"course_code" validate:"required,max=32"`
	CourseName    string `json:"course_name" validate:"required,max=255"`
	SectionName   string `json:"section_name" validate:"max=64"`
	Faculty       string `json:"faculty" validate:"max=255"`
	Term          string `json:"term" validate:"required,max=32"`
	Lecturer      string `json:"lecturer" validate:"max=255"`
	Credits       int    `json:"credits" validate:"min=0,max=30"`
	Prerequisites string `json:"prerequisites"`
	Corequisites  string `json:"corequisites"`
	Description   string `json:"description"`
}

// CourseListResponse wraps the course list.
type CourseListResponse struct {
	Courses []models.Course `json:"courses"`
}

// CourseResponse wraps a single course.
type CourseResponse struct {
	Course *models.Course `json:"course"`
}

// TermListResponse wraps the distinct term names.
type TermListResponse struct {
	Terms []string `json:"terms"`
}
