package dto

import (
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

// CreateCourseSlotRequest adds a weekly meeting to a course.
type CreateCourseSlotRequest struct {
	Term        string `json:"term" validate:"required"`
	StartTimeID int    `json:"start_time_id" validate:"min=0"`
	EndTimeID   int    `json:"end_time_id" validate:"min=0"`
}

// CourseSlotListResponse wraps the slots of a course.
type CourseSlotListResponse struct {
	Slots []models.CourseSlot `json:"slots"`
}

// CourseSlotResponse wraps a single stored slot.
type CourseSlotResponse struct {
	Slot *models.CourseSlot `json:"slot"`
}

// TimeSlotCatalog describes the id scheme so clients can build pickers without hardcoding it.
type TimeSlotCatalog struct {
	Days        []timeslot.Day  `json:"days"`
	Hours       []timeslot.Hour `json:"hours"`
	HoursPerDay int             `json:"hours_per_day"`
	MaxID       int             `json:"max_id"`
}

// DecodedTimeSlot is the strict decoding of one id.
type DecodedTimeSlot struct {
	ID   int    `json:"id"`
	Day  string `json:"day"`
	Hour string `json:"hour"`
}
