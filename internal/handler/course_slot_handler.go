package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/service"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
	"github.com/noah-isme/course-admin-api/pkg/response"
)

type courseSlotService interface {
	List(ctx context.Context, courseID, term string) ([]models.CourseSlot, error)
	Create(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error)
	Delete(ctx context.Context, courseID, slotID, term string) error
}

type timetableExporter interface {
	Timetable(ctx context.Context, courseID, term, format string) (*service.ExportResult, error)
}

// CourseSlotHandler exposes the weekly slots of a course.
type CourseSlotHandler struct {
	slots  courseSlotService
	export timetableExporter
}

// NewCourseSlotHandler constructs a course slot handler.
func NewCourseSlotHandler(slots courseSlotService, export timetableExporter) *CourseSlotHandler {
	return &CourseSlotHandler{slots: slots, export: export}
}

// List godoc
// @Summary List course slots
// @Tags Course Slots
// @Produce json
// @Param id path string true "Course ID"
// @Param term query string false "Term, defaults to the course term"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/slots [get]
func (h *CourseSlotHandler) List(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context(), c.Param("id"), c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CourseSlotListResponse{Slots: slots}, nil)
}

// Create godoc
// @Summary Add a slot to a course
// @Tags Course Slots
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CreateCourseSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id}/slots [post]
func (h *CourseSlotHandler) Create(c *gin.Context) {
	var req dto.CreateCourseSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.slots.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CourseSlotResponse{Slot: slot})
}

// Delete godoc
// @Summary Remove a slot from a course
// @Tags Course Slots
// @Param id path string true "Course ID"
// @Param slotId path string true "Slot ID"
// @Param term query string false "Term"
// @Success 204
// @Router /courses/{id}/slots/{slotId} [delete]
func (h *CourseSlotHandler) Delete(c *gin.Context) {
	if err := h.slots.Delete(c.Request.Context(), c.Param("id"), c.Param("slotId"), c.Query("term")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the weekly timetable of a course
// @Tags Course Slots
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param term query string false "Term"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /courses/{id}/slots/export [get]
func (h *CourseSlotHandler) Export(c *gin.Context) {
	result, err := h.export.Timetable(c.Request.Context(), c.Param("id"), c.Query("term"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
