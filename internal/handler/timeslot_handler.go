package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
	"github.com/noah-isme/course-admin-api/pkg/response"
)

// TimeSlotHandler serves the slot id scheme.
type TimeSlotHandler struct {
	codec *timeslot.Codec
}

// NewTimeSlotHandler constructs a time slot handler.
func NewTimeSlotHandler(codec *timeslot.Codec) *TimeSlotHandler {
	if codec == nil {
		codec = timeslot.NewDefaultCodec()
	}
	return &TimeSlotHandler{codec: codec}
}

// Catalog godoc
// @Summary Describe the time slot id scheme
// @Tags Time Slots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslots [get]
func (h *TimeSlotHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.TimeSlotCatalog{
		Days:        h.codec.Days(),
		Hours:       h.codec.Hours(),
		HoursPerDay: h.codec.HoursPerDay(),
		MaxID:       h.codec.MaxID(),
	}, nil)
}

// Decode godoc
// @Summary Decode one time slot id
// @Tags Time Slots
// @Produce json
// @Param id path int true "Time slot ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timeslots/{id} [get]
func (h *TimeSlotHandler) Decode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "time slot id must be an integer"))
		return
	}
	slot, err := h.codec.DecodeStrict(id)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrOutOfRange.Code, appErrors.ErrOutOfRange.Status, appErrors.ErrOutOfRange.Message))
		return
	}
	response.JSON(c, http.StatusOK, dto.DecodedTimeSlot{ID: id, Day: slot.Day, Hour: slot.Hour}, nil)
}
