package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/pkg/response"
)

type termLister interface {
	List(ctx context.Context) ([]string, error)
}

// TermHandler lists the terms courses are offered in.
type TermHandler struct {
	service termLister
}

// NewTermHandler constructs a term handler.
func NewTermHandler(svc termLister) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List terms
// @Tags Terms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TermListResponse{Terms: terms}, nil)
}
