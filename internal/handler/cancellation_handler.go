package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/service"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/response"
)

// CancellationHandler handles per-date class cancellation endpoints.
type CancellationHandler struct {
	service *service.CancellationService
}

// NewCancellationHandler constructs a cancellation handler.
func NewCancellationHandler(svc *service.CancellationService) *CancellationHandler {
	return &CancellationHandler{service: svc}
}

// Cancel godoc
// @Summary Cancel one occurrence of a schedule entry
// @Tags Cancellations
// @Accept json
// @Produce json
// @Param payload body service.CancelClassRequest true "Cancellation payload"
// @Success 201 {object} response.Envelope
// @Router /cancellations [post]
func (h *CancellationHandler) Cancel(c *gin.Context) {
	var req service.CancelClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	canceled, err := h.service.Cancel(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, canceled)
}

// ListByEntry godoc
// @Summary List cancellations for a schedule entry
// @Tags Cancellations
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-entries/{id}/cancellations [get]
func (h *CancellationHandler) ListByEntry(c *gin.Context) {
	canceled, err := h.service.ListByEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, canceled, nil)
}

// Revoke godoc
// @Summary Revoke a cancellation
// @Tags Cancellations
// @Produce json
// @Param id path string true "Cancellation ID"
// @Success 204
// @Router /cancellations/{id} [delete]
func (h *CancellationHandler) Revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
