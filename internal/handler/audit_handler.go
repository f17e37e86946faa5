package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/service"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/response"
)

// AuditHandler exposes the audit trail for administrators.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// History godoc
// @Summary List the audit trail for one entity
// @Tags Audit
// @Produce json
// @Param entity_type query string true "Entity type, e.g. Schedule"
// @Param entity_id query string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "entity_type and entity_id are required"))
		return
	}
	records, err := h.service.History(c.Request.Context(), entityType, entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
