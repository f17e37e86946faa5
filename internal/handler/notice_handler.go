package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/response"
)

// NoticeHandler handles announcement board endpoints.
type NoticeHandler struct {
	service *service.NoticeService
}

// NewNoticeHandler constructs a notice handler.
func NewNoticeHandler(svc *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: svc}
}

// List godoc
// @Summary List notices
// @Tags Notices
// @Produce json
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	var filter models.NoticeFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	notices, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, pagination)
}

// Get godoc
// @Summary Get notice by id
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Envelope
// @Router /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	notice, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Create godoc
// @Summary Publish a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param payload body service.NoticeRequest true "Notice payload"
// @Success 201 {object} response.Envelope
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var req service.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	notice, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// Update godoc
// @Summary Update notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param id path string true "Notice ID"
// @Param payload body service.NoticeRequest true "Notice payload"
// @Success 200 {object} response.Envelope
// @Router /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	var req service.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	notice, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Delete godoc
// @Summary Delete notice
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 204
// @Router /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	if err := h.service.SoftDelete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Activate godoc
// @Summary Restore a soft-deleted notice
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 204
// @Router /notices/{id}/activate [post]
func (h *NoticeHandler) Activate(c *gin.Context) {
	if err := h.service.Activate(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
