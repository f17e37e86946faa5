package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Timetable godoc
// @Summary Download the weekly timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param semester_id query string false "Filter by semester"
// @Param course_id query string false "Filter by course"
// @Success 200 {file} file
// @Router /exports/timetable [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	filter := models.ScheduleFilter{
		SemesterID: c.Query("semester_id"),
		CourseID:   c.Query("course_id"),
	}
	result, err := h.service.Timetable(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.DownloadToken != "" {
		c.Header("X-Download-Token", result.DownloadToken)
		c.Header("X-Download-Expires", result.LinkExpiresAt.UTC().Format(time.RFC3339))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Payload)
}

// Download godoc
// @Summary Download an archived timetable via a signed link
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "download token required"))
		return
	}
	result, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Payload)
}
