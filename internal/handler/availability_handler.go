package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/response"
)

// AvailabilityHandler handles classroom availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs an availability handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Check godoc
// @Summary Check classroom availability
// @Description Evaluates occupancy for every active classroom, at the current instant by default or at an explicit day and time.
// @Tags Availability
// @Produce json
// @Param day query int false "Day of week, 1=Monday..7=Sunday"
// @Param time query string false "Wall-clock time HH:MM"
// @Success 200 {object} response.Envelope
// @Router /classrooms/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	rawDay := c.Query("day")
	rawTime := c.Query("time")

	var snapshot *models.AvailabilitySnapshot
	var err error
	if rawDay == "" && rawTime == "" {
		snapshot, err = h.service.CheckNow(c.Request.Context())
	} else {
		if rawDay == "" || rawTime == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day and time must be provided together"))
			return
		}
		day, convErr := strconv.Atoi(rawDay)
		if convErr != nil {
			response.Error(c, appErrors.Wrap(convErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day"))
			return
		}
		at, parseErr := models.ParseClockTime(rawTime)
		if parseErr != nil {
			response.Error(c, appErrors.Wrap(parseErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time, expected HH:MM"))
			return
		}
		snapshot, err = h.service.CheckAt(c.Request.Context(), day, at, time.Now().UTC())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
