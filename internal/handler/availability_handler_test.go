package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
	"github.com/uniportal/portal-api/pkg/config"
	"github.com/uniportal/portal-api/pkg/response"
)

type entrySourceFake struct{ rows []models.AvailabilityEntryRow }

func (f *entrySourceFake) ListEntriesForAvailability(ctx context.Context, semesterID string, days []int) ([]models.AvailabilityEntryRow, error) {
	return f.rows, nil
}

type classroomListerFake struct{ rooms []models.Classroom }

func (f classroomListerFake) ListActive(ctx context.Context) ([]models.Classroom, error) {
	return f.rooms, nil
}

type semesterCurrentFake struct{ current *models.Semester }

func (f semesterCurrentFake) FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error) {
	if f.current == nil {
		return nil, sql.ErrNoRows
	}
	return f.current, nil
}

func newAvailabilityHandlerFixture(rows []models.AvailabilityEntryRow) *AvailabilityHandler {
	svc := service.NewAvailabilityService(
		&entrySourceFake{rows: rows},
		classroomListerFake{rooms: []models.Classroom{{ID: "room-1", RoomName: "101"}}},
		semesterCurrentFake{current: &models.Semester{ID: "sem-1"}},
		nil,
		nil,
		config.AvailabilityConfig{},
		nil,
	)
	return NewAvailabilityHandler(svc)
}

func TestAvailabilityHandlerCheckAt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	start, _ := models.ParseClockTime("08:00")
	end, _ := models.ParseClockTime("09:30")
	handler := newAvailabilityHandlerFixture([]models.AvailabilityEntryRow{{
		EntryID:     "e-1",
		ScheduleID:  "sched-1",
		DayOfWeek:   1,
		StartTime:   start,
		EndTime:     end,
		ClassroomID: "room-1",
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classrooms/availability?day=1&time=08:30", nil)
	c.Request = req

	handler.Check(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	classrooms := data["classrooms"].([]interface{})
	require.Len(t, classrooms, 1)
	room := classrooms[0].(map[string]interface{})
	assert.Equal(t, true, room["is_occupied"])
}

func TestAvailabilityHandlerRejectsPartialInstant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAvailabilityHandlerFixture(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classrooms/availability?day=1", nil)
	c.Request = req

	handler.Check(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerRejectsBadTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAvailabilityHandlerFixture(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classrooms/availability?day=1&time=25:99", nil)
	c.Request = req

	handler.Check(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
