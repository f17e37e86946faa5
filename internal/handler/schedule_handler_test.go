package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/middleware"
	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
	"github.com/uniportal/portal-api/pkg/response"
)

type scheduleRepoFake struct {
	schedule *models.Schedule
	entries  []models.ScheduleEntry
	inserted []models.ScheduleEntry
	updated  []string
	deleted  []string
	removed  []string
}

func (f *scheduleRepoFake) InTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	return fn(nil)
}

func (f *scheduleRepoFake) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = "sched-1"
	return nil
}

func (f *scheduleRepoFake) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if f.schedule != nil && f.schedule.ID == id {
		return f.schedule, nil
	}
	return nil, sql.ErrNoRows
}

func (f *scheduleRepoFake) ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error) {
	return nil, 0, nil
}

func (f *scheduleRepoFake) ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	return f.entries, nil
}

func (f *scheduleRepoFake) InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	f.inserted = append(f.inserted, entries...)
	return nil
}

func (f *scheduleRepoFake) UpdateEntryTimes(ctx context.Context, exec sqlx.ExtContext, entryID string, start, end models.ClockTime) error {
	f.updated = append(f.updated, entryID)
	return nil
}

func (f *scheduleRepoFake) SoftDeleteEntries(ctx context.Context, exec sqlx.ExtContext, entryIDs []string) error {
	f.deleted = append(f.deleted, entryIDs...)
	return nil
}

func (f *scheduleRepoFake) UpdateBinding(ctx context.Context, exec sqlx.ExtContext, scheduleID, courseID, classroomID string) error {
	return nil
}

func (f *scheduleRepoFake) SoftDelete(ctx context.Context, scheduleID string) error {
	f.removed = append(f.removed, scheduleID)
	return nil
}

type courseFake struct{ known map[string]bool }

func (f courseFake) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if f.known[id] {
		return &models.Course{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type classroomFake struct{ known map[string]bool }

func (f classroomFake) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if f.known[id] {
		return &models.Classroom{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type auditFake struct{ actions []string }

func (f *auditFake) Log(ctx context.Context, actorID *string, actionType, entityType, entityID string, details interface{}) {
	f.actions = append(f.actions, actionType)
}

type cacheFake struct{ patterns []string }

func (f *cacheFake) DeleteByPattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func newScheduleHandlerFixture(repo *scheduleRepoFake) *ScheduleHandler {
	svc := service.NewScheduleService(
		repo,
		courseFake{known: map[string]bool{"course-1": true}},
		classroomFake{known: map[string]bool{"room-1": true}},
		&auditFake{},
		&cacheFake{},
		nil,
		nil,
	)
	return NewScheduleHandler(svc)
}

func adminContext(w *httptest.ResponseRecorder) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	return c
}

func TestScheduleHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &scheduleRepoFake{}
	handler := newScheduleHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"course_id":"course-1","classroom_id":"room-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/schedules", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "sched-1", data["id"])
}

func TestScheduleHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture(&scheduleRepoFake{})

	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewBufferString(`{"course_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerReconcile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	start, _ := models.ParseClockTime("08:00")
	end, _ := models.ParseClockTime("09:30")
	repo := &scheduleRepoFake{
		schedule: &models.Schedule{ID: "sched-1", CourseID: "course-1", ClassroomID: "room-1"},
		entries: []models.ScheduleEntry{
			{ID: "e-mon", ScheduleID: "sched-1", DayOfWeek: 1, StartTime: start, EndTime: end},
		},
	}
	handler := newScheduleHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"course_id":"course-1","classroom_id":"room-1","days":[1,3],"start_time":"10:00","end_time":"11:30"}`)
	req, _ := http.NewRequest(http.MethodPut, "/schedules/sched-1", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.Reconcile(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"e-mon"}, repo.updated)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 3, repo.inserted[0].DayOfWeek)
	assert.Empty(t, repo.deleted)
}

func TestScheduleHandlerReconcileUnknownSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture(&scheduleRepoFake{})

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"course_id":"course-1","classroom_id":"room-1","days":[1],"start_time":"10:00","end_time":"11:30"}`)
	req, _ := http.NewRequest(http.MethodPut, "/schedules/missing", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Reconcile(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &scheduleRepoFake{schedule: &models.Schedule{ID: "sched-1", CourseID: "course-1", ClassroomID: "room-1"}}
	handler := newScheduleHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/schedules/sched-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"sched-1"}, repo.removed)
}
