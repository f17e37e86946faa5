package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/service"
)

type cancellationRepoFake struct {
	existing map[string]bool
	created  []*models.CanceledClass
}

func (f *cancellationRepoFake) Create(ctx context.Context, canceled *models.CanceledClass) error {
	canceled.ID = "cancel-1"
	f.created = append(f.created, canceled)
	return nil
}

func (f *cancellationRepoFake) Exists(ctx context.Context, entryID string, date time.Time) (bool, error) {
	return f.existing[entryID], nil
}

func (f *cancellationRepoFake) ListByEntry(ctx context.Context, entryID string) ([]models.CanceledClass, error) {
	return nil, nil
}

func (f *cancellationRepoFake) SoftDelete(ctx context.Context, id string) error {
	return nil
}

type entryFinderFake struct{ known map[string]bool }

func (f entryFinderFake) FindEntryByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	if f.known[id] {
		return &models.ScheduleEntry{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func newCancellationHandlerFixture(repo *cancellationRepoFake) *CancellationHandler {
	svc := service.NewCancellationService(repo, entryFinderFake{known: map[string]bool{"entry-1": true}}, &auditFake{}, nil, nil)
	return NewCancellationHandler(svc)
}

func TestCancellationHandlerCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &cancellationRepoFake{existing: map[string]bool{}}
	handler := newCancellationHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"schedule_entry_id":"entry-1","date":"2026-09-07","reason":"public holiday"}`)
	req, _ := http.NewRequest(http.MethodPost, "/cancellations", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Cancel(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "entry-1", repo.created[0].ScheduleEntryID)
}

func TestCancellationHandlerCancelDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &cancellationRepoFake{existing: map[string]bool{"entry-1": true}}
	handler := newCancellationHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"schedule_entry_id":"entry-1","date":"2026-09-07"}`)
	req, _ := http.NewRequest(http.MethodPost, "/cancellations", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Cancel(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, repo.created)
}

func TestCancellationHandlerCancelUnknownEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &cancellationRepoFake{existing: map[string]bool{}}
	handler := newCancellationHandlerFixture(repo)

	w := httptest.NewRecorder()
	c := adminContext(w)
	body := bytes.NewBufferString(`{"schedule_entry_id":"missing","date":"2026-09-07"}`)
	req, _ := http.NewRequest(http.MethodPost, "/cancellations", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Cancel(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
