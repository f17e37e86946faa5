package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type semesterRepoStub struct {
	semesters map[string]*models.Semester
	current   *models.Semester
	created   []*models.Semester
	updated   []*models.Semester
	deleted   []string
	activated []string
}

func (s *semesterRepoStub) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error) {
	var out []models.Semester
	for _, semester := range s.semesters {
		out = append(out, *semester)
	}
	return out, len(out), nil
}

func (s *semesterRepoStub) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	if semester, ok := s.semesters[id]; ok {
		return semester, nil
	}
	return nil, sql.ErrNoRows
}

func (s *semesterRepoStub) FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error) {
	if s.current != nil {
		return s.current, nil
	}
	return nil, sql.ErrNoRows
}

func (s *semesterRepoStub) Create(ctx context.Context, semester *models.Semester) error {
	semester.ID = "sem-new"
	s.created = append(s.created, semester)
	return nil
}

func (s *semesterRepoStub) Update(ctx context.Context, semester *models.Semester) error {
	s.updated = append(s.updated, semester)
	return nil
}

func (s *semesterRepoStub) SoftDelete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *semesterRepoStub) Activate(ctx context.Context, id string) error {
	if _, ok := s.semesters[id]; !ok {
		return sql.ErrNoRows
	}
	s.activated = append(s.activated, id)
	return nil
}

func TestSemesterServiceCreate(t *testing.T) {
	repo := &semesterRepoStub{semesters: map[string]*models.Semester{}}
	svc := NewSemesterService(repo, &auditStub{}, nil, nil)

	created, err := svc.Create(context.Background(), SemesterRequest{
		Name:      "Fall 2026",
		StartDate: "2026-09-01",
		EndDate:   "2026-12-20",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sem-new", created.ID)
	assert.True(t, created.EndDate.After(created.StartDate))
}

func TestSemesterServiceCreateRejectsInvertedWindow(t *testing.T) {
	repo := &semesterRepoStub{semesters: map[string]*models.Semester{}}
	svc := NewSemesterService(repo, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), SemesterRequest{
		Name:      "Backwards",
		StartDate: "2026-12-20",
		EndDate:   "2026-09-01",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestSemesterServiceGetCurrent(t *testing.T) {
	repo := &semesterRepoStub{current: &models.Semester{ID: "sem-1", Name: "Fall 2026"}}
	svc := NewSemesterService(repo, &auditStub{}, nil, nil)

	current, err := svc.GetCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sem-1", current.ID)
}

func TestSemesterServiceGetCurrentNone(t *testing.T) {
	svc := NewSemesterService(&semesterRepoStub{semesters: map[string]*models.Semester{}}, &auditStub{}, nil, nil)

	_, err := svc.GetCurrent(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceActivateUnknown(t *testing.T) {
	svc := NewSemesterService(&semesterRepoStub{semesters: map[string]*models.Semester{}}, &auditStub{}, nil, nil)

	err := svc.Activate(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
