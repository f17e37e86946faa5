package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type scheduleRepoStub struct {
	schedule   *models.Schedule
	findErr    error
	entries    []models.ScheduleEntry
	summaries  []models.ScheduleSummary
	total      int
	txErr      error
	created    []*models.Schedule
	inserted   []models.ScheduleEntry
	updatedIDs []string
	deletedIDs []string
	binding    [][3]string
	deleted    []string
}

func (s *scheduleRepoStub) InTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	if s.txErr != nil {
		return s.txErr
	}
	return fn(nil)
}

func (s *scheduleRepoStub) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = "sched-1"
	s.created = append(s.created, schedule)
	return nil
}

func (s *scheduleRepoStub) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.schedule != nil && s.schedule.ID == id {
		return s.schedule, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error) {
	return s.summaries, s.total, nil
}

func (s *scheduleRepoStub) ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	return s.entries, nil
}

func (s *scheduleRepoStub) InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	s.inserted = append(s.inserted, entries...)
	return nil
}

func (s *scheduleRepoStub) UpdateEntryTimes(ctx context.Context, exec sqlx.ExtContext, entryID string, start, end models.ClockTime) error {
	s.updatedIDs = append(s.updatedIDs, entryID)
	return nil
}

func (s *scheduleRepoStub) SoftDeleteEntries(ctx context.Context, exec sqlx.ExtContext, entryIDs []string) error {
	s.deletedIDs = append(s.deletedIDs, entryIDs...)
	return nil
}

func (s *scheduleRepoStub) UpdateBinding(ctx context.Context, exec sqlx.ExtContext, scheduleID, courseID, classroomID string) error {
	s.binding = append(s.binding, [3]string{scheduleID, courseID, classroomID})
	return nil
}

func (s *scheduleRepoStub) SoftDelete(ctx context.Context, scheduleID string) error {
	s.deleted = append(s.deleted, scheduleID)
	return nil
}

type courseFinderStub struct {
	courses map[string]*models.Course
	err     error
}

func (s courseFinderStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	if course, ok := s.courses[id]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

type classroomFinderStub struct {
	classrooms map[string]*models.Classroom
	err        error
}

func (s classroomFinderStub) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if s.err != nil {
		return nil, s.err
	}
	if classroom, ok := s.classrooms[id]; ok {
		return classroom, nil
	}
	return nil, sql.ErrNoRows
}

type auditStub struct {
	actions []string
	entity  []string
}

func (s *auditStub) Log(ctx context.Context, actorID *string, actionType, entityType, entityID string, details interface{}) {
	s.actions = append(s.actions, actionType)
	s.entity = append(s.entity, entityType)
}

type cacheStub struct {
	patterns []string
	err      error
}

func (s *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return s.err
}

func mustClock(t *testing.T, raw string) models.ClockTime {
	t.Helper()
	parsed, err := models.ParseClockTime(raw)
	require.NoError(t, err)
	return parsed
}

func newScheduleFixture() (*scheduleRepoStub, courseFinderStub, classroomFinderStub, *auditStub, *cacheStub) {
	repo := &scheduleRepoStub{
		schedule: &models.Schedule{ID: "sched-1", CourseID: "course-1", ClassroomID: "room-1"},
	}
	courses := courseFinderStub{courses: map[string]*models.Course{"course-1": {ID: "course-1"}}}
	classrooms := classroomFinderStub{classrooms: map[string]*models.Classroom{"room-1": {ID: "room-1"}}}
	return repo, courses, classrooms, &auditStub{}, &cacheStub{}
}

func TestScheduleServiceCreate(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	created, err := svc.Create(context.Background(), CreateScheduleRequest{CourseID: "course-1", ClassroomID: "room-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sched-1", created.ID)
	assert.Equal(t, []string{models.AuditActionCreate}, audit.actions)
	assert.Equal(t, []string{availabilityCachePattern}, cache.patterns)
}

func TestScheduleServiceCreateUnknownCourse(t *testing.T) {
	repo, _, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courseFinderStub{courses: map[string]*models.Course{}}, classrooms, audit, cache, nil, nil)

	_, err := svc.Create(context.Background(), CreateScheduleRequest{CourseID: "missing", ClassroomID: "room-1"}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestScheduleServiceAddEntries(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	entries, err := svc.AddEntries(context.Background(), "sched-1", AddEntriesRequest{
		Days:      []int{3, 1, 3},
		StartTime: "08:00",
		EndTime:   "09:30",
	}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].DayOfWeek)
	assert.Equal(t, 3, entries[1].DayOfWeek)
	assert.Len(t, repo.inserted, 2)
	assert.Equal(t, []string{availabilityCachePattern}, cache.patterns)
}

func TestScheduleServiceAddEntriesRejectsZeroLengthRange(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	_, err := svc.AddEntries(context.Background(), "sched-1", AddEntriesRequest{
		Days:      []int{1},
		StartTime: "08:00",
		EndTime:   "08:00",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.inserted)
}

func TestScheduleServiceAddEntriesAllowsOvernight(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	entries, err := svc.AddEntries(context.Background(), "sched-1", AddEntriesRequest{
		Days:      []int{1},
		StartTime: "22:00",
		EndTime:   "02:00",
	}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Overnight())
}

func TestScheduleServiceReconcileMinimalChurn(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	start := mustClock(t, "08:00")
	end := mustClock(t, "09:30")
	repo.entries = []models.ScheduleEntry{
		{ID: "e-mon", ScheduleID: "sched-1", DayOfWeek: 1, StartTime: start, EndTime: end},
		{ID: "e-wed", ScheduleID: "sched-1", DayOfWeek: 3, StartTime: start, EndTime: end},
		{ID: "e-fri", ScheduleID: "sched-1", DayOfWeek: 5, StartTime: start, EndTime: end},
	}
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	_, err := svc.Reconcile(context.Background(), "sched-1", ReconcileScheduleRequest{
		CourseID:    "course-1",
		ClassroomID: "room-1",
		Days:        []int{3, 5, 7},
		StartTime:   "10:00",
		EndTime:     "11:30",
	}, nil)
	require.NoError(t, err)

	// Monday leaves the set, Wednesday and Friday survive with new times,
	// Sunday is new.
	assert.Equal(t, []string{"e-mon"}, repo.deletedIDs)
	sort.Strings(repo.updatedIDs)
	assert.Equal(t, []string{"e-fri", "e-wed"}, repo.updatedIDs)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 7, repo.inserted[0].DayOfWeek)
	assert.Empty(t, repo.binding)
	assert.Equal(t, []string{models.AuditActionUpdate}, audit.actions)
	assert.Equal(t, []string{availabilityCachePattern}, cache.patterns)
}

func TestScheduleServiceReconcileIdempotent(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	start := mustClock(t, "08:00")
	end := mustClock(t, "09:30")
	repo.entries = []models.ScheduleEntry{
		{ID: "e-mon", ScheduleID: "sched-1", DayOfWeek: 1, StartTime: start, EndTime: end},
		{ID: "e-wed", ScheduleID: "sched-1", DayOfWeek: 3, StartTime: start, EndTime: end},
	}
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	req := ReconcileScheduleRequest{
		CourseID:    "course-1",
		ClassroomID: "room-1",
		Days:        []int{1, 3},
		StartTime:   "08:00",
		EndTime:     "09:30",
	}
	_, err := svc.Reconcile(context.Background(), "sched-1", req, nil)
	require.NoError(t, err)

	// Same pattern again: same entry ids touched, nothing deleted or
	// inserted either time.
	_, err = svc.Reconcile(context.Background(), "sched-1", req, nil)
	require.NoError(t, err)

	assert.Empty(t, repo.deletedIDs)
	assert.Empty(t, repo.inserted)
	assert.Equal(t, []string{"e-mon", "e-wed", "e-mon", "e-wed"}, repo.updatedIDs)
}

func TestScheduleServiceReconcileRebindsCourse(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	courses.courses["course-2"] = &models.Course{ID: "course-2"}
	repo.entries = []models.ScheduleEntry{
		{ID: "e-mon", ScheduleID: "sched-1", DayOfWeek: 1, StartTime: mustClock(t, "08:00"), EndTime: mustClock(t, "09:30")},
	}
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	_, err := svc.Reconcile(context.Background(), "sched-1", ReconcileScheduleRequest{
		CourseID:    "course-2",
		ClassroomID: "room-1",
		Days:        []int{1},
		StartTime:   "08:00",
		EndTime:     "09:30",
	}, nil)
	require.NoError(t, err)
	require.Len(t, repo.binding, 1)
	assert.Equal(t, [3]string{"sched-1", "course-2", "room-1"}, repo.binding[0])
}

func TestScheduleServiceReconcileUnknownSchedule(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	_, err := svc.Reconcile(context.Background(), "missing", ReconcileScheduleRequest{
		CourseID:    "course-1",
		ClassroomID: "room-1",
		Days:        []int{1},
		StartTime:   "08:00",
		EndTime:     "09:30",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceSoftDeleteCascades(t *testing.T) {
	repo, courses, classrooms, audit, cache := newScheduleFixture()
	svc := NewScheduleService(repo, courses, classrooms, audit, cache, nil, nil)

	err := svc.SoftDelete(context.Background(), "sched-1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sched-1"}, repo.deleted)
	assert.Equal(t, []string{models.AuditActionDelete}, audit.actions)
	assert.Equal(t, []string{availabilityCachePattern}, cache.patterns)
}
