package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/pkg/config"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type entrySourceStub struct {
	rows       []models.AvailabilityEntryRow
	err        error
	calledDays [][]int
}

func (s *entrySourceStub) ListEntriesForAvailability(ctx context.Context, semesterID string, days []int) ([]models.AvailabilityEntryRow, error) {
	s.calledDays = append(s.calledDays, days)
	return s.rows, s.err
}

type classroomListerStub struct {
	classrooms []models.Classroom
	err        error
}

func (s classroomListerStub) ListActive(ctx context.Context) ([]models.Classroom, error) {
	return s.classrooms, s.err
}

type semesterFinderStub struct {
	current *models.Semester
	err     error
}

func (s semesterFinderStub) FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error) {
	if s.current != nil {
		return s.current, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, sql.ErrNoRows
}

type snapshotCacheStub struct {
	stored map[string]*models.AvailabilitySnapshot
	sets   int
	gets   int
}

func (s *snapshotCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.gets++
	if snapshot, ok := s.stored[key]; ok {
		*dest.(*models.AvailabilitySnapshot) = *snapshot
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (s *snapshotCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.stored == nil {
		s.stored = map[string]*models.AvailabilitySnapshot{}
	}
	s.sets++
	s.stored[key] = value.(*models.AvailabilitySnapshot)
	return nil
}

func availabilityFixtureRow(entryID, classroomID string, day int, start, end models.ClockTime) models.AvailabilityEntryRow {
	return models.AvailabilityEntryRow{
		EntryID:     entryID,
		ScheduleID:  "sched-1",
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		ClassroomID: classroomID,
		CourseID:    "course-1",
		SubjectName: "Algorithms",
		TeacherName: "A. Hoare",
	}
}

func TestAvailabilityCheckAtOccupiedAndFree(t *testing.T) {
	start := mustClock(t, "08:00")
	end := mustClock(t, "09:30")
	source := &entrySourceStub{rows: []models.AvailabilityEntryRow{
		availabilityFixtureRow("e-1", "room-1", 1, start, end),
	}}
	rooms := classroomListerStub{classrooms: []models.Classroom{
		{ID: "room-1", RoomName: "101"},
		{ID: "room-2", RoomName: "102"},
	}}
	semesters := semesterFinderStub{current: &models.Semester{ID: "sem-1"}}
	svc := NewAvailabilityService(source, rooms, semesters, nil, nil, config.AvailabilityConfig{}, nil)

	snapshot, err := svc.CheckAt(context.Background(), 1, mustClock(t, "08:30"), time.Now())
	require.NoError(t, err)
	require.Len(t, snapshot.Classrooms, 2)

	occupied := snapshot.Classrooms[0]
	assert.True(t, occupied.IsOccupied)
	assert.False(t, occupied.Conflict)
	require.Len(t, occupied.Occupants, 1)
	assert.Equal(t, "e-1", occupied.Occupants[0].EntryID)

	free := snapshot.Classrooms[1]
	assert.False(t, free.IsOccupied)
	assert.Empty(t, free.Occupants)

	// Candidate load covers the checked weekday plus the one before it.
	require.Len(t, source.calledDays, 1)
	assert.ElementsMatch(t, []int{1, 7}, source.calledDays[0])
}

func TestAvailabilityOvernightSpillsIntoNextDay(t *testing.T) {
	// Monday 22:00 to 02:00 holds the room early Tuesday but not at 02:00.
	source := &entrySourceStub{rows: []models.AvailabilityEntryRow{
		availabilityFixtureRow("e-night", "room-1", 1, mustClock(t, "22:00"), mustClock(t, "02:00")),
	}}
	rooms := classroomListerStub{classrooms: []models.Classroom{{ID: "room-1"}}}
	semesters := semesterFinderStub{current: &models.Semester{ID: "sem-1"}}
	svc := NewAvailabilityService(source, rooms, semesters, nil, nil, config.AvailabilityConfig{}, nil)

	snapshot, err := svc.CheckAt(context.Background(), 2, mustClock(t, "01:00"), time.Now())
	require.NoError(t, err)
	assert.True(t, snapshot.Classrooms[0].IsOccupied)

	snapshot, err = svc.CheckAt(context.Background(), 2, mustClock(t, "02:00"), time.Now())
	require.NoError(t, err)
	assert.False(t, snapshot.Classrooms[0].IsOccupied)

	snapshot, err = svc.CheckAt(context.Background(), 1, mustClock(t, "23:00"), time.Now())
	require.NoError(t, err)
	assert.True(t, snapshot.Classrooms[0].IsOccupied)
}

func TestAvailabilityDoubleBookingRaisesConflict(t *testing.T) {
	start := mustClock(t, "08:00")
	end := mustClock(t, "10:00")
	source := &entrySourceStub{rows: []models.AvailabilityEntryRow{
		availabilityFixtureRow("e-1", "room-1", 1, start, end),
		availabilityFixtureRow("e-2", "room-1", 1, mustClock(t, "09:00"), mustClock(t, "11:00")),
	}}
	rooms := classroomListerStub{classrooms: []models.Classroom{{ID: "room-1"}}}
	semesters := semesterFinderStub{current: &models.Semester{ID: "sem-1"}}
	svc := NewAvailabilityService(source, rooms, semesters, nil, nil, config.AvailabilityConfig{}, nil)

	snapshot, err := svc.CheckAt(context.Background(), 1, mustClock(t, "09:30"), time.Now())
	require.NoError(t, err)
	room := snapshot.Classrooms[0]
	assert.True(t, room.IsOccupied)
	assert.True(t, room.Conflict)
	assert.Len(t, room.Occupants, 2)
}

func TestAvailabilityNoCurrentSemesterMeansAllFree(t *testing.T) {
	source := &entrySourceStub{rows: []models.AvailabilityEntryRow{
		availabilityFixtureRow("e-1", "room-1", 1, mustClock(t, "08:00"), mustClock(t, "10:00")),
	}}
	rooms := classroomListerStub{classrooms: []models.Classroom{{ID: "room-1"}}}
	svc := NewAvailabilityService(source, rooms, semesterFinderStub{}, nil, nil, config.AvailabilityConfig{}, nil)

	snapshot, err := svc.CheckAt(context.Background(), 1, mustClock(t, "09:00"), time.Now())
	require.NoError(t, err)
	assert.False(t, snapshot.Classrooms[0].IsOccupied)
	assert.Empty(t, source.calledDays)
}

func TestAvailabilitySnapshotCached(t *testing.T) {
	source := &entrySourceStub{}
	rooms := classroomListerStub{classrooms: []models.Classroom{{ID: "room-1"}}}
	semesters := semesterFinderStub{current: &models.Semester{ID: "sem-1"}}
	cache := &snapshotCacheStub{}
	cfg := config.AvailabilityConfig{CacheEnabled: true, CacheTTL: 30 * time.Second}
	svc := NewAvailabilityService(source, rooms, semesters, cache, nil, cfg, nil)

	at := mustClock(t, "09:00")
	first, err := svc.CheckAt(context.Background(), 1, at, time.Now())
	require.NoError(t, err)
	second, err := svc.CheckAt(context.Background(), 1, at, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
	assert.Len(t, source.calledDays, 1)
	assert.Equal(t, first.Classrooms, second.Classrooms)
}

func TestAvailabilityRejectsBadInstant(t *testing.T) {
	svc := NewAvailabilityService(&entrySourceStub{}, classroomListerStub{}, semesterFinderStub{}, nil, nil, config.AvailabilityConfig{}, nil)

	_, err := svc.CheckAt(context.Background(), 0, mustClock(t, "09:00"), time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CheckAt(context.Background(), 8, mustClock(t, "09:00"), time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
