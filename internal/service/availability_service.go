package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/pkg/config"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

const availabilityCachePattern = "availability:*"

type availabilityEntrySource interface {
	ListEntriesForAvailability(ctx context.Context, semesterID string, days []int) ([]models.AvailabilityEntryRow, error)
}

type classroomLister interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

type currentSemesterFinder interface {
	FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AvailabilityService answers "which classrooms are free right now". It
// loads entries scheduled on the checked weekday or the one before it (an
// overnight entry from the previous day can still be running) and evaluates
// each against the checked instant.
type AvailabilityService struct {
	schedules  availabilityEntrySource
	classrooms classroomLister
	semesters  currentSemesterFinder
	cache      snapshotCache
	metrics    *MetricsService
	cfg        config.AvailabilityConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAvailabilityService instantiates AvailabilityService. cache and metrics
// may be nil when Redis or instrumentation is not configured.
func NewAvailabilityService(schedules availabilityEntrySource, classrooms classroomLister, semesters currentSemesterFinder, cache snapshotCache, metrics *MetricsService, cfg config.AvailabilityConfig, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		schedules:  schedules,
		classrooms: classrooms,
		semesters:  semesters,
		cache:      cache,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// CheckNow evaluates availability at the current wall-clock instant.
func (s *AvailabilityService) CheckNow(ctx context.Context) (*models.AvailabilitySnapshot, error) {
	now := s.now().UTC()
	return s.CheckAt(ctx, models.WeekdayOf(now), models.ClockTimeOf(now), now)
}

// CheckAt evaluates availability at an arbitrary weekday and wall-clock
// time. checkedAt is recorded on the snapshot only.
func (s *AvailabilityService) CheckAt(ctx context.Context, day int, t models.ClockTime, checkedAt time.Time) (*models.AvailabilitySnapshot, error) {
	if !models.ValidWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day of week out of range")
	}
	if !t.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time out of range")
	}

	semester, err := s.semesters.FindCurrent(ctx, checkedAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve current semester")
	}

	semesterID := ""
	if semester != nil {
		semesterID = semester.ID
	}

	cacheKey := fmt.Sprintf("availability:%s:%d:%s", semesterID, day, t.String())
	if s.cacheEnabled() {
		var cached models.AvailabilitySnapshot
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		} else if err != appErrors.ErrCacheMiss {
			s.logger.Warn("availability cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	classrooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}

	snapshot := &models.AvailabilitySnapshot{
		CheckedAt:  checkedAt,
		Weekday:    day,
		Time:       t,
		SemesterID: semesterID,
		Classrooms: make([]models.ClassroomAvailability, 0, len(classrooms)),
	}

	// Without a semester window covering checkedAt nothing can be in
	// session; every classroom is free.
	var occupants map[string][]models.OccupyingClass
	if semester != nil {
		rows, err := s.schedules.ListEntriesForAvailability(ctx, semesterID, []int{day, models.PrevWeekday(day)})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
		}
		occupants = collectOccupants(rows, day, t)
	}

	for _, room := range classrooms {
		availability := models.ClassroomAvailability{
			ClassroomID: room.ID,
			RoomName:    room.RoomName,
			Location:    room.Location,
			Capacity:    room.Capacity,
		}
		if matched := occupants[room.ID]; len(matched) > 0 {
			availability.IsOccupied = true
			availability.Conflict = len(matched) > 1
			availability.Occupants = matched
		}
		snapshot.Classrooms = append(snapshot.Classrooms, availability)
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

func (s *AvailabilityService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheEnabled && s.cfg.CacheTTL > 0
}

func collectOccupants(rows []models.AvailabilityEntryRow, day int, t models.ClockTime) map[string][]models.OccupyingClass {
	matched := make(map[string][]models.OccupyingClass)
	for _, row := range rows {
		entry := models.ScheduleEntry{
			DayOfWeek: row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		}
		if !entry.OccupiedAt(day, t) {
			continue
		}
		matched[row.ClassroomID] = append(matched[row.ClassroomID], models.OccupyingClass{
			EntryID:     row.EntryID,
			ScheduleID:  row.ScheduleID,
			CourseID:    row.CourseID,
			SubjectName: row.SubjectName,
			TeacherName: row.TeacherName,
			DayOfWeek:   row.DayOfWeek,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
		})
	}
	for id := range matched {
		occ := matched[id]
		sort.Slice(occ, func(i, j int) bool { return occ[i].EntryID < occ[j].EntryID })
		matched[id] = occ
	}
	return matched
}
