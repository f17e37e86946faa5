package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type scheduleRepository interface {
	InTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error
	Create(ctx context.Context, schedule *models.Schedule) error
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error)
	ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error)
	InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error
	UpdateEntryTimes(ctx context.Context, exec sqlx.ExtContext, entryID string, start, end models.ClockTime) error
	SoftDeleteEntries(ctx context.Context, exec sqlx.ExtContext, entryIDs []string) error
	UpdateBinding(ctx context.Context, exec sqlx.ExtContext, scheduleID, courseID, classroomID string) error
	SoftDelete(ctx context.Context, scheduleID string) error
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type classroomFinder interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type auditLogger interface {
	Log(ctx context.Context, actorID *string, actionType, entityType, entityID string, details interface{})
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateScheduleRequest describes payload for creating a schedule shell.
type CreateScheduleRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
}

// AddEntriesRequest adds weekly occurrences to an existing schedule.
type AddEntriesRequest struct {
	Days      []int  `json:"days" validate:"required,min=1,dive,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ReconcileScheduleRequest is the full desired pattern for a schedule.
type ReconcileScheduleRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	ClassroomID string `json:"classroom_id" validate:"required"`
	Days        []int  `json:"days" validate:"required,min=1,dive,min=1,max=7"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

type entryPattern struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ScheduleService coordinates the schedule aggregate: shell creation, entry
// management, pattern reconciliation and cascading soft delete.
type ScheduleService struct {
	repo       scheduleRepository
	courses    courseFinder
	classrooms classroomFinder
	audit      auditLogger
	cache      cacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, courses courseFinder, classrooms classroomFinder, audit auditLogger, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, courses: courses, classrooms: classrooms, audit: audit, cache: cache, validator: validate, logger: logger}
}

// Create inserts an empty schedule shell after reference validation.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest, actorID *string) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.ensureReferences(ctx, req.CourseID, req.ClassroomID); err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		CourseID:    req.CourseID,
		ClassroomID: req.ClassroomID,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Schedule", schedule.ID, map[string]interface{}{
		"course_id":    schedule.CourseID,
		"classroom_id": schedule.ClassroomID,
	})
	s.invalidateAvailability(ctx)
	return &schedule, nil
}

// AddEntries inserts one weekly occurrence per requested day, all sharing the
// same time range.
func (s *ScheduleService) AddEntries(ctx context.Context, scheduleID string, req AddEntriesRequest, actorID *string) ([]models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entries payload")
	}
	days, start, end, err := parsePattern(req.Days, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.findSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	entries := make([]models.ScheduleEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, models.ScheduleEntry{
			ScheduleID: scheduleID,
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			CreatedBy:  actorID,
		})
	}

	err = s.repo.InTx(ctx, func(exec sqlx.ExtContext) error {
		return s.repo.InsertEntries(ctx, exec, entries)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add schedule entries")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Schedule", scheduleID, map[string]interface{}{
		"added_days": days,
		"start_time": start.String(),
		"end_time":   end.String(),
	})
	s.invalidateAvailability(ctx)
	return entries, nil
}

// ListActive returns the schedule's non-deleted entries ordered by weekday
// then start time.
func (s *ScheduleService) ListActive(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	if _, err := s.findSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListActiveEntries(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return entries, nil
}

// List returns joined schedule summaries with their active entries.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, *models.Pagination, error) {
	summaries, total, err := s.repo.ListSummaries(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	for i := range summaries {
		entries, err := s.repo.ListActiveEntries(ctx, summaries[i].ScheduleID)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
		}
		summaries[i].Entries = entries
	}

	return summaries, paginationFor(filter.Page, filter.PageSize, total), nil
}

// SoftDelete removes the schedule and every active entry under it. The
// cascade is mandatory: an active entry under a deleted schedule violates
// the aggregate invariant.
func (s *ScheduleService) SoftDelete(ctx context.Context, scheduleID string, actorID *string) error {
	if _, err := s.findSchedule(ctx, scheduleID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}

	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Schedule", scheduleID, nil)
	s.invalidateAvailability(ctx)
	return nil
}

// Reconcile applies a desired weekly pattern with minimal churn. Entries are
// keyed by weekday: a weekday leaving the set is soft-deleted, a staying
// weekday has its times rewritten in place (same id, so attached
// cancellations and provenance survive), a new weekday gets a fresh entry.
// The whole diff commits as one transaction.
func (s *ScheduleService) Reconcile(ctx context.Context, scheduleID string, req ReconcileScheduleRequest, actorID *string) ([]models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	days, start, end, err := parsePattern(req.Days, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req.CourseID, req.ClassroomID); err != nil {
		return nil, err
	}

	active, err := s.repo.ListActiveEntries(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	// One entry per weekday is the expected shape; duplicates are data
	// anomalies and fold into the delete set.
	byDay := make(map[int]models.ScheduleEntry, len(active))
	var toDelete []string
	oldPattern := make([]entryPattern, 0, len(active))
	for _, entry := range active {
		oldPattern = append(oldPattern, entryPattern{DayOfWeek: entry.DayOfWeek, StartTime: entry.StartTime.String(), EndTime: entry.EndTime.String()})
		if _, dup := byDay[entry.DayOfWeek]; dup {
			toDelete = append(toDelete, entry.ID)
			continue
		}
		byDay[entry.DayOfWeek] = entry
	}

	wanted := make(map[int]bool, len(days))
	for _, day := range days {
		wanted[day] = true
	}

	for day, entry := range byDay {
		if !wanted[day] {
			toDelete = append(toDelete, entry.ID)
		}
	}

	var toUpdate []models.ScheduleEntry
	var toInsert []models.ScheduleEntry
	for _, day := range days {
		if entry, ok := byDay[day]; ok {
			toUpdate = append(toUpdate, entry)
			continue
		}
		toInsert = append(toInsert, models.ScheduleEntry{
			ScheduleID: scheduleID,
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			CreatedBy:  actorID,
		})
	}

	bindingChanged := schedule.CourseID != req.CourseID || schedule.ClassroomID != req.ClassroomID

	err = s.repo.InTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.repo.SoftDeleteEntries(ctx, exec, toDelete); err != nil {
			return err
		}
		for _, entry := range toUpdate {
			if err := s.repo.UpdateEntryTimes(ctx, exec, entry.ID, start, end); err != nil {
				return err
			}
		}
		if len(toInsert) > 0 {
			if err := s.repo.InsertEntries(ctx, exec, toInsert); err != nil {
				return err
			}
		}
		if bindingChanged {
			if err := s.repo.UpdateBinding(ctx, exec, scheduleID, req.CourseID, req.ClassroomID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reconcile schedule")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Schedule", scheduleID, map[string]interface{}{
		"old": map[string]interface{}{
			"course_id":    schedule.CourseID,
			"classroom_id": schedule.ClassroomID,
			"entries":      oldPattern,
		},
		"new": map[string]interface{}{
			"course_id":    req.CourseID,
			"classroom_id": req.ClassroomID,
			"days":         days,
			"start_time":   start.String(),
			"end_time":     end.String(),
		},
	})
	s.invalidateAvailability(ctx)

	entries, err := s.repo.ListActiveEntries(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload schedule entries")
	}
	return entries, nil
}

func (s *ScheduleService) findSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

func (s *ScheduleService) ensureReferences(ctx context.Context, courseID, classroomID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.classrooms.FindByID(ctx, classroomID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return nil
}

func (s *ScheduleService) invalidateAvailability(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, availabilityCachePattern); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.Error(err))
	}
}

// parsePattern normalises a requested weekly pattern: days deduplicated and
// sorted, times parsed from "HH:MM", zero-length ranges rejected. Overnight
// ranges (start > end) are legitimate.
func parsePattern(rawDays []int, rawStart, rawEnd string) ([]int, models.ClockTime, models.ClockTime, error) {
	if len(rawDays) == 0 {
		return nil, 0, 0, appErrors.Clone(appErrors.ErrValidation, "at least one day is required")
	}

	seen := make(map[int]bool, len(rawDays))
	days := make([]int, 0, len(rawDays))
	for _, day := range rawDays {
		if !models.ValidWeekday(day) {
			return nil, 0, 0, appErrors.Clone(appErrors.ErrValidation, "day of week out of range")
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	sort.Ints(days)

	start, err := models.ParseClockTime(rawStart)
	if err != nil {
		return nil, 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	end, err := models.ParseClockTime(rawEnd)
	if err != nil {
		return nil, 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if start == end {
		return nil, 0, 0, appErrors.Clone(appErrors.ErrValidation, "start and end time must differ")
	}

	return days, start, end, nil
}
