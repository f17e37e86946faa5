package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type classroomRepository interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	ListActive(ctx context.Context) ([]models.Classroom, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// ClassroomRequest creates or replaces a classroom.
type ClassroomRequest struct {
	RoomName string `json:"room_name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Location string `json:"location" validate:"max=200"`
}

// ClassroomService manages classroom reference data.
type ClassroomService struct {
	repo      classroomRepository
	audit     auditLogger
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService instantiates ClassroomService.
func NewClassroomService(repo classroomRepository, audit auditLogger, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns classrooms matching the filter.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, *models.Pagination, error) {
	classrooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return classrooms, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetByID returns a single classroom.
func (s *ClassroomService) GetByID(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return classroom, nil
}

// Create stores a new classroom.
func (s *ClassroomService) Create(ctx context.Context, req ClassroomRequest, actorID *string) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom := models.Classroom{
		RoomName:  req.RoomName,
		Capacity:  req.Capacity,
		Location:  req.Location,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, &classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Classroom", classroom.ID, map[string]interface{}{
		"room_name": classroom.RoomName,
		"capacity":  classroom.Capacity,
		"location":  classroom.Location,
	})
	s.invalidate(ctx)
	return &classroom, nil
}

// Update replaces a classroom's attributes.
func (s *ClassroomService) Update(ctx context.Context, id string, req ClassroomRequest, actorID *string) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.RoomName = req.RoomName
	updated.Capacity = req.Capacity
	updated.Location = req.Location
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Classroom", id, map[string]interface{}{
		"old": existing,
		"new": updated,
	})
	s.invalidate(ctx)
	return &updated, nil
}

// SoftDelete marks the classroom deleted. Schedules referencing it remain;
// they surface through listings with a dangling room until rebound.
func (s *ClassroomService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Classroom", id, nil)
	s.invalidate(ctx)
	return nil
}

// Activate restores a soft-deleted classroom.
func (s *ClassroomService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate classroom")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Classroom", id, nil)
	s.invalidate(ctx)
	return nil
}

func (s *ClassroomService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, availabilityCachePattern); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.Error(err))
	}
}
