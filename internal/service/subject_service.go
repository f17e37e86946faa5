package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type subjectRepository interface {
	ListActive(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// SubjectRequest creates or replaces a subject.
type SubjectRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Code         string `json:"code" validate:"required,max=20"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// SubjectService manages subject reference data. Subject codes are unique
// among active subjects.
type SubjectService struct {
	repo        subjectRepository
	departments departmentFinder
	audit       auditLogger
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService instantiates SubjectService.
func NewSubjectService(repo subjectRepository, departments departmentFinder, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, departments: departments, audit: audit, validator: validate, logger: logger}
}

// ListActive returns all non-deleted subjects.
func (s *SubjectService) ListActive(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// GetByID returns a single subject.
func (s *SubjectService) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create stores a new subject, enforcing code uniqueness.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest, actorID *string) (*models.Subject, error) {
	if err := s.validateRequest(ctx, req, ""); err != nil {
		return nil, err
	}

	subject := models.Subject{
		Name:         req.Name,
		Code:         req.Code,
		DepartmentID: req.DepartmentID,
		CreatedBy:    actorID,
	}
	if err := s.repo.Create(ctx, &subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Subject", subject.ID, req)
	return &subject, nil
}

// Update replaces a subject's attributes.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest, actorID *string) (*models.Subject, error) {
	if err := s.validateRequest(ctx, req, id); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	updated.Code = req.Code
	updated.DepartmentID = req.DepartmentID
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Subject", id, map[string]interface{}{
		"old": existing,
		"new": updated,
	})
	return &updated, nil
}

// SoftDelete marks the subject deleted.
func (s *SubjectService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Subject", id, nil)
	return nil
}

// Activate restores a soft-deleted subject.
func (s *SubjectService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate subject")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Subject", id, nil)
	return nil
}

func (s *SubjectService) validateRequest(ctx context.Context, req SubjectRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	taken, err := s.repo.ExistsByCode(ctx, req.Code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "subject code already in use")
	}
	return nil
}
