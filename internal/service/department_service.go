package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type departmentRepository interface {
	ListActive(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// DepartmentRequest creates or replaces a department.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=150"`
	Code string `json:"code" validate:"required,max=20"`
}

// DepartmentService manages department reference data.
type DepartmentService struct {
	repo      departmentRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService instantiates DepartmentService.
func NewDepartmentService(repo departmentRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// ListActive returns all non-deleted departments.
func (s *DepartmentService) ListActive(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// GetByID returns a single department.
func (s *DepartmentService) GetByID(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Create stores a new department.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest, actorID *string) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	department := models.Department{
		Name:      req.Name,
		Code:      req.Code,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, &department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Department", department.ID, req)
	return &department, nil
}

// Update replaces a department's attributes.
func (s *DepartmentService) Update(ctx context.Context, id string, req DepartmentRequest, actorID *string) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	updated.Code = req.Code
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Department", id, map[string]interface{}{
		"old": existing,
		"new": updated,
	})
	return &updated, nil
}

// SoftDelete marks the department deleted.
func (s *DepartmentService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Department", id, nil)
	return nil
}

// Activate restores a soft-deleted department.
func (s *DepartmentService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate department")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Department", id, nil)
	return nil
}
