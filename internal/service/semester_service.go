package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type semesterRepository interface {
	List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// SemesterRequest creates or replaces a semester window.
type SemesterRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// SemesterService manages semester reference data.
type SemesterService struct {
	repo      semesterRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService instantiates SemesterService.
func NewSemesterService(repo semesterRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns semesters matching the filter.
func (s *SemesterService) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, *models.Pagination, error) {
	semesters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	return semesters, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetByID returns a single semester.
func (s *SemesterService) GetByID(ctx context.Context, id string) (*models.Semester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return semester, nil
}

// GetCurrent resolves the semester whose window contains now, if any.
func (s *SemesterService) GetCurrent(ctx context.Context) (*models.Semester, error) {
	semester, err := s.repo.FindCurrent(ctx, time.Now().UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no semester in session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve current semester")
	}
	return semester, nil
}

// Create stores a new semester after window validation.
func (s *SemesterService) Create(ctx context.Context, req SemesterRequest, actorID *string) (*models.Semester, error) {
	start, end, err := s.parseWindow(req)
	if err != nil {
		return nil, err
	}

	semester := models.Semester{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, &semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Semester", semester.ID, map[string]interface{}{
		"name":       semester.Name,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})
	return &semester, nil
}

// Update replaces a semester's name and window.
func (s *SemesterService) Update(ctx context.Context, id string, req SemesterRequest, actorID *string) (*models.Semester, error) {
	start, end, err := s.parseWindow(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	updated.StartDate = start
	updated.EndDate = end
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update semester")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Semester", id, map[string]interface{}{
		"old": existing,
		"new": updated,
	})
	return &updated, nil
}

// SoftDelete marks the semester deleted. Courses under it stay untouched;
// they simply stop matching "ongoing" queries.
func (s *SemesterService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete semester")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Semester", id, nil)
	return nil
}

// Activate restores a soft-deleted semester.
func (s *SemesterService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate semester")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Semester", id, nil)
	return nil
}

func (s *SemesterService) parseWindow(req SemesterRequest) (time.Time, time.Time, error) {
	if err := s.validator.Struct(req); err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end date before start date")
	}
	return start, end, nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
