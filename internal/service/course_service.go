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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListOngoing(ctx context.Context, now time.Time) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type semesterFinder interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type departmentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// CourseRequest creates or replaces a course offering.
type CourseRequest struct {
	SubjectID    string `json:"subject_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	TeacherID    string `json:"teacher_id" validate:"required"`
	SemesterID   string `json:"semester_id" validate:"required"`
	Credits      int    `json:"credits" validate:"required,min=1,max=10"`
}

// CourseService manages course offerings.
type CourseService struct {
	repo        courseRepository
	subjects    subjectFinder
	semesters   semesterFinder
	departments departmentFinder
	audit       auditLogger
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService instantiates CourseService.
func NewCourseService(repo courseRepository, subjects subjectFinder, semesters semesterFinder, departments departmentFinder, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, subjects: subjects, semesters: semesters, departments: departments, audit: audit, validator: validate, logger: logger}
}

// List returns courses matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListOngoing returns courses whose semester window covers the present.
func (s *CourseService) ListOngoing(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListOngoing(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ongoing courses")
	}
	return courses, nil
}

// GetByID returns a single course.
func (s *CourseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course after reference validation.
func (s *CourseService) Create(ctx context.Context, req CourseRequest, actorID *string) (*models.Course, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	course := models.Course{
		SubjectID:    req.SubjectID,
		DepartmentID: req.DepartmentID,
		TeacherID:    req.TeacherID,
		SemesterID:   req.SemesterID,
		Credits:      req.Credits,
		CreatedBy:    actorID,
	}
	if err := s.repo.Create(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Course", course.ID, req)
	return &course, nil
}

// Update replaces a course's bindings and credits.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest, actorID *string) (*models.Course, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.SubjectID = req.SubjectID
	updated.DepartmentID = req.DepartmentID
	updated.TeacherID = req.TeacherID
	updated.SemesterID = req.SemesterID
	updated.Credits = req.Credits
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Course", id, map[string]interface{}{
		"old": existing,
		"new": updated,
	})
	return &updated, nil
}

// SoftDelete marks the course deleted. Its schedules stay readable through
// direct lookups but drop off active listings.
func (s *CourseService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Course", id, nil)
	return nil
}

// Activate restores a soft-deleted course.
func (s *CourseService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate course")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Course", id, nil)
	return nil
}

func (s *CourseService) validateRequest(ctx context.Context, req CourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	if _, err := s.semesters.FindByID(ctx, req.SemesterID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return nil
}
