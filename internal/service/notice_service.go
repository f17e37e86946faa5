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

type noticeRepository interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error)
	FindByID(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	SoftDelete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// NoticeRequest creates or replaces a notice.
type NoticeRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

// NoticeService manages the announcement board.
type NoticeService struct {
	repo      noticeRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoticeService instantiates NoticeService.
func NewNoticeService(repo noticeRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns notices newest first.
func (s *NoticeService) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, *models.Pagination, error) {
	notices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	return notices, paginationFor(filter.Page, filter.PageSize, total), nil
}

// GetByID returns a single notice.
func (s *NoticeService) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	return notice, nil
}

// Create publishes a new notice.
func (s *NoticeService) Create(ctx context.Context, req NoticeRequest, actorID *string) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice := models.Notice{
		Title:       req.Title,
		Body:        req.Body,
		PublishedAt: time.Now().UTC(),
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, &notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "Notice", notice.ID, map[string]interface{}{"title": notice.Title})
	return &notice, nil
}

// Update replaces a notice's title and body.
func (s *NoticeService) Update(ctx context.Context, id string, req NoticeRequest, actorID *string) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = req.Title
	updated.Body = req.Body
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}

	s.audit.Log(ctx, actorID, models.AuditActionUpdate, "Notice", id, map[string]interface{}{
		"old": map[string]string{"title": existing.Title},
		"new": map[string]string{"title": updated.Title},
	})
	return &updated, nil
}

// SoftDelete removes a notice from the board.
func (s *NoticeService) SoftDelete(ctx context.Context, id string, actorID *string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "Notice", id, nil)
	return nil
}

// Activate restores a soft-deleted notice.
func (s *NoticeService) Activate(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate notice")
	}
	s.audit.Log(ctx, actorID, models.AuditActionActivate, "Notice", id, nil)
	return nil
}
