package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/repository"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type cancellationRepository interface {
	Create(ctx context.Context, canceled *models.CanceledClass) error
	Exists(ctx context.Context, entryID string, date time.Time) (bool, error)
	ListByEntry(ctx context.Context, entryID string) ([]models.CanceledClass, error)
	SoftDelete(ctx context.Context, id string) error
}

type entryFinder interface {
	FindEntryByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
}

// CancelClassRequest suppresses one occurrence of a schedule entry.
type CancelClassRequest struct {
	ScheduleEntryID string `json:"schedule_entry_id" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Reason          string `json:"reason" validate:"max=500"`
}

// CancellationService overlays per-date cancellations on the recurring
// schedule pattern.
type CancellationService struct {
	repo      cancellationRepository
	entries   entryFinder
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCancellationService instantiates CancellationService.
func NewCancellationService(repo cancellationRepository, entries entryFinder, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *CancellationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancellationService{repo: repo, entries: entries, audit: audit, validator: validate, logger: logger}
}

// Cancel records a cancellation for one (entry, date) pair. The entry must
// be active and the pair must not already carry a cancellation.
func (s *CancellationService) Cancel(ctx context.Context, req CancelClassRequest, actorID *string) (*models.CanceledClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}

	if _, err := s.entries.FindEntryByID(ctx, req.ScheduleEntryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	exists, err := s.repo.Exists(ctx, req.ScheduleEntryID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing cancellation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already canceled on this date")
	}

	canceled := models.CanceledClass{
		ScheduleEntryID: req.ScheduleEntryID,
		Date:            date,
		Reason:          req.Reason,
		CreatedBy:       actorID,
	}
	if err := s.repo.Create(ctx, &canceled); err != nil {
		// A concurrent request can slip past the Exists check; the
		// partial unique index reports it here.
		if errors.Is(err, repository.ErrDuplicateCancellation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class already canceled on this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel class")
	}

	s.audit.Log(ctx, actorID, models.AuditActionCreate, "CanceledClass", canceled.ID, map[string]interface{}{
		"schedule_entry_id": canceled.ScheduleEntryID,
		"date":              req.Date,
		"reason":            req.Reason,
	})
	return &canceled, nil
}

// ListByEntry returns the active cancellations attached to an entry.
func (s *CancellationService) ListByEntry(ctx context.Context, entryID string) ([]models.CanceledClass, error) {
	if _, err := s.entries.FindEntryByID(ctx, entryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	canceled, err := s.repo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cancellations")
	}
	return canceled, nil
}

// Revoke soft-deletes a cancellation, restoring the occurrence.
func (s *CancellationService) Revoke(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "cancellation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke cancellation")
	}
	s.audit.Log(ctx, actorID, models.AuditActionDelete, "CanceledClass", id, nil)
	return nil
}
