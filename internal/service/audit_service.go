package service

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error)
}

// AuditService records mutating operations to the audit trail. It is called
// after a successful commit; a failed audit write never fails the original
// operation, it is only logged.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService instantiates AuditService.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Log appends one audit record for a mutation on the given entity.
func (s *AuditService) Log(ctx context.Context, actorID *string, actionType, entityType, entityID string, details interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	record := &models.AuditLog{
		ActorID:    actorID,
		ActionType: actionType,
		EntityType: entityType,
	}
	if entityID != "" {
		record.EntityID = &entityID
	}
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("audit details not serialisable", zap.String("entity_type", entityType), zap.Error(err))
		} else {
			record.Details = types.JSONText(payload)
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("audit log write failed",
			zap.String("action", actionType),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// History returns the audit trail for one entity, newest first.
func (s *AuditService) History(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	records, err := s.repo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	return records, nil
}
