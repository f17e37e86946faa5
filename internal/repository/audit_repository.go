package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniportal/portal-api/internal/models"
)

// AuditRepository appends records to the audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository instantiates an audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one audit log record.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO audit_logs (id, actor_id, action_type, entity_type, entity_id, details, created_at) VALUES (:id, :actor_id, :action_type, :entity_type, :entity_id, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListByEntity returns the trail for one entity, newest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	const query = `SELECT id, actor_id, action_type, entity_type, entity_id, details, created_at FROM audit_logs WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, entityType, entityID); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
