package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AuditAction constants represent mutation kinds recorded to the audit trail.
const (
	AuditActionCreate   = "CREATE"
	AuditActionUpdate   = "UPDATE"
	AuditActionDelete   = "DELETE"
	AuditActionActivate = "ACTIVATE"
)

// AuditLog is one audit trail record, written once after a successful commit.
type AuditLog struct {
	ID         string         `db:"id" json:"id"`
	ActorID    *string        `db:"actor_id" json:"actor_id,omitempty"`
	ActionType string         `db:"action_type" json:"action_type"`
	EntityType string         `db:"entity_type" json:"entity_type"`
	EntityID   *string        `db:"entity_id" json:"entity_id,omitempty"`
	Details    types.JSONText `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
