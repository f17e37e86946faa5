package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniportal/portal-api/internal/models"
)

// ErrDuplicateCancellation reports that an active cancellation already
// covers the (entry, date) pair. Raised by the partial unique index on
// canceled_classes (schedule_entry_id, date) WHERE is_deleted = FALSE,
// which backstops the service-level existence check under concurrency.
var ErrDuplicateCancellation = errors.New("cancellation already exists for entry and date")

// CancellationRepository persists per-date suppressions of schedule entries.
type CancellationRepository struct {
	db *sqlx.DB
}

// NewCancellationRepository creates a cancellation repository.
func NewCancellationRepository(db *sqlx.DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

// Create stores a new cancellation row.
func (r *CancellationRepository) Create(ctx context.Context, canceled *models.CanceledClass) error {
	if canceled.ID == "" {
		canceled.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if canceled.CreatedAt.IsZero() {
		canceled.CreatedAt = now
	}
	canceled.UpdatedAt = now

	const query = `INSERT INTO canceled_classes (id, schedule_entry_id, date, reason, created_by, created_at, updated_at, is_deleted) VALUES (:id, :schedule_entry_id, :date, :reason, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, canceled); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateCancellation
		}
		return fmt.Errorf("create cancellation: %w", err)
	}
	return nil
}

// Exists reports whether an active cancellation already covers the entry on
// the given date.
func (r *CancellationRepository) Exists(ctx context.Context, entryID string, date time.Time) (bool, error) {
	const query = `SELECT 1 FROM canceled_classes WHERE schedule_entry_id = $1 AND date = $2 AND is_deleted = FALSE LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, entryID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check cancellation uniqueness: %w", err)
	}
	return true, nil
}

// ListByEntry returns active cancellations for an entry ordered by date.
func (r *CancellationRepository) ListByEntry(ctx context.Context, entryID string) ([]models.CanceledClass, error) {
	const query = `SELECT id, schedule_entry_id, date, reason, created_by, created_at, updated_at, is_deleted, deleted_at FROM canceled_classes WHERE schedule_entry_id = $1 AND is_deleted = FALSE ORDER BY date ASC`
	var rows []models.CanceledClass
	if err := r.db.SelectContext(ctx, &rows, query, entryID); err != nil {
		return nil, fmt.Errorf("list cancellations: %w", err)
	}
	return rows, nil
}

// SoftDelete marks a cancellation deleted; the entry itself is untouched.
func (r *CancellationRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE canceled_classes SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id)
	if err != nil {
		return fmt.Errorf("soft delete cancellation: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
