package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniportal/portal-api/internal/models"
)

// NoticeRepository handles persistence for notice board entries.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository instantiates a notice repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// List returns notices newest first.
func (r *NoticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error) {
	base := "FROM notices WHERE is_deleted = FALSE"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, title, body, published_at, created_by, created_at, updated_at, is_deleted, deleted_at %s ORDER BY published_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}

	return notices, total, nil
}

// FindByID loads an active notice by identifier.
func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*models.Notice, error) {
	const query = `SELECT id, title, body, published_at, created_by, created_at, updated_at, is_deleted, deleted_at FROM notices WHERE id = $1 AND is_deleted = FALSE`
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create inserts a new notice record.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
	}
	if notice.PublishedAt.IsZero() {
		notice.PublishedAt = now
	}
	notice.UpdatedAt = now

	const query = `INSERT INTO notices (id, title, body, published_at, created_by, created_at, updated_at, is_deleted) VALUES (:id, :title, :body, :published_at, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// Update modifies an existing notice.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notices SET title = :title, body = :body, published_at = :published_at, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	return nil
}

// SoftDelete flags a notice deleted.
func (r *NoticeRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE notices SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id); err != nil {
		return fmt.Errorf("soft delete notice: %w", err)
	}
	return nil
}

// Activate clears the soft delete flag.
func (r *NoticeRepository) Activate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notices SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activate notice: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
