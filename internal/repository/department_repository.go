package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniportal/portal-api/internal/models"
)

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository instantiates a department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// ListActive returns non-deleted departments ordered by name.
func (r *DepartmentRepository) ListActive(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, code, created_by, created_at, updated_at, is_deleted, deleted_at FROM departments WHERE is_deleted = FALSE ORDER BY name ASC`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID loads an active department by identifier.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, name, code, created_by, created_at, updated_at, is_deleted, deleted_at FROM departments WHERE id = $1 AND is_deleted = FALSE`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// Create inserts a new department record.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if department.CreatedAt.IsZero() {
		department.CreatedAt = now
	}
	department.UpdatedAt = now

	const query = `INSERT INTO departments (id, name, code, created_by, created_at, updated_at, is_deleted) VALUES (:id, :name, :code, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update modifies an existing department.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now().UTC()
	const query = `UPDATE departments SET name = :name, code = :code, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// SoftDelete flags a department deleted.
func (r *DepartmentRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE departments SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id); err != nil {
		return fmt.Errorf("soft delete department: %w", err)
	}
	return nil
}

// Activate clears the soft delete flag.
func (r *DepartmentRepository) Activate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE departments SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activate department: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
