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

// SemesterRepository handles persistence for academic semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository instantiates a semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters matching provided filters.
func (r *SemesterRepository) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error) {
	base := "FROM semesters WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeDeleted {
		conditions = append(conditions, "is_deleted = FALSE")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"start_date": true,
		"end_date":   true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT id, name, start_date, end_date, created_by, created_at, updated_at, is_deleted, deleted_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list semesters: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count semesters: %w", err)
	}

	return semesters, total, nil
}

// FindByID loads an active semester by identifier.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, created_by, created_at, updated_at, is_deleted, deleted_at FROM semesters WHERE id = $1 AND is_deleted = FALSE`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// FindCurrent resolves the semester whose window contains the given instant.
// sql.ErrNoRows means no semester is running. Windows are expected to be
// disjoint; when two overlap the latest-starting one wins and the overlap
// is left for operators to fix through the semester endpoints, like a
// double-booked classroom.
func (r *SemesterRepository) FindCurrent(ctx context.Context, now time.Time) (*models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, created_by, created_at, updated_at, is_deleted, deleted_at FROM semesters WHERE is_deleted = FALSE AND start_date <= $1 AND end_date >= $1 ORDER BY start_date DESC LIMIT 1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, now); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Create inserts a new semester record.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if semester.CreatedAt.IsZero() {
		semester.CreatedAt = now
	}
	semester.UpdatedAt = now

	const query = `INSERT INTO semesters (id, name, start_date, end_date, created_by, created_at, updated_at, is_deleted) VALUES (:id, :name, :start_date, :end_date, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// Update modifies an existing semester.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) error {
	semester.UpdatedAt = time.Now().UTC()
	const query = `UPDATE semesters SET name = :name, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	return nil
}

// SoftDelete flags a semester deleted.
func (r *SemesterRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE semesters SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id); err != nil {
		return fmt.Errorf("soft delete semester: %w", err)
	}
	return nil
}

// Activate clears the soft delete flag.
func (r *SemesterRepository) Activate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE semesters SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activate semester: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
