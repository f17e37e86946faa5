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

// ClassroomRepository handles persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository instantiates a classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms matching provided filters.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	base := "FROM classrooms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeDeleted {
		conditions = append(conditions, "is_deleted = FALSE")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(room_name ILIKE $%d OR location ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"room_name":  true,
		"capacity":   true,
		"location":   true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "room_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT id, room_name, capacity, location, created_by, created_at, updated_at, is_deleted, deleted_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classrooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classrooms: %w", err)
	}

	return classrooms, total, nil
}

// ListActive returns every non-deleted classroom ordered by room name.
func (r *ClassroomRepository) ListActive(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT id, room_name, capacity, location, created_by, created_at, updated_at, is_deleted, deleted_at FROM classrooms WHERE is_deleted = FALSE ORDER BY room_name ASC`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query); err != nil {
		return nil, fmt.Errorf("list active classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID loads an active classroom by identifier.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, room_name, capacity, location, created_by, created_at, updated_at, is_deleted, deleted_at FROM classrooms WHERE id = $1 AND is_deleted = FALSE`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Create inserts a new classroom record.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = now
	}
	classroom.UpdatedAt = now

	const query = `INSERT INTO classrooms (id, room_name, capacity, location, created_by, created_at, updated_at, is_deleted) VALUES (:id, :room_name, :capacity, :location, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Update modifies an existing classroom.
func (r *ClassroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	classroom.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classrooms SET room_name = :room_name, capacity = :capacity, location = :location, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	return nil
}

// SoftDelete flags a classroom deleted.
func (r *ClassroomRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE classrooms SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id); err != nil {
		return fmt.Errorf("soft delete classroom: %w", err)
	}
	return nil
}

// Activate clears the soft delete flag.
func (r *ClassroomRepository) Activate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE classrooms SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activate classroom: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
