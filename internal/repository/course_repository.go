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

// CourseRepository handles persistence for course offerings.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository instantiates a course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, subject_id, department_id, teacher_id, semester_id, credits, created_by, created_at, updated_at, is_deleted, deleted_at"

// List returns courses matching provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE is_deleted = FALSE"
	var conditions []string
	var args []interface{}

	if filter.SemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", courseColumns, base, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// ListOngoing returns active courses belonging to the semester running at the
// given instant, for schedule forms.
func (r *CourseRepository) ListOngoing(ctx context.Context, now time.Time) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT c.%s FROM courses c JOIN semesters s ON s.id = c.semester_id WHERE c.is_deleted = FALSE AND s.is_deleted = FALSE AND s.start_date <= $1 AND s.end_date >= $1 ORDER BY c.created_at DESC`, strings.ReplaceAll(courseColumns, ", ", ", c."))
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, now); err != nil {
		return nil, fmt.Errorf("list ongoing courses: %w", err)
	}
	return courses, nil
}

// FindByID loads an active course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1 AND is_deleted = FALSE", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, subject_id, department_id, teacher_id, semester_id, credits, created_by, created_at, updated_at, is_deleted) VALUES (:id, :subject_id, :department_id, :teacher_id, :semester_id, :credits, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET subject_id = :subject_id, department_id = :department_id, teacher_id = :teacher_id, semester_id = :semester_id, credits = :credits, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// SoftDelete flags a course deleted.
func (r *CourseRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE courses SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, id); err != nil {
		return fmt.Errorf("soft delete course: %w", err)
	}
	return nil
}

// Activate clears the soft delete flag.
func (r *CourseRepository) Activate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE courses SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activate course: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
