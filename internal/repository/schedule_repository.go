package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniportal/portal-api/internal/models"
)

// ScheduleRepository provides persistence for schedules and their weekly
// entries. Multi-step mutations run against a caller-provided transaction so
// the service layer can keep reconciliation atomic.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InTx runs fn inside a single transaction. Any error rolls the whole
// transaction back; fn's writes become visible only on commit.
func (r *ScheduleRepository) InTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule tx: %w", err)
	}
	return nil
}

// Create stores a new schedule shell without entries.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, course_id, classroom_id, created_by, created_at, updated_at, is_deleted) VALUES (:id, :course_id, :classroom_id, :created_by, :created_at, :updated_at, FALSE)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// FindByID loads an active schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, course_id, classroom_id, created_by, created_at, updated_at, is_deleted, deleted_at FROM schedules WHERE id = $1 AND is_deleted = FALSE`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListSummaries returns joined schedule patterns for list views and export.
func (r *ScheduleRepository) ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error) {
	base := `FROM schedules s
JOIN courses c ON c.id = s.course_id AND c.is_deleted = FALSE
JOIN subjects sub ON sub.id = c.subject_id
JOIN semesters sem ON sem.id = c.semester_id
JOIN accounts t ON t.id = c.teacher_id
JOIN classrooms cr ON cr.id = s.classroom_id
WHERE s.is_deleted = FALSE`
	var conditions []string
	var args []interface{}

	if filter.SemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("c.semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(sub.name ILIKE $%d OR sub.code ILIKE $%d OR t.full_name ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
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

	query := fmt.Sprintf(`SELECT s.id AS schedule_id, s.course_id, sub.name AS subject_name, sub.code AS subject_code, t.full_name AS teacher_name, sem.name AS semester_name, s.classroom_id, cr.room_name AS classroom_name %s ORDER BY sub.name ASC LIMIT %d OFFSET %d`, base, size, offset)
	var summaries []models.ScheduleSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule summaries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule summaries: %w", err)
	}

	return summaries, total, nil
}

// ListActiveEntries returns non-deleted entries ordered by weekday then start.
func (r *ScheduleRepository) ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, schedule_id, day_of_week, start_time, end_time, created_by, created_at, updated_at, is_deleted, deleted_at FROM schedule_entries WHERE schedule_id = $1 AND is_deleted = FALSE ORDER BY day_of_week ASC, start_time ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// FindEntryByID loads an active entry by id.
func (r *ScheduleRepository) FindEntryByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	const query = `SELECT id, schedule_id, day_of_week, start_time, end_time, created_by, created_at, updated_at, is_deleted, deleted_at FROM schedule_entries WHERE id = $1 AND is_deleted = FALSE`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// InsertEntries adds entries within the provided transaction.
func (r *ScheduleRepository) InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO schedule_entries (id, schedule_id, day_of_week, start_time, end_time, created_by, created_at, updated_at, is_deleted) VALUES (:id, :schedule_id, :day_of_week, :start_time, :end_time, :created_by, :created_at, :updated_at, FALSE)`
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		entry.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}
	return nil
}

// UpdateEntryTimes rewrites an entry's time range in place, keeping its id.
func (r *ScheduleRepository) UpdateEntryTimes(ctx context.Context, exec sqlx.ExtContext, entryID string, start, end models.ClockTime) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `UPDATE schedule_entries SET start_time = $1, end_time = $2, updated_at = $3 WHERE id = $4 AND is_deleted = FALSE`, start, end, time.Now().UTC(), entryID); err != nil {
		return fmt.Errorf("update schedule entry times: %w", err)
	}
	return nil
}

// SoftDeleteEntries marks the given entries deleted.
func (r *ScheduleRepository) SoftDeleteEntries(ctx context.Context, exec sqlx.ExtContext, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()
	if _, err := target.ExecContext(ctx, `UPDATE schedule_entries SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = ANY($2) AND is_deleted = FALSE`, now, pq.Array(entryIDs)); err != nil {
		return fmt.Errorf("soft delete schedule entries: %w", err)
	}
	return nil
}

// UpdateBinding rewrites the schedule's course/classroom references.
func (r *ScheduleRepository) UpdateBinding(ctx context.Context, exec sqlx.ExtContext, scheduleID, courseID, classroomID string) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `UPDATE schedules SET course_id = $1, classroom_id = $2, updated_at = $3 WHERE id = $4 AND is_deleted = FALSE`, courseID, classroomID, time.Now().UTC(), scheduleID); err != nil {
		return fmt.Errorf("update schedule binding: %w", err)
	}
	return nil
}

// SoftDelete marks the schedule and all of its active entries deleted in a
// single transaction. An active entry under a deleted schedule would violate
// the aggregate invariant.
func (r *ScheduleRepository) SoftDelete(ctx context.Context, scheduleID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule delete tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `UPDATE schedules SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, now, scheduleID); err != nil {
		return fmt.Errorf("soft delete schedule: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE schedule_entries SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE schedule_id = $2 AND is_deleted = FALSE`, now, scheduleID); err != nil {
		return fmt.Errorf("soft delete schedule entries: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule delete tx: %w", err)
	}
	return nil
}

// ListEntriesForAvailability loads the candidate entries for occupancy
// evaluation: active entries of the semester's courses falling on one of the
// given weekdays, joined with classroom and course context.
func (r *ScheduleRepository) ListEntriesForAvailability(ctx context.Context, semesterID string, days []int) ([]models.AvailabilityEntryRow, error) {
	const query = `SELECT e.id AS entry_id, e.schedule_id, e.day_of_week, e.start_time, e.end_time,
s.classroom_id, s.course_id, sub.name AS subject_name, t.full_name AS teacher_name
FROM schedule_entries e
JOIN schedules s ON s.id = e.schedule_id AND s.is_deleted = FALSE
JOIN courses c ON c.id = s.course_id AND c.is_deleted = FALSE
JOIN subjects sub ON sub.id = c.subject_id
JOIN accounts t ON t.id = c.teacher_id
WHERE e.is_deleted = FALSE AND c.semester_id = $1 AND e.day_of_week = ANY($2)
ORDER BY s.classroom_id, e.day_of_week, e.start_time`
	var rows []models.AvailabilityEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, semesterID, pq.Array(days)); err != nil {
		return nil, fmt.Errorf("list availability entries: %w", err)
	}
	return rows, nil
}
