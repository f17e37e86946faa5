package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sched := &models.Schedule{CourseID: "course-1", ClassroomID: "room-1"}
	require.NoError(t, repo.Create(context.Background(), sched))
	require.NotEmpty(t, sched.ID)

	rows := sqlmock.NewRows([]string{"id", "course_id", "classroom_id", "created_by", "created_at", "updated_at", "is_deleted", "deleted_at"}).
		AddRow(sched.ID, "course-1", "room-1", nil, time.Now(), time.Now(), false, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, classroom_id")).
		WithArgs(sched.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), sched.ID)
	require.NoError(t, err)
	require.Equal(t, "course-1", found.CourseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListActiveEntriesOrdering(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	rows := sqlmock.NewRows([]string{"id", "schedule_id", "day_of_week", "start_time", "end_time", "created_by", "created_at", "updated_at", "is_deleted", "deleted_at"}).
		AddRow("e-1", "sched-1", 1, "08:00", "09:30", nil, time.Now(), time.Now(), false, nil).
		AddRow("e-2", "sched-1", 3, "22:00", "02:00", nil, time.Now(), time.Now(), false, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY day_of_week ASC, start_time ASC")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	entries, err := repo.ListActiveEntries(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1, entries[0].DayOfWeek)
	require.True(t, entries[1].Overnight())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryInTxReconcileSteps(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	start, err := models.ParseClockTime("10:00")
	require.NoError(t, err)
	end, err := models.ParseClockTime("11:30")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET is_deleted = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET start_time = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_entries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.InTx(context.Background(), func(exec sqlx.ExtContext) error {
		if err := repo.SoftDeleteEntries(context.Background(), exec, []string{"e-mon"}); err != nil {
			return err
		}
		if err := repo.UpdateEntryTimes(context.Background(), exec, "e-wed", start, end); err != nil {
			return err
		}
		return repo.InsertEntries(context.Background(), exec, []models.ScheduleEntry{
			{ScheduleID: "sched-1", DayOfWeek: 7, StartTime: start, EndTime: end},
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryInTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET is_deleted = TRUE")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(exec sqlx.ExtContext) error {
		return repo.SoftDeleteEntries(context.Background(), exec, []string{"e-mon"})
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositorySoftDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET is_deleted = TRUE")).
		WithArgs(sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET is_deleted = TRUE")).
		WithArgs(sqlmock.AnyArg(), "sched-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.SoftDelete(context.Background(), "sched-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListEntriesForAvailability(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	rows := sqlmock.NewRows([]string{"entry_id", "schedule_id", "day_of_week", "start_time", "end_time", "classroom_id", "course_id", "subject_name", "teacher_name"}).
		AddRow("e-1", "sched-1", 2, "08:00", "09:30", "room-1", "course-1", "Algorithms", "A. Hoare")
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries e")).
		WithArgs("sem-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	entries, err := repo.ListEntriesForAvailability(context.Background(), "sem-1", []int{2, 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "room-1", entries[0].ClassroomID)
	require.NoError(t, mock.ExpectationsWereMet())
}
