package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
)

func semesterColumns() []string {
	return []string{"id", "name", "start_date", "end_date", "created_by", "created_at", "updated_at", "is_deleted", "deleted_at"}
}

func TestSemesterRepositoryFindCurrent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("start_date <= $1 AND end_date >= $1")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(semesterColumns()).
			AddRow("sem-1", "Odd 2026/2027", start, end, nil, start, start, false, nil))

	semester, err := repo.FindCurrent(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, "sem-1", semester.ID)
	require.Equal(t, "Odd 2026/2027", semester.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindCurrentNoneRunning(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("start_date <= $1 AND end_date >= $1")).
		WithArgs(now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindCurrent(context.Background(), now)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryListFiltersBySearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("name ILIKE $1")).
		WithArgs("%Odd%").
		WillReturnRows(sqlmock.NewRows(semesterColumns()).
			AddRow("sem-1", "Odd 2026/2027", start, end, nil, start, start, false, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%Odd%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	semesters, total, err := repo.List(context.Background(), models.SemesterFilter{Search: "Odd"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, semesters, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
