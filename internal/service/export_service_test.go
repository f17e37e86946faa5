package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/portal-api/internal/models"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
	"github.com/uniportal/portal-api/pkg/storage"
)

type summarySourceStub struct {
	summaries []models.ScheduleSummary
	entries   map[string][]models.ScheduleEntry
}

func (s *summarySourceStub) ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error) {
	return s.summaries, len(s.summaries), nil
}

func (s *summarySourceStub) ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	return s.entries[scheduleID], nil
}

type archiveStub struct {
	files   map[string][]byte
	saveErr error
}

func (a *archiveStub) Save(name string, data []byte) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	if a.files == nil {
		a.files = make(map[string][]byte)
	}
	a.files[name] = data
	return nil
}

func (a *archiveStub) Read(name string) ([]byte, error) {
	data, ok := a.files[name]
	if !ok {
		return nil, assert.AnError
	}
	return data, nil
}

func TestExportTimetableCSV(t *testing.T) {
	source := &summarySourceStub{
		summaries: []models.ScheduleSummary{{
			ScheduleID:    "sched-1",
			SubjectName:   "Algorithms",
			SubjectCode:   "CS201",
			TeacherName:   "A. Hoare",
			SemesterName:  "Fall 2026",
			ClassroomName: "101",
		}},
		entries: map[string][]models.ScheduleEntry{
			"sched-1": {
				{ID: "e-1", DayOfWeek: 1, StartTime: mustClock(t, "08:00"), EndTime: mustClock(t, "09:30")},
				{ID: "e-2", DayOfWeek: 3, StartTime: mustClock(t, "08:00"), EndTime: mustClock(t, "09:30")},
			},
		},
	}
	svc := NewExportService(source, nil, nil, nil, nil, nil)

	result, err := svc.Timetable(context.Background(), models.ScheduleFilter{}, "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Filename, "timetable-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Empty(t, result.DownloadToken)

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Day")
	assert.Contains(t, lines[1], "Monday")
	assert.Contains(t, lines[1], "08:00")
	assert.Contains(t, lines[2], "Wednesday")
	assert.Contains(t, body, "CS201")
}

func TestExportTimetablePDF(t *testing.T) {
	source := &summarySourceStub{
		summaries: []models.ScheduleSummary{{ScheduleID: "sched-1", SubjectName: "Algorithms"}},
		entries: map[string][]models.ScheduleEntry{
			"sched-1": {{ID: "e-1", DayOfWeek: 5, StartTime: mustClock(t, "13:00"), EndTime: mustClock(t, "14:30")}},
		},
	}
	svc := NewExportService(source, nil, nil, nil, nil, nil)

	result, err := svc.Timetable(context.Background(), models.ScheduleFilter{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportTimetableUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&summarySourceStub{}, nil, nil, nil, nil, nil)

	_, err := svc.Timetable(context.Background(), models.ScheduleFilter{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportTimetableArchivedWithDownloadLink(t *testing.T) {
	source := &summarySourceStub{
		summaries: []models.ScheduleSummary{{ScheduleID: "sched-1", SubjectName: "Algorithms"}},
		entries: map[string][]models.ScheduleEntry{
			"sched-1": {{ID: "e-1", DayOfWeek: 2, StartTime: mustClock(t, "10:00"), EndTime: mustClock(t, "11:30")}},
		},
	}
	archive := &archiveStub{}
	signer := storage.NewLinkSigner("secret", time.Hour)
	svc := NewExportService(source, archive, signer, nil, nil, nil)

	result, err := svc.Timetable(context.Background(), models.ScheduleFilter{}, "csv")
	require.NoError(t, err)
	require.NotEmpty(t, result.DownloadToken)
	assert.False(t, result.LinkExpiresAt.IsZero())
	require.Contains(t, archive.files, result.Filename)

	downloaded, err := svc.Download(context.Background(), result.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, result.Filename, downloaded.Filename)
	assert.Equal(t, "text/csv", downloaded.ContentType)
	assert.Equal(t, result.Payload, downloaded.Payload)
}

func TestExportTimetableArchiveFailureStillRenders(t *testing.T) {
	source := &summarySourceStub{
		summaries: []models.ScheduleSummary{{ScheduleID: "sched-1"}},
		entries: map[string][]models.ScheduleEntry{
			"sched-1": {{ID: "e-1", DayOfWeek: 1, StartTime: mustClock(t, "08:00"), EndTime: mustClock(t, "09:00")}},
		},
	}
	archive := &archiveStub{saveErr: assert.AnError}
	svc := NewExportService(source, archive, storage.NewLinkSigner("secret", time.Hour), nil, nil, nil)

	result, err := svc.Timetable(context.Background(), models.ScheduleFilter{}, "csv")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Payload)
	assert.Empty(t, result.DownloadToken)
}

func TestExportDownloadBadToken(t *testing.T) {
	svc := NewExportService(&summarySourceStub{}, &archiveStub{}, storage.NewLinkSigner("secret", time.Hour), nil, nil, nil)

	_, err := svc.Download(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
