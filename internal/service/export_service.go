package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/pkg/export"
	appErrors "github.com/uniportal/portal-api/pkg/errors"
)

// Timetable export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type scheduleSummarySource interface {
	ListSummaries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleSummary, int, error)
	ListActiveEntries(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportArchive interface {
	Save(name string, data []byte) error
	Read(name string) ([]byte, error)
}

type downloadLinkSigner interface {
	Sign(name string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// TimetableExport is a rendered timetable document. DownloadToken is set
// only when the archive is enabled; it grants re-download of the same
// document until LinkExpiresAt without an API token.
type TimetableExport struct {
	Filename      string
	ContentType   string
	Payload       []byte
	DownloadToken string
	LinkExpiresAt time.Time
}

// ExportService renders the weekly timetable as a downloadable document.
// One output row per schedule entry, ordered by schedule then weekday.
// When an archive and signer are configured, each render is also stored
// on disk and a signed download link is minted for it.
type ExportService struct {
	schedules scheduleSummarySource
	archive   exportArchive
	signer    downloadLinkSigner
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. archive and signer may be
// nil, which disables the download-link flow.
func NewExportService(schedules scheduleSummarySource, archive exportArchive, signer downloadLinkSigner, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		archive:   archive,
		signer:    signer,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
		now:       time.Now,
	}
}

var timetableHeaders = []string{"Day", "Start", "End", "Subject", "Code", "Teacher", "Classroom", "Semester"}

// Timetable renders the timetable for the given filter in the requested
// format.
func (s *ExportService) Timetable(ctx context.Context, filter models.ScheduleFilter, format string) (*TimetableExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	// Export ignores pagination; the timetable is always complete.
	filter.Page = 1
	filter.PageSize = 0

	summaries, _, err := s.schedules.ListSummaries(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	dataset := export.Dataset{Headers: timetableHeaders}
	for _, summary := range summaries {
		entries, err := s.schedules.ListActiveEntries(ctx, summary.ScheduleID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
		}
		for _, entry := range entries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Day":       models.WeekdayName(entry.DayOfWeek),
				"Start":     entry.StartTime.String(),
				"End":       entry.EndTime.String(),
				"Subject":   summary.SubjectName,
				"Code":      summary.SubjectCode,
				"Teacher":   summary.TeacherName,
				"Classroom": summary.ClassroomName,
				"Semester":  summary.SemesterName,
			})
		}
	}

	result := &TimetableExport{
		Filename: fmt.Sprintf("timetable-%s.%s", s.now().UTC().Format("20060102-150405"), format),
	}
	switch format {
	case ExportFormatCSV:
		result.ContentType = "text/csv"
		result.Payload, err = s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
	default:
		result.ContentType = "application/pdf"
		result.Payload, err = s.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
	}

	s.archiveExport(result)
	return result, nil
}

// archiveExport stores the document and mints a download link. Archiving
// is best effort; a storage failure never loses a successful render.
func (s *ExportService) archiveExport(result *TimetableExport) {
	if s.archive == nil || s.signer == nil {
		return
	}
	if err := s.archive.Save(result.Filename, result.Payload); err != nil {
		s.logger.Warn("failed to archive timetable export", zap.String("file", result.Filename), zap.Error(err))
		return
	}
	token, expiresAt, err := s.signer.Sign(result.Filename)
	if err != nil {
		s.logger.Warn("failed to sign timetable download link", zap.String("file", result.Filename), zap.Error(err))
		return
	}
	result.DownloadToken = token
	result.LinkExpiresAt = expiresAt
}

// Download resolves a signed token minted by Timetable and returns the
// archived document it references.
func (s *ExportService) Download(ctx context.Context, token string) (*TimetableExport, error) {
	if s.archive == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable archive disabled")
	}
	name, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	payload, err := s.archive.Read(name)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archived timetable no longer available")
	}
	contentType := "application/pdf"
	if strings.HasSuffix(name, ".csv") {
		contentType = "text/csv"
	}
	return &TimetableExport{Filename: name, ContentType: contentType, Payload: payload}, nil
}
