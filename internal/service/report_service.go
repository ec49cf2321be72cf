package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/report"
	"github.com/samoschool/davomat-backend/internal/repository"
)

// Report errors surfaced to handlers.
var (
	ErrInvalidReportType = errors.New("unknown report type")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// previewRowCap bounds the JSON preview of a report.
const previewRowCap = 50

// ReportParams selects what a report covers. Scoping fields on the
// filter (TeacherID, StudentID) are set by the handler from the caller's
// role, never from user input.
type ReportParams struct {
	Type     report.Type
	GroupBy  report.GroupBy
	DateFrom string
	DateTo   string
	Filter   model.AttendanceFilter
}

// Preview is the JSON shape of a generated report: the table plus
// metadata, with rows capped for display.
type Preview struct {
	Report   interface{}     `json:"report"`
	Columns  []string        `json:"columns"`
	Rows     [][]string      `json:"rows"`
	Metadata report.Metadata `json:"metadata"`
}

// ReportService builds and exports attendance reports.
type ReportService struct {
	attendanceRepo *repository.AttendanceRepository
}

// NewReportService creates a new ReportService.
func NewReportService(attendanceRepo *repository.AttendanceRepository) *ReportService {
	return &ReportService{attendanceRepo: attendanceRepo}
}

func (s *ReportService) build(ctx context.Context, p ReportParams, generatedBy string) (report.Tabular, report.Metadata, error) {
	if !p.Type.Valid() {
		return nil, report.Metadata{}, ErrInvalidReportType
	}

	f := p.Filter
	from, to, err := resolveRange(p.DateFrom, p.DateTo)
	if err != nil {
		return nil, report.Metadata{}, err
	}
	f.DateFrom = &from
	f.DateTo = &to

	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return nil, report.Metadata{}, err
	}

	tab := report.Build(p.Type, p.GroupBy, records)
	meta := report.Metadata{
		ReportType:   p.Type,
		StartDate:    from.Format("2006-01-02"),
		EndDate:      to.Format("2006-01-02"),
		TotalRecords: len(records),
		GeneratedAt:  time.Now().Format(time.RFC3339),
		GeneratedBy:  generatedBy,
	}
	return tab, meta, nil
}

// Generate builds the report and returns its JSON preview, rows capped.
func (s *ReportService) Generate(ctx context.Context, p ReportParams, generatedBy string) (*Preview, error) {
	tab, meta, err := s.build(ctx, p, generatedBy)
	if err != nil {
		return nil, err
	}

	rows := tab.Rows()
	if len(rows) > previewRowCap {
		rows = rows[:previewRowCap]
	}
	return &Preview{
		Report:   tab,
		Columns:  tab.Columns(),
		Rows:     rows,
		Metadata: meta,
	}, nil
}

// ExportCSV builds the report and writes it as CSV. Returns the
// suggested file name.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, p ReportParams, generatedBy string) (string, error) {
	tab, _, err := s.build(ctx, p, generatedBy)
	if err != nil {
		return "", err
	}
	if err := report.WriteCSV(w, tab); err != nil {
		return "", err
	}
	return report.FileName(p.Type, "csv", time.Now()), nil
}

// ExportExcel builds the report and writes it as a styled workbook.
// Returns the suggested file name.
func (s *ReportService) ExportExcel(ctx context.Context, w io.Writer, p ReportParams, generatedBy string) (string, error) {
	tab, _, err := s.build(ctx, p, generatedBy)
	if err != nil {
		return "", err
	}
	if err := report.WriteExcel(w, tab); err != nil {
		return "", err
	}
	return report.FileName(p.Type, "xlsx", time.Now()), nil
}

// ExportRecordsCSV writes the raw filtered record dump as CSV.
func (s *ReportService) ExportRecordsCSV(ctx context.Context, w io.Writer, f model.AttendanceFilter) (string, error) {
	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return "", err
	}
	if err := report.WriteCSV(w, report.BuildRecordExport(records)); err != nil {
		return "", err
	}
	return "attendance_" + time.Now().Format("20060102") + ".csv", nil
}

// ExportRecordsExcel writes the raw filtered record dump as a workbook.
func (s *ReportService) ExportRecordsExcel(ctx context.Context, w io.Writer, f model.AttendanceFilter) (string, error) {
	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return "", err
	}
	if err := report.WriteExcel(w, report.BuildRecordExport(records)); err != nil {
		return "", err
	}
	return "attendance_" + time.Now().Format("20060102") + ".xlsx", nil
}

// resolveRange parses the date bounds. Both dates must be given
// together; omitting both defaults to the last 30 days ending today.
// A half-specified or inverted range is rejected.
func resolveRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" && toStr == "" {
		now := time.Now()
		to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return to.AddDate(0, 0, -29), to, nil
	}
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}
