package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/middleware"
	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/report"
	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler handles admin-facing report generation and export.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportParamsFromQuery(c *gin.Context, scope model.AttendanceFilter) (service.ReportParams, bool) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return service.ReportParams{}, false
	}
	filter.TeacherID = scope.TeacherID
	filter.StudentID = scope.StudentID

	if v := c.Query("student_id"); v != "" && scope.StudentID == 0 {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return service.ReportParams{}, false
		}
		filter.StudentID = id
	}

	return service.ReportParams{
		Type:     report.Type(c.DefaultQuery("type", "summary")),
		GroupBy:  report.GroupBy(c.DefaultQuery("group_by", "day")),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Filter:   filter,
	}, true
}

func failReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReportType):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, service.ErrInvalidDateRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDateRange)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Generate godoc
// GET /api/v1/admin/reports
// Builds a report and returns its JSON preview (rows capped).
func (h *ReportHandler) Generate(c *gin.Context) {
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{})
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	preview, err := h.reportService.Generate(c.Request.Context(), params, claims.Username)
	if err != nil {
		failReportError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// ExportCSV godoc
// GET /api/v1/admin/reports/export/csv
// Streams the report as UTF-8 CSV with a BOM.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{})
	if !ok {
		return
	}
	exportCSV(c, h.reportService, params)
}

// ExportExcel godoc
// GET /api/v1/admin/reports/export/excel
// Streams the report as a styled XLSX workbook with the same rows as
// the CSV export.
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{})
	if !ok {
		return
	}
	exportExcel(c, h.reportService, params)
}

// exportRecords dumps a filtered record set (?format=csv|excel).
func exportRecords(c *gin.Context, svc *service.ReportService, filter model.AttendanceFilter) {
	var buf bytes.Buffer
	var name string
	var err error

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		name, err = svc.ExportRecordsCSV(c.Request.Context(), &buf, filter)
	case "excel", "xlsx":
		name, err = svc.ExportRecordsExcel(c.Request.Context(), &buf, filter)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	contentType := contentTypeCSV
	if format != "csv" {
		contentType = contentTypeXLSX
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Exports are buffered so errors can still produce a JSON error body
// and the file name header lands before any payload bytes.
func exportCSV(c *gin.Context, svc *service.ReportService, params service.ReportParams) {
	claims := middleware.GetClaims(c)

	var buf bytes.Buffer
	name, err := svc.ExportCSV(c.Request.Context(), &buf, params, claims.Username)
	if err != nil {
		failReportError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentTypeCSV, buf.Bytes())
}

func exportExcel(c *gin.Context, svc *service.ReportService, params service.ReportParams) {
	claims := middleware.GetClaims(c)

	var buf bytes.Buffer
	name, err := svc.ExportExcel(c.Request.Context(), &buf, params, claims.Username)
	if err != nil {
		failReportError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}
