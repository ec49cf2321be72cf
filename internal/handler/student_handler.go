package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/middleware"
	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
)

// StudentHandler serves the student portal: the student's own records
// and statistics, nothing else.
type StudentHandler struct {
	dashboardService  *service.DashboardService
	attendanceService *service.AttendanceService
	statsService      *service.StatsService
	reportService     *service.ReportService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	dashboardService *service.DashboardService,
	attendanceService *service.AttendanceService,
	statsService *service.StatsService,
	reportService *service.ReportService,
) *StudentHandler {
	return &StudentHandler{
		dashboardService:  dashboardService,
		attendanceService: attendanceService,
		statsService:      statsService,
		reportService:     reportService,
	}
}

// Dashboard godoc
// GET /api/v1/student/dashboard
func (h *StudentHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	dashboard, err := h.dashboardService.Student(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// MyRecords godoc
// GET /api/v1/student/attendance
// The student's own records with filtering and pagination.
func (h *StudentHandler) MyRecords(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	filter.StudentID = claims.UserID

	page, perPage := pageParams(c)
	records, total, err := h.attendanceService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"records": records}, paginationOf(page, perPage, total))
}

// MyStats godoc
// GET /api/v1/student/stats
// Aggregates over the student's own records for a rolling period.
func (h *StudentHandler) MyStats(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Date, filter.DateFrom, filter.DateTo = nil, nil, nil
	claims := middleware.GetClaims(c)
	filter.StudentID = claims.UserID

	overview, err := h.statsService.Overview(c.Request.Context(), filter, service.Period(c.DefaultQuery("period", "month")))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": overview})
}

// ExportMyRecords godoc
// GET /api/v1/student/attendance/export
// Dumps the student's filtered records (?format=csv|excel).
func (h *StudentHandler) ExportMyRecords(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	filter.StudentID = claims.UserID

	exportRecords(c, h.reportService, filter)
}
