package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/middleware"
	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
	"github.com/samoschool/davomat-backend/internal/validator"
)

// TeacherHandler serves the teacher portal: their subjects and classes,
// attendance taking, their own records, stats and exports. Every query
// is scoped to the authenticated teacher.
type TeacherHandler struct {
	dashboardService  *service.DashboardService
	subjectService    *service.SubjectService
	classService      *service.ClassService
	attendanceService *service.AttendanceService
	statsService      *service.StatsService
	reportService     *service.ReportService
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(
	dashboardService *service.DashboardService,
	subjectService *service.SubjectService,
	classService *service.ClassService,
	attendanceService *service.AttendanceService,
	statsService *service.StatsService,
	reportService *service.ReportService,
) *TeacherHandler {
	return &TeacherHandler{
		dashboardService:  dashboardService,
		subjectService:    subjectService,
		classService:      classService,
		attendanceService: attendanceService,
		statsService:      statsService,
		reportService:     reportService,
	}
}

// Dashboard godoc
// GET /api/v1/teacher/dashboard
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	dashboard, err := h.dashboardService.Teacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// MySubjects godoc
// GET /api/v1/teacher/subjects
// The subjects the teacher owns or is assigned to, with their classes.
func (h *TeacherHandler) MySubjects(c *gin.Context) {
	claims := middleware.GetClaims(c)
	subjects, err := h.subjectService.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// MyClasses godoc
// GET /api/v1/teacher/classes
// The classes the teacher works with: homerooms plus the classes of
// their subjects, each with its attendance rate.
func (h *TeacherHandler) MyClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	subjects, err := h.subjectService.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	var classIDs []int
	for _, s := range subjects {
		for _, ref := range s.Classes {
			classIDs = append(classIDs, ref.ID)
		}
	}

	classes, err := h.classService.ListForTeacher(c.Request.Context(), claims.UserID, classIDs)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// ClassRoster godoc
// GET /api/v1/teacher/subjects/:id/classes/:classID/students
// The roster the teacher is about to take attendance for. With ?date=
// each entry carries any status already recorded for that lesson, so a
// re-opened form shows the previous submission. Rejected when the
// teacher is not assigned to the subject or class.
func (h *TeacherHandler) ClassRoster(c *gin.Context) {
	subjectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	classID, ok := idParam(c, "classID")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	allowed, err := h.attendanceService.CanTakeAttendance(c.Request.Context(), claims.UserID, subjectID, classID)
	if err != nil {
		failDBError(c, err)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	students, err := h.classService.Roster(c.Request.Context(), classID)
	if err != nil {
		failDBError(c, err)
		return
	}

	if v := c.Query("date"); v != "" {
		if date, err := time.Parse("2006-01-02", v); err == nil {
			records, err := h.attendanceService.ListAll(c.Request.Context(), model.AttendanceFilter{
				SubjectID: subjectID,
				ClassID:   classID,
				Date:      &date,
			})
			if err != nil {
				failDBError(c, err)
				return
			}
			existing := make(map[int]model.AttendanceRecord, len(records))
			for _, r := range records {
				existing[r.StudentID] = r
			}
			for i := range students {
				if r, ok := existing[students[i].ID]; ok {
					students[i].Status = r.Status
					students[i].Notes = r.Notes
				}
			}
		}
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// TakeAttendance godoc
// POST /api/v1/teacher/subjects/:id/classes/:classID/attendance
// Records one lesson. Roster students missing from the payload are
// marked absent; re-submitting updates the existing records.
func (h *TeacherHandler) TakeAttendance(c *gin.Context) {
	subjectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	classID, ok := idParam(c, "classID")
	if !ok {
		return
	}

	var req model.TakeAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	saved, err := h.attendanceService.TakeAttendance(c.Request.Context(), claims.UserID, subjectID, classID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotAssigned):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, service.ErrInvalidStatus):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		default:
			failDBError(c, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"saved": saved})
}

// authorizeScope rejects subject_id/class_id filters that fall outside
// the teacher's assignments, so querying another teacher's subject
// fails instead of returning an empty result. Replies 403 and returns
// false when the scope is not theirs.
func (h *TeacherHandler) authorizeScope(c *gin.Context, teacherID int, filter model.AttendanceFilter) bool {
	if filter.SubjectID == 0 && filter.ClassID == 0 {
		return true
	}
	allowed, err := h.attendanceService.CanViewScope(c.Request.Context(), teacherID, filter.SubjectID, filter.ClassID)
	if err != nil {
		failDBError(c, err)
		return false
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return false
	}
	return true
}

// MyRecords godoc
// GET /api/v1/teacher/attendance
// The teacher's own records with filtering and pagination.
func (h *TeacherHandler) MyRecords(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if !h.authorizeScope(c, claims.UserID, filter) {
		return
	}
	filter.TeacherID = claims.UserID

	page, perPage := pageParams(c)
	records, total, err := h.attendanceService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"records": records}, paginationOf(page, perPage, total))
}

// UpdateRecord godoc
// PUT /api/v1/teacher/attendance/:id
// Edits one of the teacher's own records.
func (h *TeacherHandler) UpdateRecord(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	record, err := h.attendanceService.Update(c.Request.Context(), id, claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotRecordOwner) {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// DeleteRecord godoc
// DELETE /api/v1/teacher/attendance/:id
func (h *TeacherHandler) DeleteRecord(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.attendanceService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, service.ErrNotRecordOwner) {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// BulkDeleteRecords godoc
// POST /api/v1/teacher/attendance/bulk-delete
// Deletes a set of the teacher's own records; foreign ids are skipped.
func (h *TeacherHandler) BulkDeleteRecords(c *gin.Context) {
	var req model.BulkDeleteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	deleted, err := h.attendanceService.BulkDelete(c.Request.Context(), req.IDs, claims.UserID)
	if err != nil {
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

// MyStats godoc
// GET /api/v1/teacher/stats
// Aggregates over the teacher's own records for a rolling period.
func (h *TeacherHandler) MyStats(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Date, filter.DateFrom, filter.DateTo = nil, nil, nil
	claims := middleware.GetClaims(c)
	if !h.authorizeScope(c, claims.UserID, filter) {
		return
	}
	filter.TeacherID = claims.UserID

	overview, err := h.statsService.Overview(c.Request.Context(), filter, service.Period(c.DefaultQuery("period", "week")))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": overview})
}

// GenerateReport godoc
// GET /api/v1/teacher/reports
// Builds a report over the teacher's own records.
func (h *TeacherHandler) GenerateReport(c *gin.Context) {
	claims := middleware.GetClaims(c)
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{TeacherID: claims.UserID})
	if !ok {
		return
	}
	if !h.authorizeScope(c, claims.UserID, params.Filter) {
		return
	}

	preview, err := h.reportService.Generate(c.Request.Context(), params, claims.Username)
	if err != nil {
		failReportError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// ExportReportCSV godoc
// GET /api/v1/teacher/reports/export/csv
func (h *TeacherHandler) ExportReportCSV(c *gin.Context) {
	claims := middleware.GetClaims(c)
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{TeacherID: claims.UserID})
	if !ok {
		return
	}
	if !h.authorizeScope(c, claims.UserID, params.Filter) {
		return
	}
	exportCSV(c, h.reportService, params)
}

// ExportReportExcel godoc
// GET /api/v1/teacher/reports/export/excel
func (h *TeacherHandler) ExportReportExcel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	params, ok := reportParamsFromQuery(c, model.AttendanceFilter{TeacherID: claims.UserID})
	if !ok {
		return
	}
	if !h.authorizeScope(c, claims.UserID, params.Filter) {
		return
	}
	exportExcel(c, h.reportService, params)
}

// ExportMyRecords godoc
// GET /api/v1/teacher/attendance/export
// Dumps the teacher's filtered records (?format=csv|excel).
func (h *TeacherHandler) ExportMyRecords(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if !h.authorizeScope(c, claims.UserID, filter) {
		return
	}
	filter.TeacherID = claims.UserID

	exportRecords(c, h.reportService, filter)
}
