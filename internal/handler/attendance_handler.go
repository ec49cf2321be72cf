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

// AttendanceHandler handles admin-facing attendance record management.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ListRecords godoc
// GET /api/v1/admin/attendance
// Lists records with filtering and pagination, plus the status counts
// over the whole filtered set. Without a date or range the view is
// today's journal.
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	if filter.Date == nil && filter.DateFrom == nil && filter.DateTo == nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filter.Date = &today
	}

	page, perPage := pageParams(c)
	records, total, err := h.attendanceService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	breakdown, err := h.attendanceService.Breakdown(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{
		"records":   records,
		"breakdown": breakdown,
	}, paginationOf(page, perPage, total))
}

// GetRecord godoc
// GET /api/v1/admin/attendance/:id
func (h *AttendanceHandler) GetRecord(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	record, err := h.attendanceService.GetByID(c.Request.Context(), id)
	if err != nil {
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// TakeAttendance godoc
// POST /api/v1/admin/attendance
// Records a lesson's statuses on behalf of the administration. Roster
// students missing from the payload are marked absent.
func (h *AttendanceHandler) TakeAttendance(c *gin.Context) {
	var req model.AdminTakeAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	saved, err := h.attendanceService.AdminTakeAttendance(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotInClass):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		case errors.Is(err, service.ErrInvalidStatus):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		default:
			failDBError(c, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"saved": saved})
}

// UpdateRecord godoc
// PUT /api/v1/admin/attendance/:id
func (h *AttendanceHandler) UpdateRecord(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Update(c.Request.Context(), id, 0, &req)
	if err != nil {
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// DeleteRecord godoc
// DELETE /api/v1/admin/attendance/:id
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(c.Request.Context(), id, 0); err != nil {
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// BulkDeleteRecords godoc
// POST /api/v1/admin/attendance/bulk-delete
func (h *AttendanceHandler) BulkDeleteRecords(c *gin.Context) {
	var req model.BulkDeleteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	deleted, err := h.attendanceService.BulkDelete(c.Request.Context(), req.IDs, 0)
	if err != nil {
		failDBError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
