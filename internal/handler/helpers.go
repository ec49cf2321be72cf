package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/response"
)

// defaultPerPage is the page size for list endpoints.
const defaultPerPage = 50

// idParam parses an integer path parameter, responding with INVALID_ID
// on failure.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pageParams reads ?page= with the fixed page size.
func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page, defaultPerPage
}

func paginationOf(page, perPage, total int) *response.Pagination {
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
	}
}

// attendanceFilterFromQuery reads the shared record-list filters. The
// caller layers its own scoping (teacher/student id) on top.
func attendanceFilterFromQuery(c *gin.Context) (model.AttendanceFilter, bool) {
	f := model.AttendanceFilter{
		ClassName:   c.Query("class_name"),
		SubjectName: c.Query("subject_name"),
		StudentName: c.Query("student"),
	}

	if v := c.Query("class_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return f, false
		}
		f.ClassID = id
	}
	if v := c.Query("subject_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return f, false
		}
		f.SubjectID = id
	}
	if v := c.Query("status"); v != "" {
		status := model.AttendanceStatus(v)
		if !status.Valid() {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return f, false
		}
		f.Status = status
	}

	// Unparsable dates fall back to "no filter" instead of aborting the
	// list request. Report exports validate their mandatory range
	// themselves.
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"date", &f.Date},
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	} {
		if v := c.Query(q.name); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				*q.dst = &t
			}
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDateRange)
		return f, false
	}
	return f, true
}

// failDBError maps database errors onto the API error taxonomy.
func failDBError(c *gin.Context, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique violation
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		case "23503": // foreign key violation
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
