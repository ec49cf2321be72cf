package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
)

// StatsHandler handles admin-facing school-wide statistics.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview godoc
// GET /api/v1/admin/stats
// Aggregates over a rolling period (?period=week|month|quarter|year)
// with the shared record filters applied.
func (h *StatsHandler) Overview(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	// Period overrides explicit date bounds.
	filter.Date, filter.DateFrom, filter.DateTo = nil, nil, nil

	overview, err := h.statsService.Overview(c.Request.Context(), filter, service.Period(c.DefaultQuery("period", "week")))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": overview})
}

// DailyChart godoc
// GET /api/v1/admin/stats/daily
// One percentage per day over the period, for line charts.
func (h *StatsHandler) DailyChart(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Date, filter.DateFrom, filter.DateTo = nil, nil, nil

	series, err := h.statsService.DailyChart(c.Request.Context(), filter, service.Period(c.DefaultQuery("period", "week")))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chart": series})
}

// MonthlyChart godoc
// GET /api/v1/admin/stats/monthly
// Present-rate for each of the last N calendar months (?months=6).
func (h *StatsHandler) MonthlyChart(c *gin.Context) {
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Date, filter.DateFrom, filter.DateTo = nil, nil, nil

	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	if months < 1 || months > 24 {
		months = 6
	}

	points, err := h.statsService.MonthlyChart(c.Request.Context(), filter, months)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"trend": points})
}
