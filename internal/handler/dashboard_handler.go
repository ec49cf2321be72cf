package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
)

// DashboardHandler handles the admin landing view.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// AdminDashboard godoc
// GET /api/v1/admin/dashboard
// School-wide totals, today's rate, the weekly series and recent records.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Admin(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}
