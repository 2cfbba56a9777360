package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Summary(c *gin.Context) {
	days := intQuery(c, "days", 30)
	summary, err := dh.dashboardService.Summary(c.Request.Context(), days)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}
