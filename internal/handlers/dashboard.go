// internal/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /v1/portal/dashboard
// Always 200: each panel carries its own state.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	p, ok := middleware.PortalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	utils.SuccessResponse(c, h.dashboardService.Load(c.Request.Context(), p, utils.GetLangFromContext(c)))
}

// GET /v1/workflow/statuses
func GetStatusCatalog(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"statuses":      workflow.Catalog(lang),
		"license_types": licenseTypeLabels(lang),
	})
}
