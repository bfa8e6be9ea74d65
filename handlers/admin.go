package handlers

import (
	"net/http"

	"coursehub/services/admin"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the dashboard and published policies.
type AdminHandler struct {
	AdminService admin.AdminService
}

// StatsHandler handles GET /api/admin/stats.
func (ah *AdminHandler) StatsHandler(c *gin.Context) {
	stats, err := ah.AdminService.Stats(c.Request.Context())
	if err != nil {
		internalError(c, "failed to load dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// LegalHandler handles GET /api/legal.
func (ah *AdminHandler) LegalHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ah.AdminService.GetLegalSections())
}
