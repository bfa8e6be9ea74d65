package handlers

import (
	"net/http"

	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health from the background monitor's last snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "dependencies": status})
}
