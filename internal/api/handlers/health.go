package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version    string
	mcpEnabled bool
}

func NewHealthHandler(version string, mcpEnabled bool) *HealthHandler {
	return &HealthHandler{version: version, mcpEnabled: mcpEnabled}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	mcpStatus := "disabled"
	if h.mcpEnabled {
		mcpStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"mcp_server": gin.H{
			"status": mcpStatus,
		},
	})
}
