package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const mcpPath = "/mcp"

type MCPStatusHandler struct {
	enabled bool
	tools   []string
}

func NewMCPStatusHandler(enabled bool, tools []string) *MCPStatusHandler {
	return &MCPStatusHandler{enabled: enabled, tools: tools}
}

// MCPStatus reports whether the MCP endpoint is mounted and which tools it serves
func (h *MCPStatusHandler) MCPStatus(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
			"path":    "",
			"status":  "disabled",
			"tools":   []string{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"path":      mcpPath,
		"transport": "streamable-http",
		"status":    "enabled",
		"tools":     h.tools,
	})
}
