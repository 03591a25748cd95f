package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/gin-gonic/gin"
)

type TabHandler struct {
	harmony *services.HarmonyService
}

func NewTabHandler(harmony *services.HarmonyService) *TabHandler {
	return &TabHandler{harmony: harmony}
}

// ParseTab detects, parses and names the chord in a block of tablature
func (h *TabHandler) ParseTab(c *gin.Context) {
	var req models.TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.harmony.ParseTab(c.Request.Context(), req.Text, req.StringOrder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
