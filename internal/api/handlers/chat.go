package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/gin-gonic/gin"
)

// ChatHandler serves the chat layer: one call per user message
type ChatHandler struct {
	harmony *services.HarmonyService
}

func NewChatHandler(harmony *services.HarmonyService) *ChatHandler {
	return &ChatHandler{harmony: harmony}
}

// Enrich returns the analysis, tab and identified chord found in a message.
// Absent parts are null; a message with nothing musical is still a 200.
func (h *ChatHandler) Enrich(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.harmony.Enrich(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
