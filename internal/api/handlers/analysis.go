package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	harmony *services.HarmonyService
}

func NewAnalysisHandler(harmony *services.HarmonyService) *AnalysisHandler {
	return &AnalysisHandler{harmony: harmony}
}

// AnalyzeProgression explains a chord progression modally
func (h *AnalysisHandler) AnalyzeProgression(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.harmony.AnalyzeProgression(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
