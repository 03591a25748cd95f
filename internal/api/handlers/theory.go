package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/gin-gonic/gin"
)

type TheoryHandler struct {
	harmony *services.HarmonyService
}

func NewTheoryHandler(harmony *services.HarmonyService) *TheoryHandler {
	return &TheoryHandler{harmony: harmony}
}

// Scale returns the notes of /scales/:root/:mode. Sharps in the root must be
// URL-encoded (%23); flats can be written as "b".
func (h *TheoryHandler) Scale(c *gin.Context) {
	resp, err := h.harmony.Scale(c.Request.Context(), c.Param("root"), c.Param("mode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ModeChords returns the seven diatonic triads of /chords/:root/:mode
func (h *TheoryHandler) ModeChords(c *gin.Context) {
	resp, err := h.harmony.ModeChords(c.Request.Context(), c.Param("root"), c.Param("mode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseChord parses a single chord symbol
func (h *TheoryHandler) ParseChord(c *gin.Context) {
	var req models.ChordParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.harmony.ParseChord(c.Request.Context(), req.Symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
