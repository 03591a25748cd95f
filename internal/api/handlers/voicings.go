package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
	"github.com/gin-gonic/gin"
)

const midiContentType = "audio/midi"

type VoicingHandler struct {
	harmony *services.HarmonyService
}

func NewVoicingHandler(harmony *services.HarmonyService) *VoicingHandler {
	return &VoicingHandler{harmony: harmony}
}

// Generate returns ranked voicings for a chord
func (h *VoicingHandler) Generate(c *gin.Context) {
	var req voicing.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.harmony.GenerateVoicings(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseConstraints reads voicing constraints out of free text
func (h *VoicingHandler) ParseConstraints(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	constraints, err := h.harmony.ParseConstraints(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConstraintsResponse{
		Constraints: constraints,
		Empty:       constraints.IsZero(),
	})
}

// MIDI renders the generated voicings as a downloadable Standard MIDI File
func (h *VoicingHandler) MIDI(c *gin.Context) {
	var req models.MIDIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	data, resp, err := h.harmony.ExportMIDI(c.Request.Context(), req.Request, req.Options())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", midiFilename(resp.Metadata.Chord)))
	c.Data(http.StatusOK, midiContentType, data)
}

func midiFilename(chord string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '#':
			return 's'
		default:
			return '_'
		}
	}, chord)
	if name == "" {
		name = "voicings"
	}
	return name + ".mid"
}
