package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
	"github.com/gin-gonic/gin"
)

// Error codes for failures outside the voicing generator
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeTextTooLong    = "TEXT_TOO_LONG"
	codeNoChordsFound  = "NO_CHORDS_FOUND"
	codeInvalidNote    = "INVALID_NOTE"
	codeInvalidPattern = "INVALID_PATTERN"
)

var generationStatus = map[voicing.ErrorCode]int{
	voicing.CodeInvalidChord:       http.StatusBadRequest,
	voicing.CodeInvalidTuning:      http.StatusBadRequest,
	voicing.CodeConstraintConflict: http.StatusBadRequest,
	voicing.CodeNoVoicingsFound:    http.StatusNotFound,
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Code: codeInvalidRequest})
}

// respondError maps service and generator errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	if genErr, ok := voicing.AsGenerationError(err); ok {
		status, known := generationStatus[genErr.Code]
		if !known {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{
			Error:       genErr.Message,
			Code:        string(genErr.Code),
			Suggestions: genErr.Suggestions,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrTextTooLong):
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: err.Error(), Code: codeTextTooLong})
	case errors.Is(err, services.ErrNoChords):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:       err.Error(),
			Code:        codeNoChordsFound,
			Suggestions: []string{"Write chords as symbols, e.g. \"C G Am F\""},
		})
	case errors.Is(err, services.ErrInvalidRoot):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Code: codeInvalidNote})
	case errors.Is(err, services.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Code: string(voicing.CodeInvalidChord)})
	case errors.Is(err, voicing.ErrUnknownPattern):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:       err.Error(),
			Code:        codeInvalidPattern,
			Suggestions: []string{"Use one of: " + strings.Join(voicing.RhythmPatternNames(), ", ")},
		})
	default:
		logger.Error("Unhandled engine error", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}
