package voicing

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a generation failure
type ErrorCode string

const (
	CodeInvalidChord       ErrorCode = "INVALID_CHORD"
	CodeNoVoicingsFound    ErrorCode = "NO_VOICINGS_FOUND"
	CodeConstraintConflict ErrorCode = "CONSTRAINT_CONFLICT"
	CodeInvalidTuning      ErrorCode = "INVALID_TUNING"
)

// GenerationError is returned when a voicing request cannot be satisfied
type GenerationError struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, message string, suggestions ...string) *GenerationError {
	return &GenerationError{Code: code, Message: message, Suggestions: suggestions}
}

// AsGenerationError unwraps err into a *GenerationError
func AsGenerationError(err error) (*GenerationError, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}
