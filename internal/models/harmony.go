package models

import (
	"github.com/Conceptual-Machines/magda-harmony/internal/analysis"
	"github.com/Conceptual-Machines/magda-harmony/internal/tab"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
)

// TextRequest carries free text from the chat layer
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// TabRequest is a tab to parse, optionally with an explicit string per line
type TabRequest struct {
	Text        string `json:"text" binding:"required"`
	StringOrder []int  `json:"stringOrder,omitempty"`
}

// ChordParseRequest asks for one chord symbol to be parsed
type ChordParseRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// MIDIRequest is a voicing request rendered to a MIDI file
type MIDIRequest struct {
	voicing.Request
	Tempo         float64 `json:"tempo,omitempty"`
	BeatsPerChord int     `json:"beatsPerChord,omitempty"`
	Strum         bool    `json:"strum,omitempty"`
	Pattern       string  `json:"pattern,omitempty"`
}

// Options converts the playback fields into export options
func (r MIDIRequest) Options() voicing.MIDIOptions {
	return voicing.MIDIOptions{
		Tempo:         r.Tempo,
		BeatsPerChord: r.BeatsPerChord,
		Strum:         r.Strum,
		Pattern:       r.Pattern,
	}
}

// ConstraintsResponse is the result of reading constraints from text
type ConstraintsResponse struct {
	Constraints voicing.Constraints `json:"constraints"`
	Empty       bool                `json:"empty"`
}

// EnrichResponse is what the chat layer receives for a user message.
// Each part is null when nothing was extracted.
type EnrichResponse struct {
	Analysis        *analysis.ModalAnalysis `json:"analysis"`
	Tab             *tab.ParsedTab          `json:"tab"`
	IdentifiedChord *string                 `json:"identifiedChord"`
}

// TabResponse is the result of tab detection and parsing
type TabResponse struct {
	Detected        bool           `json:"detected"`
	Tab             *tab.ParsedTab `json:"tab"`
	IdentifiedChord *string        `json:"identifiedChord"`
}

// ScaleResponse describes a scale on a root
type ScaleResponse struct {
	Root               theory.Note   `json:"root"`
	Mode               theory.Mode   `json:"mode"`
	Requested          string        `json:"requested"`
	Fallback           bool          `json:"fallback"`
	Notes              []theory.Note `json:"notes"`
	CharacteristicNote theory.Note   `json:"characteristicNote"`
}

// ChordsResponse lists the diatonic triads of a scale
type ChordsResponse struct {
	Root      theory.Note            `json:"root"`
	Mode      string                 `json:"mode"`
	ModeName  string                 `json:"modeName"`
	Requested string                 `json:"requested"`
	Fallback  bool                   `json:"fallback"`
	Chords    []theory.DiatonicChord `json:"chords"`
}

// ChordParseResponse is a parsed chord symbol with its derived tones
type ChordParseResponse struct {
	theory.ChordSymbol
	Intervals []int         `json:"intervals"`
	Tones     []theory.Note `json:"tones"`
}

// ErrorResponse is the error body for every endpoint
type ErrorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
