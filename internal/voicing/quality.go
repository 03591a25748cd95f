package voicing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// ChordQuality is the normalized bucket a chord falls into for shape lookup
type ChordQuality string

const (
	QualityMajor      ChordQuality = "major"
	QualityMinor      ChordQuality = "minor"
	QualityDominant7  ChordQuality = "dominant7"
	QualityMajor7     ChordQuality = "major7"
	QualityMinor7     ChordQuality = "minor7"
	QualityMinor7b5   ChordQuality = "minor7b5"
	QualityDiminished ChordQuality = "diminished"
	QualityAugmented  ChordQuality = "augmented"
	QualitySus2       ChordQuality = "sus2"
	QualitySus4       ChordQuality = "sus4"
	QualityPower      ChordQuality = "power"
	QualityAdd9       ChordQuality = "add9"
)

var qualityInfo = map[ChordQuality]struct {
	display   string
	suffix    string
	intervals []int
}{
	QualityMajor:      {"Major", "", []int{0, 4, 7}},
	QualityMinor:      {"Minor", "m", []int{0, 3, 7}},
	QualityDominant7:  {"Dominant 7th", "7", []int{0, 4, 7, 10}},
	QualityMajor7:     {"Major 7th", "maj7", []int{0, 4, 7, 11}},
	QualityMinor7:     {"Minor 7th", "m7", []int{0, 3, 7, 10}},
	QualityMinor7b5:   {"Half-diminished", "m7b5", []int{0, 3, 6, 10}},
	QualityDiminished: {"Diminished", "dim", []int{0, 3, 6}},
	QualityAugmented:  {"Augmented", "aug", []int{0, 4, 8}},
	QualitySus2:       {"Sus2", "sus2", []int{0, 2, 7}},
	QualitySus4:       {"Sus4", "sus4", []int{0, 5, 7}},
	QualityPower:      {"Power", "5", []int{0, 7}},
	QualityAdd9:       {"Add9", "add9", []int{0, 4, 7, 14}},
}

// Case matters for these: "M7" is major 7th, "m7" is minor 7th
var caseSensitiveAliases = map[string]ChordQuality{
	"":   QualityMajor,
	"M":  QualityMajor,
	"M7": QualityMajor7,
	"Δ":  QualityMajor7,
	"Δ7": QualityMajor7,
	"m":  QualityMinor,
	"m7": QualityMinor7,
}

var qualityAliases = map[string]ChordQuality{
	"maj":              QualityMajor,
	"major":            QualityMajor,
	"min":              QualityMinor,
	"minor":            QualityMinor,
	"-":                QualityMinor,
	"7":                QualityDominant7,
	"dom":              QualityDominant7,
	"dom7":             QualityDominant7,
	"dominant":         QualityDominant7,
	"dominant7":        QualityDominant7,
	"dominant 7th":     QualityDominant7,
	"maj7":             QualityMajor7,
	"major7":           QualityMajor7,
	"major 7th":        QualityMajor7,
	"min7":             QualityMinor7,
	"minor7":           QualityMinor7,
	"minor 7th":        QualityMinor7,
	"-7":               QualityMinor7,
	"m7b5":             QualityMinor7b5,
	"min7b5":           QualityMinor7b5,
	"minor7b5":         QualityMinor7b5,
	"ø":                QualityMinor7b5,
	"ø7":               QualityMinor7b5,
	"half-diminished":  QualityMinor7b5,
	"half diminished":  QualityMinor7b5,
	"halfdiminished":   QualityMinor7b5,
	"dim":              QualityDiminished,
	"diminished":       QualityDiminished,
	"°":                QualityDiminished,
	"aug":              QualityAugmented,
	"augmented":        QualityAugmented,
	"+":                QualityAugmented,
	"sus2":             QualitySus2,
	"sus":              QualitySus4,
	"sus4":             QualitySus4,
	"5":                QualityPower,
	"power":            QualityPower,
	"add9":             QualityAdd9,
	"add2":             QualityAdd9,
}

// Display is the human-readable quality name, e.g. "Minor 7th"
func (q ChordQuality) Display() string {
	if info, ok := qualityInfo[q]; ok {
		return info.display
	}
	return string(q)
}

// Suffix is the chord-symbol suffix, e.g. "m7"
func (q ChordQuality) Suffix() string {
	return qualityInfo[q].suffix
}

// Intervals returns the semitone offsets of the quality's chord tones
func (q ChordQuality) Intervals() []int {
	src := qualityInfo[q].intervals
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// HasSeventh reports whether the quality includes a seventh
func (q ChordQuality) HasSeventh() bool {
	switch q {
	case QualityDominant7, QualityMajor7, QualityMinor7, QualityMinor7b5:
		return true
	}
	return false
}

// Qualities lists every bucket in a stable order
func Qualities() []ChordQuality {
	return []ChordQuality{
		QualityMajor, QualityMinor, QualityDominant7, QualityMajor7, QualityMinor7, QualityMinor7b5,
		QualityDiminished, QualityAugmented, QualitySus2, QualitySus4, QualityPower, QualityAdd9,
	}
}

// NormalizeQuality folds free-form quality text into a bucket. Text that
// names no bucket resolves to major with fallback set.
func NormalizeQuality(text string) (quality ChordQuality, fallback bool) {
	text = theory.NormalizeAccidentals(strings.TrimSpace(text))
	if q, ok := caseSensitiveAliases[text]; ok {
		return q, false
	}
	if q, ok := qualityAliases[strings.ToLower(text)]; ok {
		return q, false
	}
	if chord, ok := theory.ParseChord("C" + text); ok {
		return bucketFromSymbol(chord)
	}
	return QualityMajor, true
}

// bucketFromSymbol maps a parsed symbol to the nearest bucket. Extensions
// beyond the seventh are dropped; unrecognized extras fall back to major.
func bucketFromSymbol(c theory.ChordSymbol) (ChordQuality, bool) {
	hasExt := func(exts ...string) bool {
		for _, e := range c.Extensions {
			for _, want := range exts {
				if e == want {
					return true
				}
			}
		}
		return false
	}
	hasAlt := func(alt string) bool {
		for _, a := range c.Alterations {
			if a == alt {
				return true
			}
		}
		return false
	}
	seventh := hasExt("7", "9", "11", "13") && !strings.Contains(c.QualityText, "add")

	switch c.Quality {
	case theory.QualityPower:
		return QualityPower, false
	case theory.QualitySuspended:
		if strings.Contains(c.QualityText, "sus2") {
			return QualitySus2, false
		}
		return QualitySus4, false
	case theory.QualityDiminished:
		return QualityDiminished, false
	case theory.QualityAugmented:
		return QualityAugmented, false
	case theory.QualityMinor:
		switch {
		case seventh && hasAlt("b5"):
			return QualityMinor7b5, false
		case seventh:
			return QualityMinor7, false
		}
		return QualityMinor, len(c.Extensions) > 0
	case theory.QualityDominant:
		return QualityDominant7, false
	}

	switch {
	case seventh:
		return QualityMajor7, false
	case strings.Contains(c.QualityText, "add9") || strings.Contains(c.QualityText, "add2"):
		return QualityAdd9, false
	}
	return QualityMajor, c.QualityText != "" && !hasMajorOnly(c.QualityText)
}

func hasMajorOnly(q string) bool {
	switch q {
	case "maj", "M", "major":
		return true
	}
	return false
}

// ChordInput is either a literal symbol ("F#m7") or a structured
// {root, quality} pair. JSON accepts both forms.
type ChordInput struct {
	Symbol  string `json:"-"`
	Root    string `json:"root,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// Symbolic builds a literal chord input
func Symbolic(symbol string) ChordInput {
	return ChordInput{Symbol: symbol}
}

// Structured builds a {root, quality} chord input
func Structured(root, quality string) ChordInput {
	return ChordInput{Root: root, Quality: quality}
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ChordInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var symbol string
		if err := json.Unmarshal(data, &symbol); err != nil {
			return err
		}
		*c = ChordInput{Symbol: symbol}
		return nil
	}

	type structured ChordInput
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("chordInput must be a symbol or {root, quality}: %w", err)
	}
	*c = ChordInput(s)
	return nil
}

// MarshalJSON implements json.Marshaler
func (c ChordInput) MarshalJSON() ([]byte, error) {
	if c.Symbol != "" {
		return json.Marshal(c.Symbol)
	}
	type structured ChordInput
	return json.Marshal(structured(c))
}

// IsZero reports whether no chord was given
func (c ChordInput) IsZero() bool {
	return strings.TrimSpace(c.Symbol) == "" && strings.TrimSpace(c.Root) == ""
}

// String renders the input as it was given
func (c ChordInput) String() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Root + c.Quality
}

// ResolvedChord is a chord input reduced to root and quality bucket
type ResolvedChord struct {
	Root            theory.Note
	Quality         ChordQuality
	QualityFallback bool
}

// Name renders e.g. "C Major"
func (r ResolvedChord) Name() string {
	return r.Root.String() + " " + r.Quality.Display()
}

// Symbol renders e.g. "Cm7"
func (r ResolvedChord) Symbol() string {
	return r.Root.String() + r.Quality.Suffix()
}

// Resolve reduces the input to a root and quality bucket
func (c ChordInput) Resolve() (ResolvedChord, error) {
	if c.IsZero() {
		return ResolvedChord{}, newError(CodeInvalidChord, "no chord given", chordSuggestions...)
	}

	if c.Symbol != "" {
		chord, ok := theory.ParseChord(c.Symbol)
		if !ok {
			return ResolvedChord{}, newError(CodeInvalidChord,
				fmt.Sprintf("could not parse chord %q", c.Symbol), chordSuggestions...)
		}
		quality, fallback := NormalizeQuality(chord.QualityText)
		return ResolvedChord{Root: chord.Root, Quality: quality, QualityFallback: fallback}, nil
	}

	root, ok := theory.ParseNote(c.Root)
	if !ok {
		return ResolvedChord{}, newError(CodeInvalidChord,
			fmt.Sprintf("invalid root note %q", c.Root), "Use a note name such as C, F# or Bb")
	}
	quality, fallback := NormalizeQuality(c.Quality)
	return ResolvedChord{Root: root, Quality: quality, QualityFallback: fallback}, nil
}

var chordSuggestions = []string{
	"Use a chord symbol such as C, Am7 or F#m7b5",
	"Or send {\"root\": \"C\", \"quality\": \"major\"}",
}
