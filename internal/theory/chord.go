package theory

import (
	"regexp"
	"strings"
)

// ChordSymbol is a parsed chord symbol such as "Cmaj7" or "F#m7b5/A"
type ChordSymbol struct {
	Symbol      string   `json:"symbol"`
	Root        Note     `json:"root"`
	Quality     Quality  `json:"quality"`
	QualityText string   `json:"qualityText"`
	Extensions  []string `json:"extensions"`
	Alterations []string `json:"alterations,omitempty"`
	Bass        *Note    `json:"bass,omitempty"`
}

var (
	chordSymbolRe = regexp.MustCompile(
		`^([A-G][#b]?)((?:maj|min|dim|aug|sus|add|alt|no|m|M|Δ|ø|°|\+|-|#|b|\d|\(|\)|,)*)(?:/([A-G][#b]?))?$`)
	alterationRe = regexp.MustCompile(`[#b](?:5|9|11|13)`)
	susDigitsRe  = regexp.MustCompile(`sus\d*`)
	addedToneRe  = regexp.MustCompile(`add\d+`)
	digitRunRe   = regexp.MustCompile(`\d+`)
)

var extensionNumbers = map[string]bool{"6": true, "7": true, "9": true, "11": true, "13": true}

// ParseChord parses a chord symbol. It returns false when text is not a chord.
func ParseChord(text string) (ChordSymbol, bool) {
	symbol := NormalizeAccidentals(strings.TrimSpace(text))
	m := chordSymbolRe.FindStringSubmatch(symbol)
	if m == nil {
		return ChordSymbol{}, false
	}

	root, ok := ParseNote(m[1])
	if !ok {
		return ChordSymbol{}, false
	}

	qualityText := m[2]
	chord := ChordSymbol{
		Symbol:      symbol,
		Root:        root,
		Quality:     classifyQuality(qualityText),
		QualityText: qualityText,
		Extensions:  parseExtensions(qualityText),
		Alterations: alterationRe.FindAllString(qualityText, -1),
	}

	// Half-diminished shorthand spells out the m7b5 it stands for
	if strings.Contains(qualityText, "ø") {
		chord.Extensions = append(chord.Extensions, "7")
		chord.Alterations = append(chord.Alterations, "b5")
	}

	if m[3] != "" {
		if bass, ok := ParseNote(m[3]); ok {
			chord.Bass = &bass
		}
	}

	return chord, true
}

// classifyQuality checks dim before aug before the minor/major split
func classifyQuality(q string) Quality {
	switch {
	case strings.Contains(q, "dim") || strings.Contains(q, "°"):
		return QualityDiminished
	case strings.Contains(q, "aug") || strings.Contains(q, "+"):
		return QualityAugmented
	case strings.Contains(q, "sus"):
		return QualitySuspended
	case q == "5":
		return QualityPower
	}

	withoutMaj := strings.ReplaceAll(q, "maj", "")
	if strings.Contains(withoutMaj, "m") || strings.HasPrefix(q, "-") || strings.Contains(q, "ø") {
		return QualityMinor
	}

	if hasMajorMarker(q) {
		return QualityMajor
	}
	// Added tones colour a triad without making it a seventh chord
	for _, ext := range parseExtensions(addedToneRe.ReplaceAllString(q, "")) {
		if ext == "7" || ext == "9" || ext == "11" || ext == "13" {
			return QualityDominant
		}
	}
	return QualityMajor
}

// parseExtensions collects extension digit runs in order, without dedupe
func parseExtensions(q string) []string {
	stripped := alterationRe.ReplaceAllString(q, "")
	stripped = susDigitsRe.ReplaceAllString(stripped, "")

	extensions := []string{}
	for _, run := range digitRunRe.FindAllString(stripped, -1) {
		if extensionNumbers[run] {
			extensions = append(extensions, run)
		}
	}
	return extensions
}

func hasMajorMarker(q string) bool {
	return strings.Contains(q, "maj") || strings.Contains(q, "M") || strings.Contains(q, "Δ")
}

// Intervals returns the chord's semitone offsets from its root, triad first,
// then extensions in the order written.
func (c ChordSymbol) Intervals() []int {
	third, fifth := 4, 7
	switch c.Quality {
	case QualityMinor:
		third = 3
	case QualityDiminished:
		third, fifth = 3, 6
	case QualityAugmented:
		fifth = 8
	case QualitySuspended:
		third = 5
		if strings.Contains(c.QualityText, "sus2") {
			third = 2
		}
	}

	for _, alt := range c.Alterations {
		switch alt {
		case "b5":
			fifth = 6
		case "#5":
			fifth = 8
		}
	}

	intervals := []int{0}
	if c.Quality != QualityPower {
		intervals = append(intervals, third)
	}
	intervals = append(intervals, fifth)

	for _, ext := range c.Extensions {
		switch ext {
		case "6", "13":
			intervals = append(intervals, 9)
		case "7":
			intervals = append(intervals, c.seventh())
		case "9":
			intervals = append(intervals, 2)
		case "11":
			intervals = append(intervals, 5)
		}
	}

	for _, alt := range c.Alterations {
		switch alt {
		case "b9":
			intervals = append(intervals, 1)
		case "#9":
			intervals = append(intervals, 3)
		case "#11":
			intervals = append(intervals, 6)
		case "b13":
			intervals = append(intervals, 8)
		}
	}

	return intervals
}

func (c ChordSymbol) seventh() int {
	if hasMajorMarker(c.QualityText) {
		return 11
	}
	// m7b5 spellings parse as minor, so a diminished quality here means dim7
	if c.Quality == QualityDiminished {
		return 9
	}
	return 10
}

// Tones returns the chord's distinct pitch classes, root first, bass last
// when it differs from every chord tone.
func (c ChordSymbol) Tones() []Note {
	seen := make(NoteSet)
	tones := make([]Note, 0, 6)
	for _, interval := range c.Intervals() {
		n := c.Root.Transpose(interval)
		if seen[n] {
			continue
		}
		seen[n] = true
		tones = append(tones, n)
	}
	if c.Bass != nil && !seen[*c.Bass] {
		tones = append(tones, *c.Bass)
	}
	return tones
}
