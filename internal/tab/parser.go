package tab

import (
	"regexp"
	"sort"
	"strings"
)

// String indices, low to high in standard tuning
const (
	LowE = iota
	AString
	DString
	GString
	BString
	HighE

	StringCount = 6
)

// Resolution records how a line's label was mapped to a string index
type Resolution string

const (
	// ResolutionDeclared means the label named exactly one string (A, D, G, B)
	ResolutionDeclared Resolution = "declared"
	// ResolutionHeuristic means an E label was placed by line position:
	// high e among the first three lines, low E otherwise
	ResolutionHeuristic Resolution = "heuristic"
	// ResolutionFallback means the label is outside standard tuning and the
	// line position alone picked the string
	ResolutionFallback Resolution = "fallback"
	// ResolutionExplicit means the caller supplied the string order
	ResolutionExplicit Resolution = "explicit"
)

const (
	techniqueChars = "hpb/\\~r"
	separatorChars = "-|"
	maxFretDigits  = 2
)

var (
	labelledLinePattern = regexp.MustCompile(`^\s*([A-Ga-g][#b]?)\s*[|:]?([\-|].*)$`)
	lineContentPattern  = regexp.MustCompile(`^[\-\d|hpbr~/\\x().*\s]+$`)
)

var declaredStrings = map[string]int{
	"A": AString,
	"D": DString,
	"G": GString,
	"B": BString,
}

// StringLine is one recognized tab line
type StringLine struct {
	Label      string     `json:"label"`
	String     int        `json:"string"`
	Resolution Resolution `json:"resolution"`
	Content    string     `json:"content"`
}

// Note is a fretted note at a column-derived timing index
type Note struct {
	String    int    `json:"string"`
	Fret      int    `json:"fret"`
	Timing    int    `json:"timing"`
	Technique string `json:"technique,omitempty"`
}

// Measure groups the notes sharing a timing index
type Measure struct {
	Timing int    `json:"timing"`
	Notes  []Note `json:"notes"`
}

// ParsedTab is the structured form of a block of tablature
type ParsedTab struct {
	Lines    []StringLine `json:"lines"`
	Notes    []Note       `json:"notes"`
	Measures []Measure    `json:"measures"`
	IsChord  bool         `json:"isChord"`
	Source   string       `json:"source"`
}

// ParseTab extracts notes from tablature, mapping labels to strings by the
// E-string position heuristic. It returns nil when no notes are found.
func ParseTab(text string) *ParsedTab {
	return ParseTabWithOrder(text, nil)
}

// ParseTabWithOrder is ParseTab with an explicit string index for each
// recognized line, in line order. Lines beyond len(order) use the heuristic.
func ParseTabWithOrder(text string, order []int) *ParsedTab {
	lines := recognizeLines(text)
	if len(lines) == 0 {
		return nil
	}

	for i := range lines {
		if i < len(order) && order[i] >= 0 && order[i] < StringCount {
			lines[i].String = order[i]
			lines[i].Resolution = ResolutionExplicit
			continue
		}
		lines[i].String, lines[i].Resolution = resolveString(lines[i].Label, i)
	}

	notes := scanNotes(lines)
	if len(notes) == 0 {
		return nil
	}

	measures := groupMeasures(notes)
	isChord := false
	for _, m := range measures {
		if m.distinctStrings() >= 2 {
			isChord = true
			break
		}
	}

	return &ParsedTab{
		Lines:    lines,
		Notes:    notes,
		Measures: measures,
		IsChord:  isChord,
		Source:   text,
	}
}

func recognizeLines(text string) []StringLine {
	var lines []StringLine
	for _, raw := range strings.Split(text, "\n") {
		if line, ok := recognizeLine(raw); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func recognizeLine(raw string) (StringLine, bool) {
	m := labelledLinePattern.FindStringSubmatch(strings.TrimRight(raw, "\r"))
	if m == nil {
		return StringLine{}, false
	}
	content := strings.TrimRight(m[2], " \t")
	if !lineContentPattern.MatchString(content) || strings.Count(content, "-") < 3 {
		return StringLine{}, false
	}
	return StringLine{Label: m[1], Content: content}, true
}

// StripTab removes recognized string lines from text, leaving the prose
// around a tab. Tab labels would otherwise read as chord symbols.
func StripTab(text string) string {
	var kept []string
	for _, raw := range strings.Split(text, "\n") {
		if _, ok := recognizeLine(raw); !ok {
			kept = append(kept, raw)
		}
	}
	return strings.Join(kept, "\n")
}

func resolveString(label string, lineIdx int) (int, Resolution) {
	letter := strings.ToUpper(label)
	if idx, ok := declaredStrings[letter]; ok {
		return idx, ResolutionDeclared
	}
	if letter == "E" {
		if lineIdx < 3 {
			return HighE, ResolutionHeuristic
		}
		return LowE, ResolutionHeuristic
	}

	idx := HighE - lineIdx
	if idx < LowE {
		idx = LowE
	}
	return idx, ResolutionFallback
}

// scanNotes walks all lines column by column. The timing counter advances
// after every column where any line holds a separator.
func scanNotes(lines []StringLine) []Note {
	width := 0
	for _, l := range lines {
		if len(l.Content) > width {
			width = len(l.Content)
		}
	}

	timingAt := make([]int, width)
	counter := 0
	for col := 0; col < width; col++ {
		timingAt[col] = counter
		for _, l := range lines {
			if col < len(l.Content) && strings.IndexByte(separatorChars, l.Content[col]) >= 0 {
				counter++
				break
			}
		}
	}

	var notes []Note
	for _, l := range lines {
		notes = append(notes, lineNotes(l, timingAt)...)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Timing != notes[j].Timing {
			return notes[i].Timing < notes[j].Timing
		}
		return notes[i].String < notes[j].String
	})
	return notes
}

func lineNotes(l StringLine, timingAt []int) []Note {
	var notes []Note
	content := l.Content
	for col := 0; col < len(content); {
		c := content[col]
		switch {
		case isDigit(c):
			start := col
			fret := 0
			for col < len(content) && isDigit(content[col]) && col-start < maxFretDigits {
				fret = fret*10 + int(content[col]-'0')
				col++
			}
			notes = append(notes, Note{String: l.String, Fret: fret, Timing: timingAt[start]})
		case strings.IndexByte(techniqueChars, c) >= 0 && len(notes) > 0:
			notes[len(notes)-1].Technique += string(c)
			col++
		default:
			col++
		}
	}
	return notes
}

func groupMeasures(notes []Note) []Measure {
	var measures []Measure
	for _, n := range notes {
		if len(measures) == 0 || measures[len(measures)-1].Timing != n.Timing {
			measures = append(measures, Measure{Timing: n.Timing})
		}
		last := &measures[len(measures)-1]
		last.Notes = append(last.Notes, n)
	}
	return measures
}

// distinctStrings counts distinct strings, so a hammer-on within one column
// group is not mistaken for a chord
func (m Measure) distinctStrings() int {
	seen := make(map[int]bool, len(m.Notes))
	for _, n := range m.Notes {
		seen[n.String] = true
	}
	return len(seen)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
