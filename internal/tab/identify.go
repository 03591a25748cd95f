package tab

import (
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const muted = -1

// Open-string MIDI pitches in standard tuning, low E to high e
var openStringPitches = [StringCount]int{40, 45, 50, 55, 59, 64}

// Identifier names the chord formed by a set of simultaneous notes
type Identifier interface {
	Identify(frets [StringCount]int) (string, bool)
}

// ExactShapes matches a literal fret pattern against common open chords
type ExactShapes struct{}

// IntervalTemplates matches the interval set above the lowest sounding pitch.
// A template matches when all of its intervals are present; extra notes are
// tolerated. The template with the most intervals wins, table order breaks ties.
type IntervalTemplates struct{}

// DefaultIdentifiers is the strategy chain used by IdentifyChord
var DefaultIdentifiers = []Identifier{ExactShapes{}, IntervalTemplates{}}

var exactShapes = []struct {
	name  string
	frets [StringCount]int
}{
	{"E Major", [StringCount]int{0, 2, 2, 1, 0, 0}},
	{"A Major", [StringCount]int{muted, 0, 2, 2, 2, 0}},
	{"D Major", [StringCount]int{muted, muted, 0, 2, 3, 2}},
	{"G Major", [StringCount]int{3, 2, 0, 0, 0, 3}},
	{"C Major", [StringCount]int{muted, 3, 2, 0, 1, 0}},
	{"E Minor", [StringCount]int{0, 2, 2, 0, 0, 0}},
	{"A Minor", [StringCount]int{muted, 0, 2, 2, 1, 0}},
	{"D Minor", [StringCount]int{muted, muted, 0, 2, 3, 1}},
}

var chordTemplates = []struct {
	display   string
	intervals []int
}{
	{"Major", []int{0, 4, 7}},
	{"Minor", []int{0, 3, 7}},
	{"Dominant 7th", []int{0, 4, 7, 10}},
	{"Major 7th", []int{0, 4, 7, 11}},
	{"Minor 7th", []int{0, 3, 7, 10}},
	{"Diminished", []int{0, 3, 6}},
	{"Augmented", []int{0, 4, 8}},
	{"Sus2", []int{0, 2, 7}},
	{"Sus4", []int{0, 5, 7}},
}

// Identify implements Identifier
func (ExactShapes) Identify(frets [StringCount]int) (string, bool) {
	for _, shape := range exactShapes {
		if shape.frets == frets {
			return shape.name, true
		}
	}
	return "", false
}

// Identify implements Identifier
func (IntervalTemplates) Identify(frets [StringCount]int) (string, bool) {
	lowest := -1
	var pitches []int
	for s, fret := range frets {
		if fret == muted {
			continue
		}
		p := openStringPitches[s] + fret
		pitches = append(pitches, p)
		if lowest < 0 || p < lowest {
			lowest = p
		}
	}
	if len(pitches) == 0 {
		return "", false
	}

	present := make(map[int]bool, len(pitches))
	for _, p := range pitches {
		present[(p-lowest)%12] = true
	}

	best := -1
	for i, tmpl := range chordTemplates {
		if !containsAll(present, tmpl.intervals) {
			continue
		}
		if best < 0 || len(tmpl.intervals) > len(chordTemplates[best].intervals) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}

	root := theory.Note(lowest % 12)
	return root.String() + " " + chordTemplates[best].display, true
}

func containsAll(present map[int]bool, intervals []int) bool {
	for _, iv := range intervals {
		if !present[iv] {
			return false
		}
	}
	return true
}

// IdentifyChord names the largest simultaneous note group in tab, trying
// DefaultIdentifiers in order.
func IdentifyChord(tab *ParsedTab) (string, bool) {
	return IdentifyChordWith(tab, DefaultIdentifiers...)
}

// IdentifyChordWith runs a custom identifier chain
func IdentifyChordWith(tab *ParsedTab, identifiers ...Identifier) (string, bool) {
	frets, ok := ChordFrets(tab)
	if !ok {
		return "", false
	}
	for _, id := range identifiers {
		if name, ok := id.Identify(frets); ok {
			return name, true
		}
	}
	return "", false
}

// ChordFrets returns the measure spanning the most strings as a low-to-high
// fret array with unplayed strings muted. The first such measure wins.
func ChordFrets(tab *ParsedTab) ([StringCount]int, bool) {
	frets := [StringCount]int{muted, muted, muted, muted, muted, muted}
	if tab == nil || len(tab.Measures) == 0 {
		return frets, false
	}

	largest := tab.Measures[0]
	for _, m := range tab.Measures[1:] {
		if m.distinctStrings() > largest.distinctStrings() {
			largest = m
		}
	}
	if largest.distinctStrings() < 2 {
		return frets, false
	}

	for _, n := range largest.Notes {
		frets[n.String] = n.Fret
	}
	return frets, true
}
