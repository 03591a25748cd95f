// Package voicing generates and ranks chord voicings for guitar and piano
package voicing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// Instrument selects the voicing source
type Instrument string

const (
	InstrumentGuitar Instrument = "guitar"
	InstrumentPiano  Instrument = "piano"
)

// MaxVoicings is the hard ceiling on returned voicings
const MaxVoicings = 4

// Scoring weights
const (
	playabilityWeight = 0.6
	musicalWeight     = 0.4
	curatedMusical    = 0.8
	openStringBonus   = 0.05
)

var playabilityScores = map[Difficulty]float64{
	DifficultyBeginner:     1.0,
	DifficultyIntermediate: 0.8,
	DifficultyAdvanced:     0.6,
}

var standardTunings = map[string]bool{
	"":            true,
	"standard":    true,
	"eadgbe":      true,
	"e a d g b e": true,
}

// Source says where a guitar voicing came from
type Source string

const (
	SourceCurated    Source = "curated"
	SourceTransposed Source = "transposed"
	SourceGenerated  Source = "generated"
)

// Request is a voicing generation request
type Request struct {
	Instrument     Instrument   `json:"instrument"`
	ChordInput     ChordInput   `json:"chordInput"`
	Constraints    *Constraints `json:"constraints,omitempty"`
	ConstraintText string       `json:"constraintText,omitempty"`
	Count          int          `json:"count,omitempty"`
	LessonMode     bool         `json:"lessonMode,omitempty"`
	Tuning         string       `json:"tuning,omitempty"`
}

// Scores breaks down a voicing's rank
type Scores struct {
	Playability float64 `json:"playability"`
	Musical     float64 `json:"musical"`
	Total       float64 `json:"total"`
}

// Voicing is one ranked voicing. Guitar voicings carry frets; piano
// voicings carry an inversion label.
type Voicing struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Instrument Instrument `json:"instrument"`
	Frets      *Frets     `json:"frets,omitempty"`
	Barres     []Barre    `json:"barres,omitempty"`
	Form       string     `json:"form,omitempty"`
	Inversion  string     `json:"inversion,omitempty"`
	Position   string     `json:"position"`
	Difficulty Difficulty `json:"difficulty"`
	Source     Source     `json:"source"`
	Notes      []string   `json:"notes"`
	MIDI       []int      `json:"midi"`
	Scores     Scores     `json:"scores"`
}

// Metadata describes how a response was produced
type Metadata struct {
	Chord            string       `json:"chord"`
	Root             theory.Note  `json:"root"`
	Quality          ChordQuality `json:"quality"`
	QualityFallback  bool         `json:"qualityFallback,omitempty"`
	Instrument       Instrument   `json:"instrument"`
	Constraints      Constraints  `json:"constraints"`
	TotalCandidates  int          `json:"totalCandidates"`
	FilteredCount    int          `json:"filteredCount"`
	ReturnedCount    int          `json:"returnedCount"`
	GenerationTimeMs float64      `json:"generationTimeMs"`
	Warnings         []string     `json:"warnings"`
	Suggestions      []string     `json:"suggestions"`
}

// Response holds the ranked voicings, metadata and optional lesson tips
type Response struct {
	Voicings []Voicing         `json:"voicings"`
	Metadata Metadata          `json:"metadata"`
	Lessons  map[string]string `json:"lessons,omitempty"`
}

// candidate is a shape under consideration together with its provenance
type candidate struct {
	shape  ChordShape
	source Source
}

// Generate produces up to MaxVoicings ranked voicings. It is pure apart from
// the reported generation time.
func Generate(req Request) (*Response, error) {
	start := time.Now()

	instrument := req.Instrument
	if instrument == "" {
		instrument = InstrumentGuitar
	}
	if instrument != InstrumentGuitar && instrument != InstrumentPiano {
		return nil, newError(CodeInvalidChord, fmt.Sprintf("unsupported instrument %q", req.Instrument),
			"Use \"guitar\" or \"piano\"")
	}

	if instrument == InstrumentGuitar && !standardTunings[strings.ToLower(strings.TrimSpace(req.Tuning))] {
		return nil, newError(CodeInvalidTuning, fmt.Sprintf("tuning %q is not supported", req.Tuning),
			"Only standard tuning (EADGBE) is supported", "Transpose the chord for your capo position instead")
	}

	chord, err := req.ChordInput.Resolve()
	if err != nil {
		return nil, err
	}

	constraints := ParseConstraints(req.ConstraintText)
	if req.Constraints != nil {
		constraints = req.Constraints.Merge(constraints)
	}
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	meta := Metadata{
		Chord:           chord.Name(),
		Root:            chord.Root,
		Quality:         chord.Quality,
		QualityFallback: chord.QualityFallback,
		Instrument:      instrument,
		Constraints:     constraints,
		Warnings:        []string{},
		Suggestions:     []string{},
	}
	if chord.QualityFallback {
		meta.Warnings = append(meta.Warnings,
			fmt.Sprintf("quality of %q not fully recognized; using %s", req.ChordInput.String(), chord.Quality.Display()))
	}
	if w := keyWarning(chord, constraints.Key); w != "" {
		meta.Warnings = append(meta.Warnings, w)
	}

	var voicings []Voicing
	if instrument == InstrumentPiano {
		voicings, err = pianoVoicings(chord, constraints, &meta)
	} else {
		voicings, err = guitarVoicings(chord, constraints, &meta)
	}
	if err != nil {
		return nil, err
	}

	count := req.Count
	if count <= 0 || count > MaxVoicings {
		count = MaxVoicings
	}
	if len(voicings) > count {
		voicings = voicings[:count]
	}
	meta.ReturnedCount = len(voicings)

	resp := &Response{Voicings: voicings, Metadata: meta}
	if req.LessonMode {
		resp.Lessons = LessonTips(voicings)
	}
	resp.Metadata.GenerationTimeMs = float64(time.Since(start).Microseconds()) / 1000
	return resp, nil
}

func guitarVoicings(chord ResolvedChord, c Constraints, meta *Metadata) ([]Voicing, error) {
	if c.ChordType != "" {
		meta.Warnings = append(meta.Warnings, "chordType applies to piano voicings only and was ignored")
	}
	if c.Register != "" {
		meta.Warnings = append(meta.Warnings, "register applies to piano voicings only and was ignored")
	}

	candidates := collectCandidates(chord)
	meta.TotalCandidates = len(candidates)
	if len(candidates) == 0 {
		return nil, newError(CodeNoVoicingsFound,
			fmt.Sprintf("no guitar voicings available for %s", chord.Name()),
			nearbySuggestions(chord)...)
	}

	var kept []candidate
	for _, cand := range candidates {
		if matches(cand.shape, c) {
			kept = append(kept, cand)
		}
	}
	meta.FilteredCount = len(kept)
	if len(kept) == 0 {
		return nil, newError(CodeNoVoicingsFound,
			fmt.Sprintf("no voicings for %s match the constraints", chord.Name()),
			relaxSuggestions(c)...)
	}

	voicings := make([]Voicing, 0, len(kept))
	for _, cand := range kept {
		voicings = append(voicings, guitarVoicing(chord, cand, c))
	}
	rank(voicings)
	return voicings, nil
}

// collectCandidates returns exact curated matches first, then moveable
// shapes of the same quality transposed up to the root. Fret patterns
// already seen are dropped.
func collectCandidates(chord ResolvedChord) []candidate {
	var out []candidate
	seen := map[Frets]bool{}

	for _, s := range LookupShapes(chord.Root, chord.Quality) {
		if seen[s.Frets] {
			continue
		}
		seen[s.Frets] = true
		out = append(out, candidate{shape: s, source: SourceCurated})
	}

	for _, i := range shapesByQuality[chord.Quality] {
		s := shapeDatabase[i]
		if s.Root == chord.Root || !s.Moveable() {
			continue
		}
		moved, ok := s.Transpose(s.Root.Interval(chord.Root))
		if !ok || seen[moved.Frets] {
			continue
		}
		seen[moved.Frets] = true
		out = append(out, candidate{shape: moved, source: SourceTransposed})
	}
	return out
}

func matches(s ChordShape, c Constraints) bool {
	lo, hi, fretted := s.FrettedRange()
	// Open strings are not fretted notes; OpenStringsAvoid excludes them
	if c.FretMin != nil && fretted && lo < *c.FretMin {
		return false
	}
	if c.FretMax != nil && fretted && hi > *c.FretMax {
		return false
	}
	if c.StringMin != nil || c.StringMax != nil {
		for _, str := range s.PlayedStrings() {
			if (c.StringMin != nil && str < *c.StringMin) || (c.StringMax != nil && str > *c.StringMax) {
				return false
			}
		}
	}
	if c.MaxFretSpan != nil && fretted && hi-lo > *c.MaxFretSpan {
		return false
	}
	for _, str := range c.RequiredOpenStrings {
		if s.Frets[str] != 0 {
			return false
		}
	}
	if c.OpenStrings == OpenStringsAvoid && len(s.OpenStrings()) > 0 {
		return false
	}
	if c.AvoidBarre && len(s.Barres) > 0 {
		return false
	}
	if c.MaxDifficulty != "" && difficultyRank[s.Difficulty] > difficultyRank[c.MaxDifficulty] {
		return false
	}
	return true
}

func guitarVoicing(chord ResolvedChord, cand candidate, c Constraints) Voicing {
	s := cand.shape
	frets := s.Frets
	pitches := s.Pitches()

	playability := playabilityScores[s.Difficulty]
	total := playabilityWeight*playability + musicalWeight*curatedMusical
	if c.OpenStrings == OpenStringsPrefer && len(s.OpenStrings()) > 0 {
		total += openStringBonus
	}

	return Voicing{
		ID:         voicingID(InstrumentGuitar, chord, frets.String()),
		Name:       chord.Name(),
		Instrument: InstrumentGuitar,
		Frets:      &frets,
		Barres:     s.Barres,
		Form:       s.Form,
		Position:   positionLabel(s),
		Difficulty: s.Difficulty,
		Source:     cand.source,
		Notes:      noteNames(pitches),
		MIDI:       pitches,
		Scores: Scores{
			Playability: round2(playability),
			Musical:     curatedMusical,
			Total:       round2(minFloat(total, 1)),
		},
	}
}

// rank sorts by total score, keeping database order among equals
func rank(voicings []Voicing) {
	sort.SliceStable(voicings, func(i, j int) bool {
		return voicings[i].Scores.Total > voicings[j].Scores.Total
	})
}

func voicingID(instrument Instrument, chord ResolvedChord, variant string) string {
	id := fmt.Sprintf("%s-%s-%s-%s", instrument, chord.Root, chord.Quality, variant)
	return strings.ReplaceAll(id, "#", "s")
}

func positionLabel(s ChordShape) string {
	lo, _, ok := s.FrettedRange()
	if !ok || len(s.OpenStrings()) > 0 || lo <= 1 && len(s.Barres) == 0 {
		return "Open position"
	}
	if len(s.Barres) > 0 {
		lo = s.Barres[0].Fret
	}
	return ordinal(lo) + " fret"
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func keyWarning(chord ResolvedChord, key *theory.Note) string {
	if key == nil {
		return ""
	}
	major, _ := theory.LookupMode(theory.ModeMajor)
	scale := theory.ScaleSet(*key, major)
	var outside []theory.Note
	for _, iv := range chord.Quality.Intervals() {
		n := chord.Root.Transpose(iv)
		if !scale.Contains(n) {
			outside = append(outside, n)
		}
	}
	if len(outside) == 0 {
		return ""
	}
	return fmt.Sprintf("%s is not diatonic to %s major (%s outside the key)",
		chord.Symbol(), *key, theory.JoinNotes(theory.SortedUnique(outside)))
}

func nearbySuggestions(chord ResolvedChord) []string {
	var out []string
	for _, q := range Qualities() {
		if q == chord.Quality {
			continue
		}
		if len(collectCandidates(ResolvedChord{Root: chord.Root, Quality: q})) > 0 {
			out = append(out, fmt.Sprintf("Try %s%s", chord.Root, q.Suffix()))
		}
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, "Try a different root or quality")
	}
	return out
}

func relaxSuggestions(c Constraints) []string {
	var out []string
	if c.FretMin != nil || c.FretMax != nil {
		out = append(out, "Widen the fret range")
	}
	if c.StringMin != nil || c.StringMax != nil {
		out = append(out, "Allow more strings")
	}
	if c.MaxFretSpan != nil {
		out = append(out, "Allow a wider fret span")
	}
	if len(c.RequiredOpenStrings) > 0 || c.OpenStrings == OpenStringsAvoid {
		out = append(out, "Drop the open-string requirement")
	}
	if c.AvoidBarre {
		out = append(out, "Allow barre chords")
	}
	if c.MaxDifficulty != "" {
		out = append(out, "Allow harder shapes")
	}
	if len(out) == 0 {
		out = append(out, "Remove some constraints")
	}
	return out
}

func noteNames(pitches []int) []string {
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = theory.Note(p % 12).String()
	}
	return names
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
