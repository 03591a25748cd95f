package voicing

import (
	"fmt"
	"sort"
)

// Lowest MIDI pitch of each register's root octave
var registerBase = map[Register]int{
	RegisterLow:  36,
	RegisterMid:  48,
	RegisterHigh: 60,
}

var inversionNames = []string{"Root position", "1st inversion", "2nd inversion", "3rd inversion"}

var inversionDifficulty = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

func pianoVoicings(chord ResolvedChord, c Constraints, meta *Metadata) ([]Voicing, error) {
	if c.FretMin != nil || c.FretMax != nil || c.StringMin != nil || c.StringMax != nil ||
		c.MaxFretSpan != nil || len(c.RequiredOpenStrings) > 0 || c.OpenStrings != OpenStringsAny || c.AvoidBarre {
		meta.Warnings = append(meta.Warnings, "fret, string and open-string constraints apply to guitar only and were ignored")
	}

	intervals, warning := pianoStructure(chord.Quality, c.ChordType)
	if warning != "" {
		meta.Warnings = append(meta.Warnings, warning)
	}

	register := c.Register
	if _, ok := registerBase[register]; !ok {
		register = RegisterMid
	}
	base := registerBase[register] + int(chord.Root)

	inversions := len(intervals)
	if c.ChordType == ChordTypePower || chord.Quality == QualityPower {
		inversions = 1
	}
	if inversions > len(inversionNames) {
		inversions = len(inversionNames)
	}
	meta.TotalCandidates = inversions

	var voicings []Voicing
	for k := 0; k < inversions; k++ {
		difficulty := inversionDifficulty[k]
		if c.MaxDifficulty != "" && difficultyRank[difficulty] > difficultyRank[c.MaxDifficulty] {
			continue
		}

		pitches := invert(base, intervals, k)
		playability := playabilityScores[difficulty]
		variant := "root"
		if k > 0 {
			variant = fmt.Sprintf("inv%d", k)
		}

		voicings = append(voicings, Voicing{
			ID:         voicingID(InstrumentPiano, chord, variant),
			Name:       chord.Name(),
			Instrument: InstrumentPiano,
			Inversion:  inversionNames[k],
			Position:   fmt.Sprintf("%s register", registerLabel(register)),
			Difficulty: difficulty,
			Source:     SourceGenerated,
			Notes:      noteNames(pitches),
			MIDI:       pitches,
			Scores: Scores{
				Playability: round2(playability),
				Musical:     curatedMusical,
				Total:       round2(playabilityWeight*playability + musicalWeight*curatedMusical),
			},
		})
	}

	meta.FilteredCount = len(voicings)
	if len(voicings) == 0 {
		return nil, newError(CodeNoVoicingsFound,
			fmt.Sprintf("no piano voicings for %s match the constraints", chord.Name()),
			relaxSuggestions(c)...)
	}
	rank(voicings)
	return voicings, nil
}

// pianoStructure picks the chord tones to voice for a chord type
func pianoStructure(q ChordQuality, chordType ChordType) ([]int, string) {
	full := q.Intervals()
	triad := full
	if len(triad) > 3 {
		triad = triad[:3]
	}

	switch chordType {
	case ChordTypeTriad:
		return triad, ""
	case ChordTypeSeventh:
		if q.HasSeventh() {
			return full, ""
		}
		return triad, fmt.Sprintf("%s has no seventh; voicing the triad", q.Display())
	case ChordTypeShell:
		if q.HasSeventh() {
			return []int{full[0], full[1], full[3]}, ""
		}
		return triad, fmt.Sprintf("shell voicings need a seventh; voicing the %s triad", q.Display())
	case ChordTypePower:
		return []int{0, 7, 12}, ""
	}
	return full, ""
}

// invert raises the lowest k chord tones by an octave
func invert(base int, intervals []int, k int) []int {
	pitches := make([]int, len(intervals))
	for i, iv := range intervals {
		pitches[i] = base + iv
		if i < k {
			pitches[i] += 12
		}
	}
	sort.Ints(pitches)
	return pitches
}

func registerLabel(r Register) string {
	switch r {
	case RegisterLow:
		return "Low"
	case RegisterHigh:
		return "High"
	}
	return "Mid"
}
