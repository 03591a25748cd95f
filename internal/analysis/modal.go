// Package analysis explains chord progressions in terms of modes
package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// Scoring constants
const (
	outsideNotePenalty = 0.2
	modalBonus         = 0.3
)

// Modes that earn the bonus, keyed by the semitone offset of their colour tone
var modalBonusIntervals = map[string]int{
	theory.ModeLydian:     6,  // #4
	theory.ModeMixolydian: 10, // b7
	theory.ModeDorian:     9,  // natural 6
}

var (
	tokenSplitRe = regexp.MustCompile(`[\s,;|>→–—]+|\s-\s|-{2,}`)
	tokenTrim    = `"'.:!?()[]{}`

	// A dash or slash directly before a chord root joins two chords: C-G-Am, Am/F/C
	dashJoinRe  = regexp.MustCompile(`-[A-G]`)
	slashJoinRe = regexp.MustCompile(`/[A-G]`)
)

// ModeCandidate is one scored (root, mode) pair
type ModeCandidate struct {
	Mode         string        `json:"mode"`
	Coverage     float64       `json:"coverage"`
	Penalty      float64       `json:"penalty"`
	Bonus        float64       `json:"bonus"`
	Score        float64       `json:"score"`
	OutsideNotes []theory.Note `json:"outsideNotes"`
}

// ModalAnalysis is the best-fit explanation of a progression
type ModalAnalysis struct {
	BestRoot       theory.Note     `json:"bestRoot"`
	BestMode       string          `json:"bestMode"`
	ModeName       string          `json:"modeName"`
	Confidence     float64         `json:"confidence"`
	Score          float64         `json:"score"`
	Reason         string          `json:"reason"`
	BorrowedChords []string        `json:"borrowedChords"`
	NotesUsed      []theory.Note   `json:"notesUsed"`
	Chords         []string        `json:"chords"`
	Candidates     []ModeCandidate `json:"candidates"`
}

// ExtractChords pulls every token of text that parses as a chord symbol
func ExtractChords(text string) []theory.ChordSymbol {
	var chords []theory.ChordSymbol
	for _, token := range tokenSplitRe.Split(text, -1) {
		token = strings.Trim(token, tokenTrim)
		if token == "" {
			continue
		}
		chords = append(chords, parseToken(token)...)
	}
	return chords
}

// parseToken reads a token as one chord, or failing that as chords joined by
// dashes, then by slashes. C-7 and G/B stay single chords.
func parseToken(token string) []theory.ChordSymbol {
	if chord, ok := theory.ParseChord(token); ok {
		return []theory.ChordSymbol{chord}
	}

	var chords []theory.ChordSymbol
	dashed := splitBefore(token, dashJoinRe)
	if len(dashed) == 1 {
		for _, part := range splitBefore(token, slashJoinRe) {
			if chord, ok := theory.ParseChord(part); ok {
				chords = append(chords, chord)
			}
		}
		return chords
	}
	for _, part := range dashed {
		chords = append(chords, parseToken(part)...)
	}
	return chords
}

// splitBefore cuts s at every match of sep, dropping the separator character
// and keeping the chord root that follows it
func splitBefore(s string, sep *regexp.Regexp) []string {
	var parts []string
	start := 0
	for _, loc := range sep.FindAllStringIndex(s, -1) {
		parts = append(parts, s[start:loc[0]])
		start = loc[0] + 1
	}
	return append(parts, s[start:])
}

// AnalyzeProgression finds the mode that best explains the chords in text.
// Only the first chord's root is tried as tonic. It returns nil when no
// chord symbol can be parsed.
func AnalyzeProgression(text string) *ModalAnalysis {
	chords := ExtractChords(text)
	if len(chords) == 0 {
		return nil
	}

	used := make(theory.NoteSet)
	symbols := make([]string, 0, len(chords))
	for _, chord := range chords {
		symbols = append(symbols, chord.Symbol)
		for _, n := range chord.Tones() {
			used[n] = true
		}
	}
	notesUsed := used.Sorted()
	tonic := chords[0].Root

	var (
		best       theory.Mode
		bestIdx    = -1
		bestScore  float64
		candidates []ModeCandidate
	)

	for i, mode := range theory.AnalysisModes() {
		candidate := scoreMode(tonic, mode, notesUsed)
		candidates = append(candidates, candidate)
		if bestIdx < 0 || candidate.Score > bestScore {
			best, bestIdx, bestScore = mode, i, candidate.Score
		}
	}

	winner := candidates[bestIdx]
	borrowed := borrowedChords(chords, theory.ScaleSet(tonic, best))

	return &ModalAnalysis{
		BestRoot:       tonic,
		BestMode:       best.Key,
		ModeName:       best.Name,
		Confidence:     math.Min(1, bestScore),
		Score:          round3(bestScore),
		Reason:         explain(tonic, best, winner, borrowed, len(notesUsed)),
		BorrowedChords: borrowed,
		NotesUsed:      notesUsed,
		Chords:         symbols,
		Candidates:     candidates,
	}
}

func scoreMode(tonic theory.Note, mode theory.Mode, used []theory.Note) ModeCandidate {
	scale := theory.ScaleSet(tonic, mode)

	inside := 0
	outside := []theory.Note{}
	for _, n := range used {
		if scale.Contains(n) {
			inside++
		} else {
			outside = append(outside, n)
		}
	}

	coverage := float64(inside) / float64(len(used))
	penalty := outsideNotePenalty * float64(len(outside))
	base := math.Max(0, coverage-penalty)

	bonus := 0.0
	if interval, ok := modalBonusIntervals[mode.Key]; ok {
		if theory.NewNoteSet(used...).Contains(tonic.Transpose(interval)) {
			bonus = modalBonus
		}
	}

	return ModeCandidate{
		Mode:         mode.Key,
		Coverage:     round3(coverage),
		Penalty:      round3(penalty),
		Bonus:        bonus,
		Score:        base + bonus,
		OutsideNotes: outside,
	}
}

// borrowedChords lists, once each and in order, chords with a tone outside scale
func borrowedChords(chords []theory.ChordSymbol, scale theory.NoteSet) []string {
	borrowed := []string{}
	seen := map[string]bool{}
	for _, chord := range chords {
		if seen[chord.Symbol] {
			continue
		}
		for _, n := range chord.Tones() {
			if !scale.Contains(n) {
				borrowed = append(borrowed, chord.Symbol)
				seen[chord.Symbol] = true
				break
			}
		}
	}
	return borrowed
}

func explain(tonic theory.Note, mode theory.Mode, winner ModeCandidate, borrowed []string, noteCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Best fit is %s %s", tonic, mode.Name)

	if len(winner.OutsideNotes) == 0 {
		fmt.Fprintf(&b, ": all %d notes used belong to the scale.", noteCount)
	} else {
		fmt.Fprintf(&b, ": %d of %d notes fit; outside the mode: %s.",
			noteCount-len(winner.OutsideNotes), noteCount, theory.JoinNotes(winner.OutsideNotes))
	}

	if winner.Bonus > 0 {
		fmt.Fprintf(&b, " The %s (%s) gives the characteristic %s colour.",
			mode.CharacteristicNote(tonic), mode.Characteristic.Label, strings.ToLower(mode.Name))
	}

	if len(borrowed) > 0 {
		fmt.Fprintf(&b, " Borrowed chords: %s.", strings.Join(borrowed, ", "))
	}
	return b.String()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
