package voicing

import (
	"sort"
	"strings"
)

// RhythmPattern defines when a chord is struck during MIDI export
type RhythmPattern struct {
	Name string
	// Hit offsets in beats within one cycle
	Offsets []float64
	// Velocity multipliers per hit (1.0 = normal)
	Accents []float64
	// Fraction of the gap to the next hit that the notes sound (0.0-1.0)
	Articulation float64
	// Cycle length in beats
	Length float64
}

// DefaultPattern holds each chord for its full duration
const DefaultPattern = "whole"

const (
	articulationFull    = 1.0
	articulationHigh    = 0.9
	articulationMidHigh = 0.85
	articulationMedium  = 0.8
	articulationShort   = 0.4
)

var rhythmPatterns = map[string]RhythmPattern{
	"whole": {
		Offsets:      []float64{0},
		Accents:      []float64{1.0},
		Articulation: articulationFull,
		Length:       4,
	},
	"half": {
		Offsets:      []float64{0, 2},
		Accents:      []float64{1.0, 0.9},
		Articulation: articulationFull,
		Length:       4,
	},
	"quarters": {
		Offsets:      []float64{0, 1, 2, 3},
		Accents:      []float64{1.0, 0.8, 0.9, 0.8},
		Articulation: articulationHigh,
		Length:       4,
	},
	"8ths": {
		Offsets:      []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5},
		Accents:      []float64{1.0, 0.7, 0.9, 0.7, 0.95, 0.7, 0.9, 0.7},
		Articulation: articulationMidHigh,
		Length:       4,
	},
	"swing": {
		Offsets:      []float64{0, 0.67, 1, 1.67, 2, 2.67, 3, 3.67},
		Accents:      []float64{1.0, 0.7, 0.9, 0.7, 0.95, 0.7, 0.9, 0.7},
		Articulation: articulationMidHigh,
		Length:       4,
	},
	"tresillo": {
		Offsets:      []float64{0, 1.5, 3},
		Accents:      []float64{1.0, 0.9, 0.95},
		Articulation: articulationHigh,
		Length:       4,
	},
	"waltz": {
		Offsets:      []float64{0, 1, 2},
		Accents:      []float64{1.0, 0.7, 0.75},
		Articulation: articulationHigh,
		Length:       3,
	},
	"offbeat": {
		Offsets:      []float64{0.5, 1.5, 2.5, 3.5},
		Accents:      []float64{0.9, 0.85, 0.9, 0.85},
		Articulation: articulationMidHigh,
		Length:       4,
	},
	"syncopated": {
		Offsets:      []float64{0, 0.5, 1.5, 2, 3, 3.5},
		Accents:      []float64{1.0, 0.8, 0.9, 0.85, 0.95, 0.8},
		Articulation: articulationMidHigh,
		Length:       4,
	},
	"anticipation": {
		Offsets:      []float64{0, 1, 1.75, 3, 3.75},
		Accents:      []float64{1.0, 0.8, 0.9, 0.85, 0.9},
		Articulation: articulationMidHigh,
		Length:       4,
	},
	"staccato": {
		Offsets:      []float64{0, 1, 2, 3},
		Accents:      []float64{1.0, 0.9, 0.95, 0.9},
		Articulation: articulationShort,
		Length:       4,
	},
}

// GetRhythmPattern returns a pattern by name. An empty name is DefaultPattern.
func GetRhythmPattern(name string) (RhythmPattern, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultPattern
	}
	p, ok := rhythmPatterns[key]
	if ok {
		p.Name = key
	}
	return p, ok
}

// RhythmPatternNames lists the pattern names in alphabetical order
func RhythmPatternNames() []string {
	names := make([]string, 0, len(rhythmPatterns))
	for name := range rhythmPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hit is one strike of a chord, in beats from the chord's start
type hit struct {
	start    float64
	duration float64
	accent   float64
}

// hits repeats the pattern across a chord lasting beats
func (p RhythmPattern) hits(beats float64) []hit {
	var starts []float64
	var accents []float64
	for cycle := 0.0; cycle < beats; cycle += p.Length {
		for i, off := range p.Offsets {
			at := cycle + off
			if at >= beats {
				break
			}
			starts = append(starts, at)
			accents = append(accents, p.Accents[i])
		}
	}

	out := make([]hit, len(starts))
	for i, at := range starts {
		next := beats
		if i+1 < len(starts) {
			next = starts[i+1]
		}
		out[i] = hit{start: at, duration: (next - at) * p.Articulation, accent: accents[i]}
	}
	return out
}
