package theory

import "strings"

// HarmonicFunction is the positional role of a scale degree
type HarmonicFunction string

const (
	FunctionTonic       HarmonicFunction = "tonic"
	FunctionSupertonic  HarmonicFunction = "supertonic"
	FunctionMediant     HarmonicFunction = "mediant"
	FunctionSubdominant HarmonicFunction = "subdominant"
	FunctionDominant    HarmonicFunction = "dominant"
	FunctionSubmediant  HarmonicFunction = "submediant"
	FunctionLeadingTone HarmonicFunction = "leading-tone"
)

// Indexed by zero-based scale degree for every mode. Approximate outside the major family.
var harmonicFunctions = [7]HarmonicFunction{
	FunctionTonic,
	FunctionSupertonic,
	FunctionMediant,
	FunctionSubdominant,
	FunctionDominant,
	FunctionSubmediant,
	FunctionLeadingTone,
}

var romanNumerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// DiatonicChord is a triad built on one degree of a mode
type DiatonicChord struct {
	Root            Note             `json:"root"`
	Quality         Quality          `json:"quality"`
	QualityFallback bool             `json:"qualityFallback,omitempty"`
	Numeral         string           `json:"numeral"`
	Degree          int              `json:"degree"`
	Intervals       []int            `json:"intervals"`
	Notes           []Note           `json:"notes"`
	Name            string           `json:"name"`
	Function        HarmonicFunction `json:"function"`
}

// ModeChords builds the seven diatonic triads of root/mode by stacking
// alternate scale tones, then classifying the resulting gaps.
func ModeChords(root Note, mode Mode) [7]DiatonicChord {
	scale := ScaleNotes(root, mode)

	var chords [7]DiatonicChord
	for i := 0; i < 7; i++ {
		chordRoot := scale[i]
		third := scale[(i+2)%7]
		fifth := scale[(i+4)%7]

		thirdGap := chordRoot.Interval(third)
		fifthGap := chordRoot.Interval(fifth)
		quality, known := ClassifyTriad(thirdGap, fifthGap)

		chords[i] = DiatonicChord{
			Root:            chordRoot,
			Quality:         quality,
			QualityFallback: !known,
			Numeral:         RomanNumeral(i+1, quality),
			Degree:          i + 1,
			Intervals:       []int{0, thirdGap, fifthGap},
			Notes:           []Note{chordRoot, third, fifth},
			Name:            chordRoot.String() + TriadSuffix(quality),
			Function:        harmonicFunctions[i],
		}
	}
	return chords
}

// ClassifyTriad maps (third, fifth) semitone gaps to a triad quality.
// Unrecognized gap pairs report major with known=false.
func ClassifyTriad(third, fifth int) (Quality, bool) {
	switch {
	case third == 4 && fifth == 7:
		return QualityMajor, true
	case third == 3 && fifth == 7:
		return QualityMinor, true
	case third == 3 && fifth == 6:
		return QualityDiminished, true
	case third == 4 && fifth == 8:
		return QualityAugmented, true
	}
	return QualityMajor, false
}

// RomanNumeral renders degree (1-7) cased by quality
func RomanNumeral(degree int, quality Quality) string {
	if degree < 1 || degree > 7 {
		return ""
	}
	numeral := romanNumerals[degree-1]
	switch quality {
	case QualityMinor:
		return strings.ToLower(numeral)
	case QualityDiminished:
		return strings.ToLower(numeral) + "°"
	case QualityAugmented:
		return numeral + "+"
	}
	return numeral
}

// TriadSuffix is the chord-symbol suffix for a triad quality
func TriadSuffix(quality Quality) string {
	switch quality {
	case QualityMinor:
		return "m"
	case QualityDiminished:
		return "dim"
	case QualityAugmented:
		return "aug"
	}
	return ""
}
