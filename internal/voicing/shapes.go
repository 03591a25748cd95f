package voicing

import (
	"encoding/json"
	"fmt"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// Muted marks an unplayed string in a fret array
const Muted = -1

// StringCount is the number of guitar strings; index 0 is low E
const StringCount = 6

// Highest fret a transposed shape may reach
const maxTransposedFret = 15

// Open-string MIDI pitches in standard tuning, low E to high e
var openStringPitches = [StringCount]int{40, 45, 50, 55, 59, 64}

// Difficulty grades how hard a shape is to fret
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var difficultyRank = map[Difficulty]int{
	DifficultyBeginner:     1,
	DifficultyIntermediate: 2,
	DifficultyAdvanced:     3,
}

// Frets holds one fret per string, low E to high e. Muted strings encode as null.
type Frets [StringCount]int

// MarshalJSON implements json.Marshaler
func (f Frets) MarshalJSON() ([]byte, error) {
	out := make([]*int, StringCount)
	for i, fret := range f {
		if fret == Muted {
			continue
		}
		v := fret
		out[i] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Frets) UnmarshalJSON(data []byte) error {
	var in []*int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in) != StringCount {
		return fmt.Errorf("expected %d frets, got %d", StringCount, len(in))
	}
	for i, v := range in {
		if v == nil {
			f[i] = Muted
		} else {
			f[i] = *v
		}
	}
	return nil
}

// String renders the frets low to high, "x" for muted, e.g. "x.3.2.0.1.0"
func (f Frets) String() string {
	s := ""
	for i, fret := range f {
		if i > 0 {
			s += "."
		}
		if fret == Muted {
			s += "x"
		} else {
			s += fmt.Sprint(fret)
		}
	}
	return s
}

// Barre is one finger held across strings FromString..ToString at Fret
type Barre struct {
	Fret       int `json:"fret"`
	FromString int `json:"fromString"`
	ToString   int `json:"toString"`
}

// ChordShape is a curated guitar fingering
type ChordShape struct {
	Root       theory.Note
	Quality    ChordQuality
	Frets      Frets
	Barres     []Barre
	Difficulty Difficulty
	Form       string
}

// Moveable reports whether the shape can slide along the neck: it has a
// barre and no open strings.
func (s ChordShape) Moveable() bool {
	if len(s.Barres) == 0 {
		return false
	}
	for _, fret := range s.Frets {
		if fret == 0 {
			return false
		}
	}
	return true
}

// PlayedStrings returns the indices of strings that sound
func (s ChordShape) PlayedStrings() []int {
	var played []int
	for i, fret := range s.Frets {
		if fret != Muted {
			played = append(played, i)
		}
	}
	return played
}

// OpenStrings returns the indices of strings played open
func (s ChordShape) OpenStrings() []int {
	var open []int
	for i, fret := range s.Frets {
		if fret == 0 {
			open = append(open, i)
		}
	}
	return open
}

// MutedStrings returns the indices of strings not played
func (s ChordShape) MutedStrings() []int {
	var muted []int
	for i, fret := range s.Frets {
		if fret == Muted {
			muted = append(muted, i)
		}
	}
	return muted
}

// FrettedRange returns the lowest and highest fretted (non-open) frets.
// ok is false when every played string is open.
func (s ChordShape) FrettedRange() (lo, hi int, ok bool) {
	for _, fret := range s.Frets {
		if fret <= 0 {
			continue
		}
		if !ok || fret < lo {
			lo = fret
		}
		if !ok || fret > hi {
			hi = fret
		}
		ok = true
	}
	return lo, hi, ok
}

// Span is the distance between the highest and lowest fretted notes
func (s ChordShape) Span() int {
	lo, hi, ok := s.FrettedRange()
	if !ok {
		return 0
	}
	return hi - lo
}

// MaxFret is the highest fret used, 0 for all-open shapes
func (s ChordShape) MaxFret() int {
	_, hi, _ := s.FrettedRange()
	return hi
}

// Pitches returns the sounding MIDI pitches, low string first
func (s ChordShape) Pitches() []int {
	var pitches []int
	for i, fret := range s.Frets {
		if fret != Muted {
			pitches = append(pitches, openStringPitches[i]+fret)
		}
	}
	return pitches
}

// Transpose moves a moveable shape up by semitones (0-11). ok is false when
// the result would pass maxTransposedFret.
func (s ChordShape) Transpose(semitones int) (ChordShape, bool) {
	out := s
	out.Root = s.Root.Transpose(semitones)
	out.Barres = make([]Barre, len(s.Barres))
	for i, b := range s.Barres {
		b.Fret += semitones
		out.Barres[i] = b
	}
	for i, fret := range s.Frets {
		if fret == Muted {
			continue
		}
		out.Frets[i] = fret + semitones
	}
	return out, out.MaxFret() <= maxTransposedFret
}

const xx = Muted

func frets(f ...int) Frets {
	var out Frets
	copy(out[:], f)
	return out
}

func barre(fret, from, to int) []Barre {
	return []Barre{{Fret: fret, FromString: from, ToString: to}}
}

// Curated shapes in ranking-tiebreak order
var shapeDatabase = []ChordShape{
	// Major
	{Root: theory.C, Quality: QualityMajor, Frets: frets(xx, 3, 2, 0, 1, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.A, Quality: QualityMajor, Frets: frets(xx, 0, 2, 2, 2, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.G, Quality: QualityMajor, Frets: frets(3, 2, 0, 0, 0, 3), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.E, Quality: QualityMajor, Frets: frets(0, 2, 2, 1, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualityMajor, Frets: frets(xx, xx, 0, 2, 3, 2), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityMajor, Frets: frets(1, 3, 3, 2, 1, 1), Barres: barre(1, 0, 5), Difficulty: DifficultyIntermediate, Form: "E-shape"},
	{Root: theory.ASharp, Quality: QualityMajor, Frets: frets(xx, 1, 3, 3, 3, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},
	{Root: theory.C, Quality: QualityMajor, Frets: frets(xx, 3, 5, 5, 5, 3), Barres: barre(3, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},

	// Minor
	{Root: theory.A, Quality: QualityMinor, Frets: frets(xx, 0, 2, 2, 1, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.E, Quality: QualityMinor, Frets: frets(0, 2, 2, 0, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualityMinor, Frets: frets(xx, xx, 0, 2, 3, 1), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityMinor, Frets: frets(1, 3, 3, 1, 1, 1), Barres: barre(1, 0, 5), Difficulty: DifficultyIntermediate, Form: "E-shape"},
	{Root: theory.ASharp, Quality: QualityMinor, Frets: frets(xx, 1, 3, 3, 2, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},
	{Root: theory.B, Quality: QualityMinor, Frets: frets(xx, 2, 4, 4, 3, 2), Barres: barre(2, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},

	// Dominant 7th
	{Root: theory.A, Quality: QualityDominant7, Frets: frets(xx, 0, 2, 0, 2, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.B, Quality: QualityDominant7, Frets: frets(xx, 2, 1, 2, 0, 2), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.C, Quality: QualityDominant7, Frets: frets(xx, 3, 2, 3, 1, 0), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.D, Quality: QualityDominant7, Frets: frets(xx, xx, 0, 2, 1, 2), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.E, Quality: QualityDominant7, Frets: frets(0, 2, 0, 1, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.G, Quality: QualityDominant7, Frets: frets(3, 2, 0, 0, 0, 1), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityDominant7, Frets: frets(1, 3, 1, 2, 1, 1), Barres: barre(1, 0, 5), Difficulty: DifficultyIntermediate, Form: "E-shape"},
	{Root: theory.ASharp, Quality: QualityDominant7, Frets: frets(xx, 1, 3, 1, 3, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},

	// Major 7th
	{Root: theory.C, Quality: QualityMajor7, Frets: frets(xx, 3, 2, 0, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.A, Quality: QualityMajor7, Frets: frets(xx, 0, 2, 1, 2, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualityMajor7, Frets: frets(xx, xx, 0, 2, 2, 2), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityMajor7, Frets: frets(xx, xx, 3, 2, 1, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.G, Quality: QualityMajor7, Frets: frets(3, 2, 0, 0, 0, 2), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.E, Quality: QualityMajor7, Frets: frets(0, 2, 1, 1, 0, 0), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.ASharp, Quality: QualityMajor7, Frets: frets(xx, 1, 3, 2, 3, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},

	// Minor 7th
	{Root: theory.A, Quality: QualityMinor7, Frets: frets(xx, 0, 2, 0, 1, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.E, Quality: QualityMinor7, Frets: frets(0, 2, 0, 0, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualityMinor7, Frets: frets(xx, xx, 0, 2, 1, 1), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityMinor7, Frets: frets(1, 3, 1, 1, 1, 1), Barres: barre(1, 0, 5), Difficulty: DifficultyIntermediate, Form: "E-shape"},
	{Root: theory.ASharp, Quality: QualityMinor7, Frets: frets(xx, 1, 3, 1, 2, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},

	// Half-diminished and diminished
	{Root: theory.B, Quality: QualityMinor7b5, Frets: frets(xx, 2, 3, 2, 3, xx), Difficulty: DifficultyAdvanced, Form: "open"},
	{Root: theory.D, Quality: QualityDiminished, Frets: frets(xx, xx, 0, 1, 3, 1), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.B, Quality: QualityDiminished, Frets: frets(xx, 2, 3, 4, 3, xx), Difficulty: DifficultyAdvanced, Form: "open"},

	// Augmented
	{Root: theory.C, Quality: QualityAugmented, Frets: frets(xx, 3, 2, 1, 1, 0), Difficulty: DifficultyIntermediate, Form: "open"},
	{Root: theory.E, Quality: QualityAugmented, Frets: frets(0, 3, 2, 1, 1, 0), Difficulty: DifficultyIntermediate, Form: "open"},

	// Suspended
	{Root: theory.A, Quality: QualitySus2, Frets: frets(xx, 0, 2, 2, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualitySus2, Frets: frets(xx, xx, 0, 2, 3, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.ASharp, Quality: QualitySus2, Frets: frets(xx, 1, 3, 3, 1, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},
	{Root: theory.A, Quality: QualitySus4, Frets: frets(xx, 0, 2, 2, 3, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.D, Quality: QualitySus4, Frets: frets(xx, xx, 0, 2, 3, 3), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.E, Quality: QualitySus4, Frets: frets(0, 2, 2, 2, 0, 0), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.ASharp, Quality: QualitySus4, Frets: frets(xx, 1, 3, 3, 4, 1), Barres: barre(1, 1, 5), Difficulty: DifficultyIntermediate, Form: "A-shape"},
	{Root: theory.F, Quality: QualitySus4, Frets: frets(1, 3, 3, 3, 1, 1), Barres: barre(1, 0, 5), Difficulty: DifficultyIntermediate, Form: "E-shape"},

	// Power
	{Root: theory.E, Quality: QualityPower, Frets: frets(0, 2, 2, xx, xx, xx), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.A, Quality: QualityPower, Frets: frets(xx, 0, 2, 2, xx, xx), Difficulty: DifficultyBeginner, Form: "open"},
	{Root: theory.F, Quality: QualityPower, Frets: frets(1, 3, 3, xx, xx, xx), Barres: barre(3, 1, 2), Difficulty: DifficultyBeginner, Form: "power"},
	{Root: theory.ASharp, Quality: QualityPower, Frets: frets(xx, 1, 3, 3, xx, xx), Barres: barre(3, 2, 3), Difficulty: DifficultyBeginner, Form: "power"},

	// Add9
	{Root: theory.C, Quality: QualityAdd9, Frets: frets(xx, 3, 2, 0, 3, 0), Difficulty: DifficultyIntermediate, Form: "open"},
}

type shapeKey struct {
	root    theory.Note
	quality ChordQuality
}

// Built once at init and read-only afterwards
var (
	shapesByKey     = map[shapeKey][]int{}
	shapesByQuality = map[ChordQuality][]int{}
)

func init() {
	for i, s := range shapeDatabase {
		k := shapeKey{s.Root, s.Quality}
		shapesByKey[k] = append(shapesByKey[k], i)
		shapesByQuality[s.Quality] = append(shapesByQuality[s.Quality], i)
	}
}

// Shapes returns a copy of the curated database
func Shapes() []ChordShape {
	out := make([]ChordShape, len(shapeDatabase))
	for i, s := range shapeDatabase {
		out[i] = s.clone()
	}
	return out
}

// LookupShapes returns the curated shapes for root and quality
func LookupShapes(root theory.Note, quality ChordQuality) []ChordShape {
	idx := shapesByKey[shapeKey{root, quality}]
	out := make([]ChordShape, 0, len(idx))
	for _, i := range idx {
		out = append(out, shapeDatabase[i].clone())
	}
	return out
}

// clone copies the shape with its own Barres so callers cannot reach the database
func (s ChordShape) clone() ChordShape {
	out := s
	out.Barres = append([]Barre(nil), s.Barres...)
	return out
}
