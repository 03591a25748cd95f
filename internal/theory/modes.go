package theory

import "strings"

// Quality classifies a chord
type Quality string

const (
	QualityMajor      Quality = "major"
	QualityMinor      Quality = "minor"
	QualityDiminished Quality = "diminished"
	QualityAugmented  Quality = "augmented"
	QualityDominant   Quality = "dominant"
	QualitySuspended  Quality = "suspended"
	QualityPower      Quality = "power"
)

// Family is the parent scale family of a mode
type Family string

const (
	FamilyMajor Family = "major"
	FamilyMinor Family = "minor"
)

// Mode keys
const (
	ModeMajor         = "major"
	ModeDorian        = "dorian"
	ModePhrygian      = "phrygian"
	ModeLydian        = "lydian"
	ModeMixolydian    = "mixolydian"
	ModeMinor         = "minor"
	ModeLocrian       = "locrian"
	ModeHarmonicMinor = "harmonic_minor"
	ModeMelodicMinor  = "melodic_minor"
)

// Characteristic describes the interval that sets a mode apart from its parent
type Characteristic struct {
	Semitones int    `json:"semitones"`
	Label     string `json:"label"`
}

// Mode is an immutable 7-note interval pattern with its diatonic metadata
type Mode struct {
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	Family         Family         `json:"family"`
	Intervals      [7]int         `json:"intervals"`
	Qualities      [7]Quality     `json:"qualities"`
	Numerals       [7]string      `json:"numerals"`
	Characteristic Characteristic `json:"characteristic"`
}

var (
	maj = QualityMajor
	mnr = QualityMinor
	dim = QualityDiminished
	aug = QualityAugmented
)

var modeCatalog = []Mode{
	{
		Key: ModeMajor, Name: "Major (Ionian)", Family: FamilyMajor,
		Intervals:      [7]int{0, 2, 4, 5, 7, 9, 11},
		Qualities:      [7]Quality{maj, mnr, mnr, maj, maj, mnr, dim},
		Numerals:       [7]string{"I", "ii", "iii", "IV", "V", "vi", "vii°"},
		Characteristic: Characteristic{Semitones: 11, Label: "major 7th"},
	},
	{
		Key: ModeDorian, Name: "Dorian", Family: FamilyMinor,
		Intervals:      [7]int{0, 2, 3, 5, 7, 9, 10},
		Qualities:      [7]Quality{mnr, mnr, maj, maj, mnr, dim, maj},
		Numerals:       [7]string{"i", "ii", "III", "IV", "v", "vi°", "VII"},
		Characteristic: Characteristic{Semitones: 9, Label: "natural 6th"},
	},
	{
		Key: ModePhrygian, Name: "Phrygian", Family: FamilyMinor,
		Intervals:      [7]int{0, 1, 3, 5, 7, 8, 10},
		Qualities:      [7]Quality{mnr, maj, maj, mnr, dim, maj, mnr},
		Numerals:       [7]string{"i", "II", "III", "iv", "v°", "VI", "vii"},
		Characteristic: Characteristic{Semitones: 1, Label: "flat 2nd"},
	},
	{
		Key: ModeLydian, Name: "Lydian", Family: FamilyMajor,
		Intervals:      [7]int{0, 2, 4, 6, 7, 9, 11},
		Qualities:      [7]Quality{maj, maj, mnr, dim, maj, mnr, mnr},
		Numerals:       [7]string{"I", "II", "iii", "iv°", "V", "vi", "vii"},
		Characteristic: Characteristic{Semitones: 6, Label: "sharp 4th"},
	},
	{
		Key: ModeMixolydian, Name: "Mixolydian", Family: FamilyMajor,
		Intervals:      [7]int{0, 2, 4, 5, 7, 9, 10},
		Qualities:      [7]Quality{maj, mnr, dim, maj, mnr, mnr, maj},
		Numerals:       [7]string{"I", "ii", "iii°", "IV", "v", "vi", "VII"},
		Characteristic: Characteristic{Semitones: 10, Label: "flat 7th"},
	},
	{
		Key: ModeMinor, Name: "Minor (Aeolian)", Family: FamilyMinor,
		Intervals:      [7]int{0, 2, 3, 5, 7, 8, 10},
		Qualities:      [7]Quality{mnr, dim, maj, mnr, mnr, maj, maj},
		Numerals:       [7]string{"i", "ii°", "III", "iv", "v", "VI", "VII"},
		Characteristic: Characteristic{Semitones: 8, Label: "flat 6th"},
	},
	{
		Key: ModeLocrian, Name: "Locrian", Family: FamilyMinor,
		Intervals:      [7]int{0, 1, 3, 5, 6, 8, 10},
		Qualities:      [7]Quality{dim, maj, mnr, mnr, maj, maj, mnr},
		Numerals:       [7]string{"i°", "II", "iii", "iv", "V", "VI", "vii"},
		Characteristic: Characteristic{Semitones: 6, Label: "flat 5th"},
	},
	{
		Key: ModeHarmonicMinor, Name: "Harmonic Minor", Family: FamilyMinor,
		Intervals:      [7]int{0, 2, 3, 5, 7, 8, 11},
		Qualities:      [7]Quality{mnr, dim, aug, mnr, maj, maj, dim},
		Numerals:       [7]string{"i", "ii°", "III+", "iv", "V", "VI", "vii°"},
		Characteristic: Characteristic{Semitones: 11, Label: "raised 7th"},
	},
	{
		Key: ModeMelodicMinor, Name: "Melodic Minor", Family: FamilyMinor,
		Intervals:      [7]int{0, 2, 3, 5, 7, 9, 11},
		Qualities:      [7]Quality{mnr, mnr, aug, maj, maj, dim, dim},
		Numerals:       [7]string{"i", "ii", "III+", "IV", "V", "vi°", "vii°"},
		Characteristic: Characteristic{Semitones: 9, Label: "raised 6th and 7th"},
	},
}

var modeAliases = map[string]string{
	"ionian":        ModeMajor,
	"maj":           ModeMajor,
	"aeolian":       ModeMinor,
	"min":           ModeMinor,
	"natural_minor": ModeMinor,
	"harmonicminor": ModeHarmonicMinor,
	"melodicminor":  ModeMelodicMinor,
	"jazz_minor":    ModeMelodicMinor,
	"harmonic":      ModeHarmonicMinor,
	"melodic":       ModeMelodicMinor,
}

// Scanned by the progression analyzer, in tie-breaking order
var analysisModeKeys = []string{
	ModeMajor, ModeMinor, ModeDorian, ModePhrygian, ModeLydian, ModeMixolydian, ModeLocrian,
}

// ModeResolution is the outcome of looking a mode up by name.
// Fallback is set when the name was not recognized and Ionian was substituted.
type ModeResolution struct {
	Mode      Mode   `json:"mode"`
	Requested string `json:"requested"`
	Fallback  bool   `json:"fallback"`
}

// Modes returns the full catalog in a fixed order
func Modes() []Mode {
	out := make([]Mode, len(modeCatalog))
	copy(out, modeCatalog)
	return out
}

// AnalysisModes returns the seven modes scanned by progression analysis
func AnalysisModes() []Mode {
	out := make([]Mode, 0, len(analysisModeKeys))
	for _, key := range analysisModeKeys {
		m, _ := LookupMode(key)
		out = append(out, m)
	}
	return out
}

// LookupMode finds a mode by key or alias
func LookupMode(name string) (Mode, bool) {
	key := normalizeModeName(name)
	if alias, ok := modeAliases[key]; ok {
		key = alias
	}
	for _, m := range modeCatalog {
		if m.Key == key {
			return m, true
		}
	}
	return Mode{}, false
}

// ResolveMode looks a mode up and falls back to Ionian for unknown names
func ResolveMode(name string) ModeResolution {
	if m, ok := LookupMode(name); ok {
		return ModeResolution{Mode: m, Requested: name}
	}
	return ModeResolution{Mode: modeCatalog[0], Requested: name, Fallback: true}
}

// ScaleNotes maps the mode's offsets onto root in scale-degree order
func ScaleNotes(root Note, mode Mode) [7]Note {
	var notes [7]Note
	for i, offset := range mode.Intervals {
		notes[i] = root.Transpose(offset)
	}
	return notes
}

// ScaleSet returns the scale notes as a membership set
func ScaleSet(root Note, mode Mode) NoteSet {
	notes := ScaleNotes(root, mode)
	return NewNoteSet(notes[:]...)
}

// CharacteristicNote returns the pitch carrying the mode's characteristic interval
func (m Mode) CharacteristicNote(root Note) Note {
	return root.Transpose(m.Characteristic.Semitones)
}

func normalizeModeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return key
}
