// Package theory holds pitch, scale, mode and chord-symbol primitives
package theory

import (
	"fmt"
	"sort"
	"strings"
)

// Note is a pitch class, 0 (C) through 11 (B)
type Note int

// Semitones per octave
const octave = 12

// Pitch class constants
const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var noteNames = [octave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Natural letter offsets from C
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteNames returns the 12 canonical sharp-spelled names in pitch order
func NoteNames() []string {
	names := make([]string, octave)
	copy(names, noteNames[:])
	return names
}

// String returns the canonical sharp spelling
func (n Note) String() string {
	return noteNames[mod12(int(n))]
}

// Transpose moves the note by the given number of semitones (may be negative)
func (n Note) Transpose(semitones int) Note {
	return Note(mod12(int(n) + semitones))
}

// Interval returns the ascending distance in semitones from n up to other (0-11)
func (n Note) Interval(other Note) int {
	return mod12(int(other) - int(n))
}

// MarshalText encodes the note by name so JSON carries "C#" rather than 1
func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText accepts any spelling ParseNote understands
func (n *Note) UnmarshalText(text []byte) error {
	parsed, ok := ParseNote(string(text))
	if !ok {
		return fmt.Errorf("invalid note name: %q", string(text))
	}
	*n = parsed
	return nil
}

// ParseNote parses a note name such as "C", "f#", "Bb", "E♭" or "Cbb".
// Enharmonic spellings normalize to the sharp-spelled pitch class.
func ParseNote(s string) (Note, bool) {
	s = NormalizeAccidentals(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	semitone, ok := letterOffsets[letter]
	if !ok {
		return 0, false
	}

	for _, r := range s[1:] {
		switch r {
		case '#':
			semitone++
		case 'b':
			semitone--
		default:
			return 0, false
		}
	}

	return Note(mod12(semitone)), true
}

// NormalizeAccidentals rewrites unicode sharps and flats to ASCII
func NormalizeAccidentals(s string) string {
	if !strings.ContainsAny(s, "♯♭") {
		return s
	}
	return strings.NewReplacer("♯", "#", "♭", "b").Replace(s)
}

// SortedUnique returns the distinct notes in ascending pitch-class order
func SortedUnique(notes []Note) []Note {
	seen := make(map[Note]bool, len(notes))
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		n = Note(mod12(int(n)))
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NoteSet is a membership set of pitch classes
type NoteSet map[Note]bool

// NewNoteSet builds a set from the given notes
func NewNoteSet(notes ...Note) NoteSet {
	set := make(NoteSet, len(notes))
	for _, n := range notes {
		set[Note(mod12(int(n)))] = true
	}
	return set
}

// Contains reports whether n is in the set
func (s NoteSet) Contains(n Note) bool {
	return s[n]
}

// Sorted returns the members in ascending pitch-class order
func (s NoteSet) Sorted() []Note {
	out := make([]Note, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// JoinNotes renders notes as a space-separated list of names
func JoinNotes(notes []Note) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, " ")
}

func mod12(v int) int {
	return ((v % octave) + octave) % octave
}
