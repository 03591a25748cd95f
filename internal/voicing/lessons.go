package voicing

import (
	"fmt"
	"strings"
)

// MaxTipLength caps a lesson tip in characters
const MaxTipLength = 120

var stringLabels = [StringCount]string{"low E", "A", "D", "G", "B", "high e"}

// LessonTips returns one short tip per voicing, keyed by voicing ID
func LessonTips(voicings []Voicing) map[string]string {
	tips := make(map[string]string, len(voicings))
	for _, v := range voicings {
		tips[v.ID] = truncateTip(lessonTip(v))
	}
	return tips
}

func lessonTip(v Voicing) string {
	if v.Instrument == InstrumentPiano {
		return pianoTip(v)
	}
	if v.Frets == nil {
		return genericTip
	}

	shape := ChordShape{Frets: *v.Frets, Barres: v.Barres}
	open := shape.OpenStrings()
	muted := shape.MutedStrings()

	switch {
	case len(open) > 0 && len(v.Barres) == 0:
		return fmt.Sprintf("Let the open %s ring; arch your fingers so they don't touch %s.",
			pluralStrings(open), pronoun(len(open)))
	case len(v.Barres) > 0:
		b := v.Barres[0]
		return fmt.Sprintf("Barre fret %d from the %s to the %s string with your index finger, rolled onto its bony edge.",
			b.Fret, stringLabels[b.FromString], stringLabels[b.ToString])
	case shape.Span() >= 4:
		return fmt.Sprintf("This shape stretches %d frets; keep your thumb low behind the neck.", shape.Span())
	case len(muted) > 0:
		return fmt.Sprintf("Mute the %s with your fretting hand or skip %s when strumming.",
			pluralStrings(muted), pronoun(len(muted)))
	}
	return genericTip
}

const genericTip = "Press just behind each fret and strum slowly, checking that every string rings clearly."

func pianoTip(v Voicing) string {
	if len(v.Notes) == 0 {
		return genericTip
	}
	top := v.Notes[len(v.Notes)-1]
	if v.Inversion == inversionNames[0] {
		return fmt.Sprintf("Root position: play %s with fingers 1-3-5 and listen for %s on top.",
			strings.Join(v.Notes, "-"), top)
	}
	return fmt.Sprintf("%s: %s is now in the bass; keep %s on top for smooth voice leading.",
		v.Inversion, v.Notes[0], top)
}

func pluralStrings(indices []int) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = stringLabels[idx]
	}
	if len(names) == 1 {
		return names[0] + " string"
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1] + " strings"
}

func pronoun(n int) string {
	if n == 1 {
		return "it"
	}
	return "them"
}

func truncateTip(tip string) string {
	runes := []rune(tip)
	if len(runes) <= MaxTipLength {
		return tip
	}
	return string(runes[:MaxTipLength-3]) + "..."
}
