package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

func TestAnalyzeProgression(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedRoot   theory.Note
		expectedMode   string
		confidence     float64
		score          float64
		borrowedChords []string
	}{
		{
			name:           "diatonic pop progression",
			text:           "C G Am F",
			expectedRoot:   theory.C,
			expectedMode:   theory.ModeMajor,
			confidence:     1.0,
			score:          1.0,
			borrowedChords: []string{},
		},
		{
			name:           "flat seven earns the mixolydian bonus",
			text:           "D C G D",
			expectedRoot:   theory.D,
			expectedMode:   theory.ModeMixolydian,
			confidence:     1.0,
			score:          1.3,
			borrowedChords: []string{},
		},
		{
			name:           "sharp four earns the lydian bonus",
			text:           "C D C D",
			expectedRoot:   theory.C,
			expectedMode:   theory.ModeLydian,
			confidence:     1.0,
			score:          1.3,
			borrowedChords: []string{},
		},
		{
			name:           "first chord is the tonic",
			text:           "Am F C G",
			expectedRoot:   theory.A,
			expectedMode:   theory.ModeMinor,
			confidence:     1.0,
			score:          1.0,
			borrowedChords: []string{},
		},
		{
			name:           "minor four is borrowed and major wins the tie",
			text:           "C F Fm C",
			expectedRoot:   theory.C,
			expectedMode:   theory.ModeMajor,
			confidence:     0.633,
			score:          0.633,
			borrowedChords: []string{"Fm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeProgression(tt.text)
			require.NotNil(t, result)

			assert.Equal(t, tt.expectedRoot, result.BestRoot)
			assert.Equal(t, tt.expectedMode, result.BestMode)
			assert.InDelta(t, tt.confidence, result.Confidence, 0.001)
			assert.InDelta(t, tt.score, result.Score, 0.001)
			assert.Equal(t, tt.borrowedChords, result.BorrowedChords)
			assert.Len(t, result.Candidates, 7)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestAnalyzeProgressionNoChords(t *testing.T) {
	for _, text := range []string{"", "   ", "hello there", "what key is this song in?"} {
		assert.Nil(t, AnalyzeProgression(text), "text %q", text)
	}
}

func TestAnalyzeProgressionDetails(t *testing.T) {
	result := AnalyzeProgression("C G Am F")
	require.NotNil(t, result)

	assert.Equal(t, "Major (Ionian)", result.ModeName)
	assert.Equal(t, []string{"C", "G", "Am", "F"}, result.Chords)
	assert.Equal(t, "C D E F G A B", theory.JoinNotes(result.NotesUsed))
	assert.Contains(t, result.Reason, "C Major (Ionian)")
	assert.Contains(t, result.Reason, "all 7 notes")

	modes := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		modes = append(modes, c.Mode)
	}
	assert.Equal(t, []string{"major", "minor", "dorian", "phrygian", "lydian", "mixolydian", "locrian"}, modes)
}

func TestAnalyzeProgressionReasonMentionsColourTone(t *testing.T) {
	result := AnalyzeProgression("D C G D")
	require.NotNil(t, result)

	assert.Contains(t, result.Reason, "D Mixolydian")
	assert.Contains(t, result.Reason, "flat 7th")
	assert.NotContains(t, result.Reason, "Borrowed")
}

func TestAnalyzeProgressionReasonListsOutsideNotes(t *testing.T) {
	result := AnalyzeProgression("C F Fm C")
	require.NotNil(t, result)

	assert.Contains(t, result.Reason, "outside the mode: G#")
	assert.Contains(t, result.Reason, "Borrowed chords: Fm.")
}

func TestExtractChords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"spaces", "C G Am F", []string{"C", "G", "Am", "F"}},
		{"bars", "| C | G | Am | F |", []string{"C", "G", "Am", "F"}},
		{"commas and parens", "(Cmaj7, Dm7, G7)", []string{"Cmaj7", "Dm7", "G7"}},
		{"arrows", "Dm7 -> G7 → Cmaj7", []string{"Dm7", "G7", "Cmaj7"}},
		{"spaced dashes", "C - G - Am", []string{"C", "G", "Am"}},
		{"prose", "I'm playing Em C G D, any ideas?", []string{"Em", "C", "G", "D"}},
		{"slash chords", "C G/B Am", []string{"C", "G/B", "Am"}},
		{"unicode accidentals", "B♭ E♭", []string{"Bb", "Eb"}},
		{"dash joined", "C-G-Am-F", []string{"C", "G", "Am", "F"}},
		{"dash joined minor first", "Am-F-C-G", []string{"Am", "F", "C", "G"}},
		{"slash joined", "Am/F/C/G", []string{"Am", "F", "C", "G"}},
		{"slash chord inside dashes", "G/B-C-D", []string{"G/B", "C", "D"}},
		{"dash minor stays one chord", "C-7 F7", []string{"C-7", "F7"}},
		{"joined in prose", "try Em-C-G-D tonight", []string{"Em", "C", "G", "D"}},
		{"dashed words are not chords", "Bad-Ass", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chords := ExtractChords(tt.text)
			symbols := make([]string, 0, len(chords))
			for _, c := range chords {
				symbols = append(symbols, c.Symbol)
			}
			assert.Equal(t, tt.expected, symbols)
		})
	}
}

func TestAnalyzeProgressionJoinedSpelling(t *testing.T) {
	joined := AnalyzeProgression("C-G-Am-F")
	spaced := AnalyzeProgression("C G Am F")
	require.NotNil(t, joined)
	assert.Equal(t, spaced.BestMode, joined.BestMode)
	assert.Equal(t, spaced.Chords, joined.Chords)
}

func TestAnalyzeProgressionDeterministic(t *testing.T) {
	first := AnalyzeProgression("Em C G D")
	second := AnalyzeProgression("Em C G D")
	assert.Equal(t, first, second)
}
