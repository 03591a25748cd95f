package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/Conceptual-Machines/magda-harmony/internal/voicing"
)

type recordedCall struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	calls []recordedCall
}

func (r *fakeRecorder) RecordEngineCall(_ context.Context, operation, outcome string, _ time.Duration) {
	r.calls = append(r.calls, recordedCall{operation, outcome})
}

func newTestService(maxText int) (*HarmonyService, *fakeRecorder) {
	rec := &fakeRecorder{}
	cfg := &config.Config{MaxRequestText: maxText, DefaultVoicingCount: 4}
	return NewHarmonyService(cfg, rec), rec
}

const chordTab = "e|---0---|\nB|---1---|\nG|---0---|\nD|---2---|\nA|---3---|\nE|-------|"

func TestEnrich(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		analysis   bool
		tab        bool
		identified string
		outcome    string
	}{
		{"progression only", "try C G Am F for the verse", true, false, "", metrics.OutcomeOK},
		{"tab only", "how about this?\n" + chordTab, false, true, "C Major", metrics.OutcomeOK},
		{"nothing", "what gear do you use?", false, false, "", metrics.OutcomeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newTestService(8000)

			resp, err := svc.Enrich(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.analysis, resp.Analysis != nil)
			assert.Equal(t, tt.tab, resp.Tab != nil)
			if tt.identified == "" {
				assert.Nil(t, resp.IdentifiedChord)
			} else {
				require.NotNil(t, resp.IdentifiedChord)
				assert.Equal(t, tt.identified, *resp.IdentifiedChord)
			}
			assert.Equal(t, []recordedCall{{OpEnrich, tt.outcome}}, rec.calls)
		})
	}
}

func TestTextLimit(t *testing.T) {
	svc, rec := newTestService(10)
	long := strings.Repeat("C ", 20)

	_, err := svc.Enrich(context.Background(), long)
	assert.ErrorIs(t, err, ErrTextTooLong)
	_, err = svc.AnalyzeProgression(context.Background(), long)
	assert.ErrorIs(t, err, ErrTextTooLong)
	_, err = svc.ParseTab(context.Background(), long, nil)
	assert.ErrorIs(t, err, ErrTextTooLong)
	_, err = svc.ParseConstraints(context.Background(), long)
	assert.ErrorIs(t, err, ErrTextTooLong)
	_, err = svc.GenerateVoicings(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("C"), ConstraintText: long})
	assert.ErrorIs(t, err, ErrTextTooLong)

	for _, call := range rec.calls {
		assert.Equal(t, metrics.OutcomeError, call.outcome)
	}
}

func TestAnalyzeProgression(t *testing.T) {
	svc, rec := newTestService(0)

	result, err := svc.AnalyzeProgression(context.Background(), "D C G D")
	require.NoError(t, err)
	assert.Equal(t, theory.D, result.BestRoot)
	assert.Equal(t, theory.ModeMixolydian, result.BestMode)

	_, err = svc.AnalyzeProgression(context.Background(), "no chords here, sorry")
	assert.ErrorIs(t, err, ErrNoChords)

	assert.Equal(t, []recordedCall{{OpAnalyze, metrics.OutcomeOK}, {OpAnalyze, metrics.OutcomeNotFound}}, rec.calls)
}

func TestParseTabWithOrder(t *testing.T) {
	svc, _ := newTestService(0)

	resp, err := svc.ParseTab(context.Background(), "E|--3--|\nE|--0--|", []int{0, 5})
	require.NoError(t, err)
	require.NotNil(t, resp.Tab)
	assert.Equal(t, 0, resp.Tab.Lines[0].String)
	assert.Equal(t, 5, resp.Tab.Lines[1].String)

	resp, err = svc.ParseTab(context.Background(), "just words", nil)
	require.NoError(t, err)
	assert.False(t, resp.Detected)
	assert.Nil(t, resp.Tab)
}

func TestScaleAndModeChords(t *testing.T) {
	svc, _ := newTestService(0)

	scale, err := svc.Scale(context.Background(), "D", "dorian")
	require.NoError(t, err)
	assert.Equal(t, "D E F G A B C", theory.JoinNotes(scale.Notes))
	assert.Equal(t, theory.B, scale.CharacteristicNote)
	assert.False(t, scale.Fallback)

	scale, err = svc.Scale(context.Background(), "Bb", "bebop")
	require.NoError(t, err)
	assert.True(t, scale.Fallback)
	assert.Equal(t, theory.ModeMajor, scale.Mode.Key)
	assert.Equal(t, "bebop", scale.Requested)

	_, err = svc.Scale(context.Background(), "H", "major")
	assert.ErrorIs(t, err, ErrInvalidRoot)

	chords, err := svc.ModeChords(context.Background(), "C", "major")
	require.NoError(t, err)
	require.Len(t, chords.Chords, 7)
	assert.Equal(t, "I", chords.Chords[0].Numeral)
	assert.Equal(t, "vii°", chords.Chords[6].Numeral)

	_, err = svc.ModeChords(context.Background(), "", "major")
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestParseChord(t *testing.T) {
	svc, _ := newTestService(0)

	resp, err := svc.ParseChord(context.Background(), "F#m7b5/A")
	require.NoError(t, err)
	assert.Equal(t, theory.FSharp, resp.Root)
	assert.Equal(t, theory.QualityMinor, resp.Quality)
	require.NotNil(t, resp.Bass)
	assert.Equal(t, theory.A, *resp.Bass)
	assert.Equal(t, []int{0, 3, 6, 10}, resp.Intervals)

	_, err = svc.ParseChord(context.Background(), "not a chord")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestGenerateVoicingsAppliesDefaultCount(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewHarmonyService(&config.Config{DefaultVoicingCount: 1}, rec)

	resp, err := svc.GenerateVoicings(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("C")})
	require.NoError(t, err)
	assert.Len(t, resp.Voicings, 1)

	resp, err = svc.GenerateVoicings(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("C"), Count: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Voicings, 2)

	_, err = svc.GenerateVoicings(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("Bm"), ConstraintText: "up to fret 3"})
	genErr, ok := voicing.AsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, voicing.CodeNoVoicingsFound, genErr.Code)

	_, err = svc.GenerateVoicings(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("nope")})
	genErr, ok = voicing.AsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, voicing.CodeInvalidChord, genErr.Code)

	assert.Equal(t, []recordedCall{
		{OpGenerateVoicings, metrics.OutcomeOK},
		{OpGenerateVoicings, metrics.OutcomeOK},
		{OpGenerateVoicings, metrics.OutcomeNotFound},
		{OpGenerateVoicings, metrics.OutcomeError},
	}, rec.calls)
}

func TestExportMIDI(t *testing.T) {
	svc, _ := newTestService(0)

	data, resp, err := svc.ExportMIDI(context.Background(),
		voicing.Request{Instrument: voicing.InstrumentPiano, ChordInput: voicing.Symbolic("Am")},
		voicing.MIDIOptions{Tempo: 120})
	require.NoError(t, err)
	assert.Equal(t, "A Minor", resp.Metadata.Chord)
	assert.Equal(t, "MThd", string(data[:4]))

	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 1)

	_, _, err = svc.ExportMIDI(context.Background(), voicing.Request{ChordInput: voicing.Symbolic("F#aug")}, voicing.MIDIOptions{})
	assert.Error(t, err)
}
