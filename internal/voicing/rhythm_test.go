package voicing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestGetRhythmPattern(t *testing.T) {
	p, ok := GetRhythmPattern("")
	require.True(t, ok)
	assert.Equal(t, DefaultPattern, p.Name)

	p, ok = GetRhythmPattern(" Quarters ")
	require.True(t, ok)
	assert.Equal(t, "quarters", p.Name)

	_, ok = GetRhythmPattern("polka")
	assert.False(t, ok)

	assert.Contains(t, RhythmPatternNames(), "tresillo")
	for _, name := range RhythmPatternNames() {
		p, _ := GetRhythmPattern(name)
		assert.Len(t, p.Accents, len(p.Offsets), name)
	}
}

func TestPatternHits(t *testing.T) {
	tests := []struct {
		pattern string
		beats   float64
		starts  []float64
	}{
		{"whole", 4, []float64{0}},
		{"whole", 8, []float64{0, 4}},
		{"half", 2, []float64{0}},
		{"quarters", 4, []float64{0, 1, 2, 3}},
		{"waltz", 6, []float64{0, 1, 2, 3, 4, 5}},
		{"tresillo", 4, []float64{0, 1.5, 3}},
		{"offbeat", 2, []float64{0.5, 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, ok := GetRhythmPattern(tt.pattern)
			require.True(t, ok)

			hits := p.hits(tt.beats)
			starts := make([]float64, len(hits))
			for i, h := range hits {
				starts[i] = h.start
				assert.Greater(t, h.duration, 0.0)
				assert.LessOrEqual(t, h.start+h.duration, tt.beats)
			}
			assert.Equal(t, tt.starts, starts)
		})
	}
}

func TestPatternHitsArticulation(t *testing.T) {
	p, _ := GetRhythmPattern("staccato")
	hits := p.hits(4)
	require.Len(t, hits, 4)
	assert.InDelta(t, 0.4, hits[0].duration, 1e-9)

	p, _ = GetRhythmPattern("whole")
	hits = p.hits(4)
	require.Len(t, hits, 1)
	assert.InDelta(t, 4.0, hits[0].duration, 1e-9)
}

func TestWriteMIDIWithPattern(t *testing.T) {
	resp, err := Generate(Request{Instrument: InstrumentPiano, ChordInput: Symbolic("C"), Count: 1})
	require.NoError(t, err)
	require.Len(t, resp.Voicings, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteMIDI(&buf, resp.Voicings, MIDIOptions{Pattern: "quarters"}))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var velocities []uint8
	var absolute, lastOff uint32
	for _, ev := range s.Tracks[0] {
		absolute += ev.Delta
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			velocities = append(velocities, vel)
		}
		if ev.Message.GetNoteOff(&ch, &key, &vel) {
			lastOff = absolute
		}
	}

	notes := len(resp.Voicings[0].MIDI)
	assert.Len(t, velocities, 4*notes)
	assert.Equal(t, uint8(90), velocities[0])
	assert.Equal(t, uint8(72), velocities[notes])
	assert.LessOrEqual(t, lastOff, uint32(4*ticksPerQuarter))

	err = WriteMIDI(&buf, resp.Voicings, MIDIOptions{Pattern: "polka"})
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestAccentVelocity(t *testing.T) {
	assert.Equal(t, uint8(90), accentVelocity(90, 1.0))
	assert.Equal(t, uint8(63), accentVelocity(90, 0.7))
	assert.Equal(t, uint8(127), accentVelocity(120, 1.2))
	assert.Equal(t, uint8(1), accentVelocity(1, 0.1))
}
