package voicing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIOptions controls Standard MIDI File export
type MIDIOptions struct {
	Tempo         float64 // BPM, default 90
	BeatsPerChord int     // default 4
	Velocity      uint8   // default 90
	Channel       uint8
	Strum         bool   // offset guitar notes low to high by a 32nd note
	Pattern       string // rhythm pattern name, default "whole"
	Name          string
}

// ErrUnknownPattern is returned for a rhythm pattern name that does not exist
var ErrUnknownPattern = errors.New("unknown rhythm pattern")

const ticksPerQuarter = 480

func (o MIDIOptions) withDefaults() MIDIOptions {
	if o.Tempo <= 0 {
		o.Tempo = 90
	}
	if o.BeatsPerChord <= 0 {
		o.BeatsPerChord = 4
	}
	if o.Velocity == 0 {
		o.Velocity = 90
	}
	if o.Channel > 15 {
		o.Channel = 0
	}
	return o
}

// midiEvent is a message at an absolute tick
type midiEvent struct {
	tick  uint32
	order int
	msg   smf.Message
}

// Ordering at equal ticks: note-offs, then markers, then note-ons
const (
	orderNoteOff = iota
	orderMarker
	orderNoteOn
)

// WriteMIDI writes the voicings as consecutive chords in a single-track
// Standard MIDI File, each struck according to opts.Pattern.
func WriteMIDI(w io.Writer, voicings []Voicing, opts MIDIOptions) error {
	if len(voicings) == 0 {
		return fmt.Errorf("no voicings to export")
	}
	opts = opts.withDefaults()
	pattern, ok := GetRhythmPattern(opts.Pattern)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPattern, opts.Pattern)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	if opts.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	track.Add(0, smf.MetaTempo(opts.Tempo))
	track.Add(0, smf.MetaTimeSig(4, 2, 24, 8))

	strumTicks := uint32(0)
	if opts.Strum {
		strumTicks = ticksPerQuarter / 8
	}

	var events []midiEvent
	var chordStart uint32
	for _, v := range voicings {
		if len(v.MIDI) == 0 {
			continue
		}
		events = append(events, midiEvent{chordStart, orderMarker, smf.MetaText(v.Name + " " + v.Position)})

		for _, h := range pattern.hits(float64(opts.BeatsPerChord)) {
			on := chordStart + beatsToTicks(h.start)
			off := chordStart + beatsToTicks(h.start+h.duration)
			velocity := accentVelocity(opts.Velocity, h.accent)

			for i, key := range v.MIDI {
				keyOn := on
				if v.Instrument == InstrumentGuitar {
					keyOn += uint32(i) * strumTicks
				}
				keyOff := off
				if keyOff <= keyOn {
					keyOff = keyOn + 1
				}
				events = append(events,
					midiEvent{keyOn, orderNoteOn, smf.Message(midi.NoteOn(opts.Channel, uint8(key), velocity))},
					midiEvent{keyOff, orderNoteOff, smf.Message(midi.NoteOff(opts.Channel, uint8(key)))},
				)
			}
		}
		chordStart += uint32(opts.BeatsPerChord * ticksPerQuarter)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	var last uint32
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	end := uint32(0)
	if chordStart > last {
		end = chordStart - last
	}
	track.Close(end)

	if err := s.Add(track); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

func beatsToTicks(beats float64) uint32 {
	return uint32(math.Round(beats * ticksPerQuarter))
}

func accentVelocity(base uint8, accent float64) uint8 {
	v := int(math.Round(float64(base) * accent))
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// MIDIBytes is WriteMIDI into a byte slice
func MIDIBytes(voicings []Voicing, opts MIDIOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMIDI(&buf, voicings, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
