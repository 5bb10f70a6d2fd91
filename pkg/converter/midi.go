package converter

import (
	"bytes"
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DecodeMIDI parses MIDI file data and extracts its notes.
func DecodeMIDI(data []byte) (notes []Note, err error) {
	tracks, ticksPerBeat, err := decodeTrackEvents(data)
	if err != nil {
		return nil, err
	}
	return ExtractNotes(tracks, ticksPerBeat), nil
}

// decodeTrackEvents lowers an SMF file to per-track tempo and note events.
func decodeTrackEvents(data []byte) (tracks [][]TrackEvent, ticksPerBeat uint16, err error) {
	// The smf reader can panic on truncated files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrContainerRead, r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrContainerRead, err)
	}

	ticksPerBeat = DefaultTicksPerBeat
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerBeat = mt.Resolution()
	}

	for _, track := range s.Tracks {
		var events []TrackEvent
		for _, ev := range track {
			msg := ev.Message

			// Tempo meta message: FF 51 03 followed by 24-bit µs per beat
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				tempoMicros := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				events = append(events, TrackEvent{Delta: ev.Delta, Kind: EventTempo, TempoMicros: tempoMicros})
				continue
			}

			if len(msg) >= 3 {
				status := msg[0]
				switch {
				// Note On: 0x90-0x9F (velocity 0 acts as a release)
				case status >= 0x90 && status <= 0x9F:
					events = append(events, TrackEvent{Delta: ev.Delta, Kind: EventNoteOn, Pitch: msg[1], Velocity: msg[2]})
					continue
				// Note Off: 0x80-0x8F
				case status >= 0x80 && status <= 0x8F:
					events = append(events, TrackEvent{Delta: ev.Delta, Kind: EventNoteOff, Pitch: msg[1], Velocity: msg[2]})
					continue
				}
			}

			// Other events still advance the clock
			if ev.Delta > 0 {
				events = append(events, TrackEvent{Delta: ev.Delta, Kind: EventTempo, TempoMicros: 0})
			}
		}
		tracks = append(tracks, events)
	}
	return tracks, ticksPerBeat, nil
}

// EncodeMIDI serializes a note list into a single-track MIDI file with an
// initial tempo and program change.
func EncodeMIDI(notes []Note, bpm float64, ticksPerBeat uint16, program uint8) ([]byte, error) {
	events, err := SerializeNotes(notes, bpm, ticksPerBeat)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var track smf.Track

	tempoMicros := uint32(math.Round(60e6 / bpm))
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(tempoMicros >> 16),
		byte(tempoMicros >> 8),
		byte(tempoMicros),
	}))
	track.Add(0, midi.ProgramChange(0, program))

	for _, ev := range events {
		if ev.NoteOn {
			track.Add(ev.Delta, midi.NoteOn(0, ev.Pitch, ev.Velocity))
		} else {
			track.Add(ev.Delta, midi.NoteOff(0, ev.Pitch))
		}
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}
