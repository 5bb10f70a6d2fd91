package converter

import (
	"fmt"
	"sort"
)

// SerializeNotes converts a note list into a tick-accurate event stream with
// delta times filled in, ready for a MIDI track writer.
//
// Events are sorted by tick with OFF before ON on ties, so a note ending
// exactly where another of the same pitch begins never appears to overlap.
// Deltas are clamped at zero; under this sort key the clamp never fires, but
// it fixes the contract for anyone who changes the key.
func SerializeNotes(notes []Note, bpm float64, ticksPerBeat uint16) ([]RawEvent, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: bpm %v", ErrInvalidConfig, bpm)
	}
	if ticksPerBeat == 0 {
		return nil, fmt.Errorf("%w: ticks per beat %d", ErrInvalidConfig, ticksPerBeat)
	}

	events := make([]RawEvent, 0, len(notes)*2)
	for _, n := range notes {
		start := SecondsToTicks(n.Onset, ticksPerBeat, bpm)
		end := SecondsToTicks(n.Onset+n.Duration, ticksPerBeat, bpm)
		events = append(events,
			RawEvent{Tick: start, NoteOn: true, Pitch: n.Pitch, Velocity: n.Velocity},
			RawEvent{Tick: end, NoteOn: false, Pitch: n.Pitch, Velocity: 0},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return !events[i].NoteOn && events[j].NoteOn
	})

	var lastTick int64
	for i := range events {
		delta := events[i].Tick - lastTick
		if delta < 0 {
			delta = 0
		}
		events[i].Delta = uint32(delta)
		lastTick = events[i].Tick
	}
	return events, nil
}
