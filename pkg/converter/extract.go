package converter

import "sort"

// pendingNote holds a note that is on but not yet released
type pendingNote struct {
	onset    float64
	velocity uint8
}

// ExtractNotes walks externally-decoded track events in encounter order and
// pairs note starts with stops into Notes.
//
// Tempo is piecewise constant: a tempo event applies to every tick conversion
// that follows it and never rescales conversions already made. The tempo value
// is local to one call, so extraction can run on different inputs at once.
//
// Each pitch keeps a FIFO of pending onsets, so a retriggered pitch matches
// its first stop to its first start instead of dropping the earlier note.
// A stop with no pending start is ignored; pendings still open at the end of
// a track are dropped. Note-on with velocity 0 counts as a stop.
//
// The result is sorted by onset, stable on ties.
func ExtractNotes(tracks [][]TrackEvent, ticksPerBeat uint16) []Note {
	var notes []Note
	tempoMicros := uint32(DefaultTempoMicros)

	for _, track := range tracks {
		var absTicks int64
		pending := make(map[uint8][]pendingNote)

		for _, ev := range track {
			absTicks += int64(ev.Delta)

			switch ev.Kind {
			case EventTempo:
				if ev.TempoMicros > 0 {
					tempoMicros = ev.TempoMicros
				}

			case EventNoteOn:
				if ev.Velocity == 0 {
					notes = closePending(notes, pending, ev.Pitch, absTicks, ticksPerBeat, tempoMicros)
					continue
				}
				onset := TicksToSeconds(absTicks, ticksPerBeat, tempoMicros)
				pending[ev.Pitch] = append(pending[ev.Pitch], pendingNote{onset: onset, velocity: ev.Velocity})

			case EventNoteOff:
				notes = closePending(notes, pending, ev.Pitch, absTicks, ticksPerBeat, tempoMicros)
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Onset < notes[j].Onset
	})
	return notes
}

func closePending(notes []Note, pending map[uint8][]pendingNote, pitch uint8, absTicks int64, ticksPerBeat uint16, tempoMicros uint32) []Note {
	queue := pending[pitch]
	if len(queue) == 0 {
		return notes
	}
	p := queue[0]
	if len(queue) == 1 {
		delete(pending, pitch)
	} else {
		pending[pitch] = queue[1:]
	}

	offset := TicksToSeconds(absTicks, ticksPerBeat, tempoMicros)
	return append(notes, Note{
		Onset:    p.onset,
		Duration: offset - p.onset,
		Pitch:    pitch,
		Velocity: p.velocity,
	})
}
