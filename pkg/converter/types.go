// Package converter provides conversion between plain-text note lists and MIDI
package converter

// Note is a single musical note with real-time placement
type Note struct {
	Onset    float64 // Seconds from the start of the piece
	Duration float64 // Seconds
	Pitch    uint8   // MIDI pitch number (0-127)
	Velocity uint8   // Velocity (0-127)
}

// Dialect identifies one of the recognized text grammars
type Dialect string

const (
	DialectCSV        Dialect = "csv"
	DialectSequential Dialect = "sequential"
	DialectRhythmic   Dialect = "rhythmic"
)

// EventKind classifies a decoded track event
type EventKind uint8

const (
	EventTempo EventKind = iota
	EventNoteOn
	EventNoteOff
)

// TrackEvent is one externally-decoded event within a single track
type TrackEvent struct {
	Delta       uint32 // Ticks since the previous event
	Kind        EventKind
	Pitch       uint8  // Note events only
	Velocity    uint8  // Note events only
	TempoMicros uint32 // Tempo events only: microseconds per beat
}

// RawEvent is one serialized note boundary ready for delta-time encoding
type RawEvent struct {
	Tick     int64
	NoteOn   bool
	Pitch    uint8
	Velocity uint8
	Delta    uint32 // Ticks since the previous event in the sorted stream
}

// Defaults used when the caller does not override them
const (
	DefaultBPM          = 120.0
	DefaultTicksPerBeat = 480
	DefaultProgram      = 101
	DefaultTempoMicros  = 500000 // 120 BPM
)

// Converter converts note lists between text and MIDI representations
type Converter struct {
	BPM          float64
	TicksPerBeat uint16
	Program      uint8
}

// New creates a Converter with default timing settings
func New() *Converter {
	return &Converter{
		BPM:          DefaultBPM,
		TicksPerBeat: DefaultTicksPerBeat,
		Program:      DefaultProgram,
	}
}
