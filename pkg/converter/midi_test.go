package converter

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []Note{
		{Onset: 0, Duration: 0.5, Pitch: 60, Velocity: 100},
		{Onset: 0.5, Duration: 0.5, Pitch: 62, Velocity: 90},
		{Onset: 1.0, Duration: 0.25, Pitch: 48, Velocity: 70},
		{Onset: 1.0, Duration: 1.0, Pitch: 64, Velocity: 80},
	}

	data, err := EncodeMIDI(original, 120, 480, DefaultProgram)
	if err != nil {
		t.Fatalf("EncodeMIDI() error = %v", err)
	}

	decoded, err := DecodeMIDI(data)
	if err != nil {
		t.Fatalf("DecodeMIDI() error = %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("decoded %d notes, want %d", len(decoded), len(original))
	}

	// One tick at 120 BPM and 480 tpb
	tickSeconds := 60.0 / (120 * 480)
	for i, want := range original {
		got := decoded[i]
		if got.Pitch != want.Pitch || got.Velocity != want.Velocity {
			t.Errorf("note %d = pitch %d vel %d, want pitch %d vel %d",
				i, got.Pitch, got.Velocity, want.Pitch, want.Velocity)
		}
		if math.Abs(got.Onset-want.Onset) > tickSeconds {
			t.Errorf("note %d onset = %v, want %v within one tick", i, got.Onset, want.Onset)
		}
		if math.Abs(got.Duration-want.Duration) > tickSeconds {
			t.Errorf("note %d duration = %v, want %v within one tick", i, got.Duration, want.Duration)
		}
	}
}

func TestEncodeMIDIHeader(t *testing.T) {
	notes := []Note{{Onset: 0, Duration: 0.5, Pitch: 60, Velocity: 100}}

	data, err := EncodeMIDI(notes, 120, 480, DefaultProgram)
	if err != nil {
		t.Fatalf("EncodeMIDI() error = %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "MThd" {
		t.Errorf("output does not start with MThd")
	}
}

func TestEncodeMIDIInvalidConfig(t *testing.T) {
	notes := []Note{{Onset: 0, Duration: 0.5, Pitch: 60, Velocity: 100}}

	if _, err := EncodeMIDI(notes, 0, 480, DefaultProgram); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestDecodeMIDIGarbage(t *testing.T) {
	_, err := DecodeMIDI([]byte("definitely not a midi file"))
	if !errors.Is(err, ErrContainerRead) {
		t.Errorf("error = %v, want ErrContainerRead", err)
	}
}

func TestDecodeMIDIRespectsEncodedTempo(t *testing.T) {
	// Encode at 60 BPM; the decoder must pick up the tempo meta event and
	// report real seconds, not tick-proportional ones.
	notes := []Note{{Onset: 0, Duration: 1.0, Pitch: 60, Velocity: 100}}

	data, err := EncodeMIDI(notes, 60, 480, DefaultProgram)
	if err != nil {
		t.Fatalf("EncodeMIDI() error = %v", err)
	}
	decoded, err := DecodeMIDI(data)
	if err != nil {
		t.Fatalf("DecodeMIDI() error = %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d notes, want 1", len(decoded))
	}
	tickSeconds := 60.0 / (60 * 480)
	if math.Abs(decoded[0].Duration-1.0) > tickSeconds {
		t.Errorf("duration = %v, want 1.0 within one tick", decoded[0].Duration)
	}
}

func TestTextToMIDIToCSVRoundTrip(t *testing.T) {
	conv := New()

	mid, dialect, err := conv.TextToMIDI([]byte("C4 0.5 100\nD4 0.5 90\n"))
	if err != nil {
		t.Fatalf("TextToMIDI() error = %v", err)
	}
	if dialect != DialectSequential {
		t.Errorf("dialect = %v, want sequential", dialect)
	}

	csvOut, err := conv.MIDIToCSV(mid)
	if err != nil {
		t.Fatalf("MIDIToCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d CSV rows, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "C4") || !strings.Contains(lines[1], "D4") {
		t.Errorf("CSV rows = %q, want C4 then D4", lines)
	}
}
