package converter

import (
	"errors"
	"testing"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Dialect
	}{
		{"csv line", "0.0,0.5,60,100", DialectCSV},
		{"sequential line", "C4 0.5 100", DialectSequential},
		{"rhythmic line", "C4 q 100", DialectRhythmic},
		{"comment then csv", "# header\n\n0.0,0.5,60", DialectCSV},
		{"numeric pitch sequential", "60 0.5", DialectSequential},
		{"empty file defaults", "", DialectSequential},
		{"only comments defaults", "# a\n# b\n", DialectSequential},
		{"single token line skipped", "C4\nC4 q", DialectRhythmic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDialect(tt.text); got != tt.expected {
				t.Errorf("DetectDialect(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestParseCSVDialect(t *testing.T) {
	text := "# onset,duration,pitch,velocity\n0.0,0.5,60,100\n0.5,0.5,C4,90\n"
	notes, dialect, err := ParseText([]byte(text), DefaultBPM)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if dialect != DialectCSV {
		t.Errorf("dialect = %v, want csv", dialect)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[1].Pitch != 60 || notes[1].Velocity != 90 {
		t.Errorf("note 1 = %+v, want pitch 60 vel 90", notes[1])
	}
}

func TestParseCSVDefaults(t *testing.T) {
	notes, _, err := ParseText([]byte("0.0,,60\n"), DefaultBPM)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if !almostEqual(notes[0].Duration, 0.5) {
		t.Errorf("default duration = %v, want 0.5", notes[0].Duration)
	}
	if notes[0].Velocity != 100 {
		t.Errorf("default velocity = %d, want 100", notes[0].Velocity)
	}
}

func TestParseCSVTooFewFields(t *testing.T) {
	_, _, err := ParseText([]byte("0.0,0.5\n"), DefaultBPM)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 1 || pe.Dialect != DialectCSV {
		t.Errorf("ParseError = %+v, want csv line 1", pe)
	}
}

func TestParseSequentialDialect(t *testing.T) {
	text := "C4 0.5 100\nD4 0.25\nE4 0.5 90\n"
	notes, dialect, err := ParseText([]byte(text), DefaultBPM)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if dialect != DialectSequential {
		t.Errorf("dialect = %v, want sequential", dialect)
	}
	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}

	wantOnsets := []float64{0, 0.5, 0.75}
	for i, want := range wantOnsets {
		if !almostEqual(notes[i].Onset, want) {
			t.Errorf("note %d onset = %v, want %v", i, notes[i].Onset, want)
		}
	}
	if notes[1].Velocity != 100 {
		t.Errorf("note 1 velocity = %d, want default 100", notes[1].Velocity)
	}
}

func TestParseSequentialMissingDuration(t *testing.T) {
	text := "C4 0.5\nD4\n"
	_, _, err := ParseText([]byte(text), DefaultBPM)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("error line = %d, want 2", pe.Line)
	}
}

func TestParseRhythmicDialect(t *testing.T) {
	// Two quarter notes at 120 BPM: onsets 0 and 0.5, each half a second
	notes, dialect, err := ParseText([]byte("C4 q 100\nD4 q\n"), 120)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if dialect != DialectRhythmic {
		t.Errorf("dialect = %v, want rhythmic", dialect)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if !almostEqual(notes[0].Onset, 0) || !almostEqual(notes[0].Duration, 0.5) {
		t.Errorf("note 0 = (%v, %v), want (0, 0.5)", notes[0].Onset, notes[0].Duration)
	}
	if !almostEqual(notes[1].Onset, 0.5) || !almostEqual(notes[1].Duration, 0.5) {
		t.Errorf("note 1 = (%v, %v), want (0.5, 0.5)", notes[1].Onset, notes[1].Duration)
	}
}

func TestParseRhythmicTokens(t *testing.T) {
	// At 60 BPM one beat is one second, so durations equal the beat values
	text := "C4 w\nC4 h\nC4 Q\nC4 e\nC4 s\nC4 t\n"
	notes, _, err := ParseText([]byte(text), 60)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	want := []float64{4, 2, 1, 0.5, 0.25, 0.125}
	if len(notes) != len(want) {
		t.Fatalf("got %d notes, want %d", len(notes), len(want))
	}
	for i, w := range want {
		if !almostEqual(notes[i].Duration, w) {
			t.Errorf("note %d duration = %v, want %v", i, notes[i].Duration, w)
		}
	}
}

func TestParseRhythmicUnknownToken(t *testing.T) {
	_, _, err := ParseText([]byte("C4 q\nD4 x\n"), 120)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 || pe.Dialect != DialectRhythmic {
		t.Errorf("ParseError = %+v, want rhythmic line 2", pe)
	}
}

func TestParseBadPitchIsLineError(t *testing.T) {
	_, _, err := ParseText([]byte("C4 0.5\nH7 0.5\n"), DefaultBPM)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("error line = %d, want 2", pe.Line)
	}
	if !errors.Is(err, ErrInvalidPitchName) {
		t.Errorf("error = %v, want to wrap ErrInvalidPitchName", err)
	}
}

func TestParsePitchOutOfRangeIsLineError(t *testing.T) {
	_, _, err := ParseText([]byte("0.0,0.5,200\n"), DefaultBPM)
	if !errors.Is(err, ErrPitchOutOfRange) {
		t.Errorf("error = %v, want to wrap ErrPitchOutOfRange", err)
	}
}

func TestParseVelocityOutOfRange(t *testing.T) {
	_, _, err := ParseText([]byte("C4 0.5 300\n"), DefaultBPM)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestParseCommentsAndBlanksOnly(t *testing.T) {
	notes, dialect, err := ParseText([]byte("# nothing here\n\n   \n"), DefaultBPM)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if dialect != DialectSequential {
		t.Errorf("dialect = %v, want sequential default", dialect)
	}
	if len(notes) != 0 {
		t.Errorf("got %d notes, want 0", len(notes))
	}
}

func TestParseSortsByOnset(t *testing.T) {
	text := "1.0,0.5,60\n0.0,0.5,62\n"
	notes, _, err := ParseText([]byte(text), DefaultBPM)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	if notes[0].Pitch != 62 || notes[1].Pitch != 60 {
		t.Errorf("order = [%d %d], want [62 60]", notes[0].Pitch, notes[1].Pitch)
	}
}
