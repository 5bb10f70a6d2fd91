package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPitchName indicates text that does not match the note-name grammar
	ErrInvalidPitchName = errors.New("invalid pitch name")

	// ErrPitchOutOfRange indicates a resolved pitch outside 0..127
	ErrPitchOutOfRange = errors.New("pitch out of range 0..127")

	// ErrEmptyInput indicates an input that parsed cleanly but contained no notes
	ErrEmptyInput = errors.New("no notes in input")

	// ErrInvalidConfig indicates a non-positive BPM or ticks-per-beat
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrContainerRead indicates the MIDI container could not be decoded
	ErrContainerRead = errors.New("failed to read MIDI container")
)

// ParseError reports a malformed line in a text input. Any line error aborts
// the whole parse; there is no partial output.
type ParseError struct {
	Dialect Dialect
	Line    int
	Text    string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d: %v in %q", e.Dialect, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func lineErr(d Dialect, line int, text string, format string, args ...any) *ParseError {
	return &ParseError{Dialect: d, Line: line, Text: text, Err: fmt.Errorf(format, args...)}
}
