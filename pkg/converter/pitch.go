package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Chromatic scale starting at C; index is pitch mod 12
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var semitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var noteRe = regexp.MustCompile(`^([A-Ga-g])([#b♯♭]?)(-?\d+)$`)

// NoteName converts a MIDI pitch number to its name with octave,
// so pitch 60 is "C4"
func NoteName(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[pitch%12], octave)
}

// ParsePitch resolves a pitch token to a MIDI pitch number. A token that
// looks like an integer is taken as a literal pitch number; otherwise it must
// match the note-name grammar: letter, optional accidental, signed octave.
func ParsePitch(token string) (uint8, error) {
	tok := strings.TrimSpace(token)
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("%w: %d", ErrPitchOutOfRange, n)
		}
		return uint8(n), nil
	}
	return parseNoteName(tok)
}

func parseNoteName(name string) (uint8, error) {
	m := noteRe.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitchName, name)
	}
	semitone := semitones[strings.ToUpper(m[1])]
	switch m[2] {
	case "#", "♯":
		semitone++
	case "b", "♭":
		semitone--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitchName, name)
	}
	pitch := (octave+1)*12 + semitone
	if pitch < 0 || pitch > 127 {
		return 0, fmt.Errorf("%w: %q resolves to %d", ErrPitchOutOfRange, name, pitch)
	}
	return uint8(pitch), nil
}
