package converter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Beats per duration token in the rhythmic dialect
var durationTokens = map[string]float64{
	"w": 4.0, "h": 2.0, "q": 1.0, "e": 0.5, "s": 0.25, "t": 0.125,
}

// DetectDialect classifies text input by scanning lines in order, skipping
// blanks and '#' comments. The first substantive line decides: a comma means
// CSV; otherwise, with at least two whitespace tokens, a numeric second token
// means Sequential and anything else Rhythmic. A file with no deciding line
// defaults to Sequential.
func DetectDialect(text string) Dialect {
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.Contains(s, ",") {
			return DialectCSV
		}
		parts := strings.Fields(s)
		if len(parts) >= 2 {
			if _, err := strconv.ParseFloat(parts[1], 64); err == nil {
				return DialectSequential
			}
			return DialectRhythmic
		}
	}
	return DialectSequential
}

// ParseText detects the dialect of a text note list and parses the whole file
// under it. bpm is used only by the rhythmic dialect. Any malformed line
// aborts the parse with a *ParseError carrying the line number.
func ParseText(data []byte, bpm float64) ([]Note, Dialect, error) {
	text := string(data)
	dialect := DetectDialect(text)
	if dialect == DialectRhythmic && bpm <= 0 {
		return nil, dialect, fmt.Errorf("%w: bpm %v", ErrInvalidConfig, bpm)
	}
	lines := strings.Split(text, "\n")

	var notes []Note
	var err error
	switch dialect {
	case DialectCSV:
		notes, err = parseCSVLines(lines)
	case DialectSequential:
		notes, err = parseSequentialLines(lines)
	case DialectRhythmic:
		notes, err = parseRhythmicLines(lines, bpm)
	}
	if err != nil {
		return nil, dialect, err
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Onset < notes[j].Onset
	})
	return notes, dialect, nil
}

// CSV dialect: onset,duration,pitch[,velocity] per line. An empty duration
// field defaults to 0.5 seconds.
func parseCSVLines(lines []string) ([]Note, error) {
	var notes []Note
	for i, line := range lines {
		lineNum := i + 1
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		parts := strings.Split(s, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) < 3 {
			return nil, lineErr(DialectCSV, lineNum, s, "need at least onset,duration,pitch")
		}

		onset, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, lineErr(DialectCSV, lineNum, s, "bad onset %q", parts[0])
		}
		duration := 0.5
		if parts[1] != "" {
			duration, err = strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, lineErr(DialectCSV, lineNum, s, "bad duration %q", parts[1])
			}
		}
		if parts[2] == "" {
			return nil, lineErr(DialectCSV, lineNum, s, "missing pitch")
		}
		pitch, err := ParsePitch(parts[2])
		if err != nil {
			return nil, &ParseError{Dialect: DialectCSV, Line: lineNum, Text: s, Err: err}
		}
		velocity := uint8(100)
		if len(parts) >= 4 && parts[3] != "" {
			velocity, err = parseVelocity(parts[3])
			if err != nil {
				return nil, &ParseError{Dialect: DialectCSV, Line: lineNum, Text: s, Err: err}
			}
		}

		notes = append(notes, Note{Onset: onset, Duration: duration, Pitch: pitch, Velocity: velocity})
	}
	return notes, nil
}

// Sequential dialect: pitch duration [velocity] per line; onsets accumulate
// from a clock that starts at zero.
func parseSequentialLines(lines []string) ([]Note, error) {
	var notes []Note
	var clock float64
	for i, line := range lines {
		lineNum := i + 1
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		parts := strings.Fields(s)
		if len(parts) < 2 {
			return nil, lineErr(DialectSequential, lineNum, s, "need pitch and duration")
		}
		pitch, err := ParsePitch(parts[0])
		if err != nil {
			return nil, &ParseError{Dialect: DialectSequential, Line: lineNum, Text: s, Err: err}
		}
		duration, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, lineErr(DialectSequential, lineNum, s, "bad duration %q", parts[1])
		}
		velocity := uint8(100)
		if len(parts) >= 3 {
			velocity, err = parseVelocity(parts[2])
			if err != nil {
				return nil, &ParseError{Dialect: DialectSequential, Line: lineNum, Text: s, Err: err}
			}
		}

		notes = append(notes, Note{Onset: clock, Duration: duration, Pitch: pitch, Velocity: velocity})
		clock += duration
	}
	return notes, nil
}

// Rhythmic dialect: pitch duration_token [velocity] per line. Tokens are in
// beats; the running clock is kept in beats and converted through bpm.
func parseRhythmicLines(lines []string, bpm float64) ([]Note, error) {
	var notes []Note
	var beatClock float64
	for i, line := range lines {
		lineNum := i + 1
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		parts := strings.Fields(s)
		if len(parts) < 2 {
			return nil, lineErr(DialectRhythmic, lineNum, s, "need pitch and duration token")
		}
		pitch, err := ParsePitch(parts[0])
		if err != nil {
			return nil, &ParseError{Dialect: DialectRhythmic, Line: lineNum, Text: s, Err: err}
		}
		beats, ok := durationTokens[strings.ToLower(parts[1])]
		if !ok {
			return nil, lineErr(DialectRhythmic, lineNum, s, "unknown duration token %q", parts[1])
		}
		velocity := uint8(100)
		if len(parts) >= 3 {
			velocity, err = parseVelocity(parts[2])
			if err != nil {
				return nil, &ParseError{Dialect: DialectRhythmic, Line: lineNum, Text: s, Err: err}
			}
		}

		notes = append(notes, Note{
			Onset:    beatClock * 60.0 / bpm,
			Duration: beats * 60.0 / bpm,
			Pitch:    pitch,
			Velocity: velocity,
		})
		beatClock += beats
	}
	return notes, nil
}

func parseVelocity(token string) (uint8, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("bad velocity %q", token)
	}
	if v < 0 || v > 127 {
		return 0, fmt.Errorf("velocity %d out of range 0..127", v)
	}
	return uint8(v), nil
}
