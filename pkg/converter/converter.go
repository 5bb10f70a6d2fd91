package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatText    Format = "text"
	FormatCSV     Format = "csv"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".csv":
		return FormatCSV
	case ".txt", ".notes":
		return FormatText
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	if bytes.ContainsRune(data, 0) {
		return FormatUnknown
	}
	return FormatText
}

// TextToMIDI parses text note data (any dialect) and encodes it as a MIDI
// file. Returns ErrEmptyInput if the text parses cleanly but holds no notes.
func (c *Converter) TextToMIDI(data []byte) ([]byte, Dialect, error) {
	notes, dialect, err := ParseText(data, c.BPM)
	if err != nil {
		return nil, dialect, err
	}
	if len(notes) == 0 {
		return nil, dialect, ErrEmptyInput
	}
	out, err := EncodeMIDI(notes, c.BPM, c.TicksPerBeat, c.Program)
	return out, dialect, err
}

// MIDIToCSV decodes MIDI file data and renders its notes as CSV rows.
// Returns ErrEmptyInput if the file decodes but contains no notes.
func (c *Converter) MIDIToCSV(data []byte) ([]byte, error) {
	notes, err := DecodeMIDI(data)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrEmptyInput
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, notes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertFile converts between text and MIDI, picking the direction from the
// input and output filenames.
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown || inputFormat == FormatCSV {
		inputFormat = DetectFormatFromContent(data)
	}
	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	var outputData []byte
	switch {
	case inputFormat == FormatText && outputFormat == FormatMIDI:
		outputData, _, err = c.TextToMIDI(data)
	case inputFormat == FormatMIDI && (outputFormat == FormatCSV || outputFormat == FormatText):
		outputData, err = c.MIDIToCSV(data)
	default:
		return fmt.Errorf("unsupported conversion: %s to %s", inputFormat, outputFormat)
	}
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"text -> midi",
		"midi -> csv",
	}
}
