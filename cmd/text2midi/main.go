// Package main is the entry point for the text2midi CLI
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/james-see/text2midi/pkg/api"
	"github.com/james-see/text2midi/pkg/converter"
	"github.com/james-see/text2midi/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	bpmFlag    float64
	tpbFlag    uint16
	outputFile string
	serverPort int
)

// Exit codes
const (
	exitUsage      = 1
	exitParse      = 2
	exitEmptyInput = 3
	exitWrite      = 4
)

// exitError carries the process exit code alongside the cause
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitErr(code int, err error) error {
	return &exitError{code: code, err: err}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitUsage)
	}
}

var rootCmd = &cobra.Command{
	Use:   "text2midi",
	Short: "Convert between plain-text note lists and MIDI files",
	Long: `text2midi converts plain-text note lists to standard MIDI files and back.

Three text dialects are auto-detected:
  CSV:        onset_seconds,duration_seconds,pitch[,velocity]
  Sequential: pitch duration_seconds [velocity]   (onsets accumulate)
  Rhythmic:   pitch duration_token [velocity]     (w h q e s t, needs BPM)

Pitches are MIDI numbers (60) or note names (C4, F#3, Bb-1).

Examples:
  text2midi encode tune.txt tune.mid
  text2midi encode tune.txt tune.mid --bpm 90
  text2midi decode tune.mid
  text2midi serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <input.txt> <output.mid> [bpm]",
	Short: "Convert a text note list to a MIDI file",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <input.mid> [output.csv]",
	Short: "Convert a MIDI file to CSV note rows",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDecode,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect direction and convert",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&bpmFlag, "bpm", converter.DefaultBPM, "Tempo in beats per minute")
	rootCmd.PersistentFlags().Uint16Var(&tpbFlag, "ticks-per-beat", converter.DefaultTicksPerBeat, "MIDI resolution in ticks per beat")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newConverter() *converter.Converter {
	conv := converter.New()
	conv.BPM = bpmFlag
	conv.TicksPerBeat = tpbFlag
	return conv
}

func classify(err error) error {
	switch {
	case errors.Is(err, converter.ErrEmptyInput):
		return exitErr(exitEmptyInput, err)
	default:
		return exitErr(exitParse, err)
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]
	if len(args) == 3 {
		bpm, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return exitErr(exitUsage, fmt.Errorf("invalid bpm %q", args[2]))
		}
		bpmFlag = bpm
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return exitErr(exitUsage, err)
	}

	result, dialect, err := newConverter().TextToMIDI(data)
	if err != nil {
		return classify(err)
	}
	if err := os.WriteFile(output, result, 0644); err != nil {
		return exitErr(exitWrite, err)
	}

	fmt.Printf("Wrote %s (detected dialect: %s) at %v BPM\n", output, dialect, bpmFlag)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
	if len(args) == 2 {
		output = args[1]
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return exitErr(exitUsage, err)
	}

	result, err := newConverter().MIDIToCSV(data)
	if err != nil {
		return classify(err)
	}
	if err := os.WriteFile(output, result, 0644); err != nil {
		return exitErr(exitWrite, err)
	}

	fmt.Printf("Wrote %s\n", output)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := newConverter().ConvertFile(input, outputFile); err != nil {
		return classify(err)
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
