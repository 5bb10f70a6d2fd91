package converter

import "math"

// TicksToSeconds converts a tick count to elapsed seconds under the given
// tempo (microseconds per beat)
func TicksToSeconds(ticks int64, ticksPerBeat uint16, tempoMicros uint32) float64 {
	return float64(ticks) * float64(tempoMicros) / (1e6 * float64(ticksPerBeat))
}

// SecondsToTicks converts elapsed seconds to a tick count at the given BPM.
// Rounds half away from zero; this is the only rounding site, so both
// conversion directions stay consistent within a run.
func SecondsToTicks(seconds float64, ticksPerBeat uint16, bpm float64) int64 {
	return int64(math.Round(seconds * float64(ticksPerBeat) * bpm / 60.0))
}
