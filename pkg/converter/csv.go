package converter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes notes as rows of onset,duration,pitch_name,velocity with no
// header. Floats use the shortest representation that round-trips.
func WriteCSV(w io.Writer, notes []Note) error {
	cw := csv.NewWriter(w)
	for _, n := range notes {
		row := []string{
			strconv.FormatFloat(n.Onset, 'g', -1, 64),
			strconv.FormatFloat(n.Duration, 'g', -1, 64),
			NoteName(n.Pitch),
			strconv.Itoa(int(n.Velocity)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
