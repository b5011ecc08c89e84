// Package rank places a session's total time among historical sessions.
package rank

import (
	"fmt"
	"io"
	"sort"
)

// Standing is the position of a session among history plus itself.
type Standing struct {
	Rank       int
	Among      int
	Percentile float64
}

// Compute ranks current against history. Smaller times rank better and ties
// with historical values go to the current session. history is not modified.
func Compute(current float64, history []float64) Standing {
	sorted := make([]float64, len(history))
	copy(sorted, history)
	sort.Float64s(sorted)
	pos := sort.SearchFloat64s(sorted, current)
	rank := pos + 1
	among := len(sorted) + 1
	return Standing{
		Rank:       rank,
		Among:      among,
		Percentile: float64(rank) * 100 / float64(among),
	}
}

// PrintSummary writes the session totals line.
func PrintSummary(w io.Writer, questions int, totalTimeSec float64, totalErrors int) error {
	_, err := fmt.Fprintf(w, "%d operations took %.2f sec. %d errors.\n", questions, totalTimeSec, totalErrors)
	return err
}

// PrintStanding writes the rank line.
func PrintStanding(w io.Writer, s Standing) error {
	_, err := fmt.Fprintf(w, "This is %d place (by time) among %d (%.1f%% percentile)\n", s.Rank, s.Among, s.Percentile)
	return err
}
