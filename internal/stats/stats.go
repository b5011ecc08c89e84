// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const (
	sparkChars      = " .:-=+*#%@"
	tableTimeLayout = "2006-01-02 15:04:05"
)

// Summary holds headline numbers over a set of sessions.
type Summary struct {
	Sessions     int
	BestTimeSec  float64
	AvgTimeSec   float64
	LastTimeSec  float64
	AvgErrors    float64
	TotalErrors  int
	AvgPerAnswer float64
}

// Summarize computes headline numbers. It returns the zero Summary for no sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}
	sum := Summary{Sessions: len(sessions), BestTimeSec: math.Inf(1)}
	var totalTime float64
	questions := 0
	for _, s := range sessions {
		totalTime += s.TotalTimeSec
		sum.TotalErrors += s.TotalErrors
		questions += s.Questions
		if s.TotalTimeSec < sum.BestTimeSec {
			sum.BestTimeSec = s.TotalTimeSec
		}
	}
	count := float64(len(sessions))
	sum.AvgTimeSec = totalTime / count
	sum.AvgErrors = float64(sum.TotalErrors) / count
	sum.LastTimeSec = sessions[len(sessions)-1].TotalTimeSec
	if questions > 0 {
		sum.AvgPerAnswer = totalTime / float64(questions)
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TotalTimes extracts total time per session.
func TotalTimes(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = s.TotalTimeSec
	}
	return out
}

// RenderSummary prints headline numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Best time: %.2f sec", sum.BestTimeSec),
		fmt.Sprintf("Avg time: %.2f sec", sum.AvgTimeSec),
		fmt.Sprintf("Last time: %.2f sec", sum.LastTimeSec),
		fmt.Sprintf("Avg per answer: %.2f sec", sum.AvgPerAnswer),
		fmt.Sprintf("Avg errors: %.2f", sum.AvgErrors),
		fmt.Sprintf("Trend: %s", Sparkline(TotalTimes(sessions))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessionTable prints one row per session with its rank at the time it was played.
func RenderSessionTable(w io.Writer, report Report) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "Started"},
		column{title: "Questions", numeric: true},
		column{title: "Time (s)", numeric: true},
		column{title: "Errors", numeric: true},
		column{title: "Rank", numeric: true},
	)
	for i, s := range report.Sessions {
		rankCell := "-"
		if i < len(report.Standings) {
			st := report.Standings[i]
			rankCell = fmt.Sprintf("%d/%d", st.Rank, st.Among)
		}
		tbl.addRow(
			s.StartedAt.Format(tableTimeLayout),
			fmt.Sprintf("%d", s.Questions),
			fmt.Sprintf("%.2f", s.TotalTimeSec),
			fmt.Sprintf("%d", s.TotalErrors),
			rankCell,
		)
	}
	return tbl.writeTo(w)
}

// RenderOperationTable prints per-operation aggregates.
func RenderOperationTable(w io.Writer, ops []model.OperationAggregate) error {
	if len(ops) == 0 {
		_, err := fmt.Fprintln(w, "No operation stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Operation"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "Operation"},
		column{title: "Questions", numeric: true},
		column{title: "Avg Time (s)", numeric: true},
		column{title: "Errors", numeric: true},
		column{title: "Error Rate", numeric: true},
	)
	for _, op := range ops {
		avg, rate := 0.0, 0.0
		if op.Count > 0 {
			avg = op.TimeSec / float64(op.Count)
			rate = float64(op.Errors) / float64(op.Count)
		}
		tbl.addRow(
			OperationLabel(op.Operation),
			fmt.Sprintf("%d", op.Count),
			fmt.Sprintf("%.2f", avg),
			fmt.Sprintf("%d", op.Errors),
			fmt.Sprintf("%.2f", rate),
		)
	}
	return tbl.writeTo(w)
}

// RenderPlots prints total time and total error scatter plots keyed by session start.
func RenderPlots(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderPlotsWithSize(w, sessions, window, 0, defaultPlotHeight, false)
}

// RenderPlotsWithSize prints the history plots sized to a given total width.
// A window above 1 adds a moving-average trend to the time plot.
func RenderPlotsWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	times := make([]Point, len(sessions))
	errs := make([]Point, len(sessions))
	for i, s := range sessions {
		times[i] = Point{At: s.StartedAt, Value: s.TotalTimeSec}
		errs[i] = Point{At: s.StartedAt, Value: float64(s.TotalErrors)}
	}
	timeSeries := []Series{{Name: "Time (s)", Points: times}}
	if window > 1 && len(sessions) > 1 {
		avg := MovingAverage(TotalTimes(sessions), window)
		trend := make([]Point, len(avg))
		for i, v := range avg {
			trend[i] = Point{At: sessions[i].StartedAt, Value: v}
		}
		timeSeries = append(timeSeries, Series{Name: fmt.Sprintf("Avg of %d", window), Points: trend})
	}

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotScatterWithColor(w, "Total test time", timeSeries, width, height, useColor); err != nil {
		return err
	}
	return PlotScatterWithColor(w, "Total errors count", []Series{{Name: "Errors", Points: errs}}, width, height, useColor)
}
