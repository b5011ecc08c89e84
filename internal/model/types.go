// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Operation is the arithmetic operator of a question.
type Operation string

const (
	// OpAdd adds the second operand to the first.
	OpAdd Operation = "+"
	// OpSubtract subtracts the second operand from the first.
	OpSubtract Operation = "-"
)

// Operations lists the supported operations in draw order.
var Operations = []Operation{OpAdd, OpSubtract}

// Apply computes the result of the operation.
func (o Operation) Apply(a, b int) (int, error) {
	switch o {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", string(o))
	}
}

// Question is a single arithmetic problem.
type Question struct {
	First     int       `json:"first"`
	Second    int       `json:"second"`
	Operation Operation `json:"operation"`
	Expected  int       `json:"expected"`
}

// Prompt renders the question the way it is shown to the solver.
func (q Question) Prompt() string {
	return fmt.Sprintf("%d %s %d = ... ", q.First, q.Operation, q.Second)
}

// Result records how a question was answered.
type Result struct {
	Question   Question `json:"question"`
	ErrorCount int      `json:"error_count"`
	TimeSec    float64  `json:"time_sec"`
}

// Session is a completed drill keyed by its start time.
type Session struct {
	StartedAt time.Time
	Results   []Result
}

// TotalTimeSec sums the per-question elapsed times.
func (s Session) TotalTimeSec() float64 {
	return TotalTimeSec(s.Results)
}

// TotalErrors sums the per-question error counts.
func (s Session) TotalErrors() int {
	return TotalErrors(s.Results)
}

// Aggregate summarizes the session.
func (s Session) Aggregate() SessionAggregate {
	return SessionAggregate{
		StartedAt:    s.StartedAt,
		TotalTimeSec: s.TotalTimeSec(),
		TotalErrors:  s.TotalErrors(),
		Questions:    len(s.Results),
	}
}

// TotalTimeSec sums time_sec over results.
func TotalTimeSec(results []Result) float64 {
	var total float64
	for _, r := range results {
		total += r.TimeSec
	}
	return total
}

// TotalErrors sums error_count over results.
func TotalErrors(results []Result) int {
	total := 0
	for _, r := range results {
		total += r.ErrorCount
	}
	return total
}

// SessionAggregate summarizes a stored session for ranking and reporting.
type SessionAggregate struct {
	StartedAt    time.Time
	TotalTimeSec float64
	TotalErrors  int
	Questions    int
}

// OperationAggregate aggregates results for one operation across sessions.
type OperationAggregate struct {
	Operation Operation
	Count     int
	Errors    int
	TimeSec   float64
}

// Config defines drill settings.
type Config struct {
	Questions  int
	Min        int
	Max        int
	ResultsDir string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}
