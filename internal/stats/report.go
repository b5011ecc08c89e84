// Package stats contains statistics calculations and reporting.
package stats

import (
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/rank"
)

// SessionLoader reads the stored sessions, oldest first.
type SessionLoader interface {
	LoadSessions() ([]model.Session, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	// Standings[i] ranks Sessions[i] against every session stored before it.
	Standings  []rank.Standing
	Operations []model.OperationAggregate
}

// BuildReport loads history and applies the since/last filters.
func BuildReport(loader SessionLoader, cfg model.StatsConfig) (Report, error) {
	all, err := loader.LoadSessions()
	if err != nil {
		return Report{}, err
	}

	standings := make([]rank.Standing, len(all))
	previous := make([]float64, 0, len(all))
	for i, s := range all {
		total := s.TotalTimeSec()
		standings[i] = rank.Compute(total, previous)
		previous = append(previous, total)
	}

	first := 0
	if cfg.Since != nil {
		for first < len(all) && all[first].StartedAt.Before(*cfg.Since) {
			first++
		}
	}
	if cfg.Last > 0 && len(all)-first > cfg.Last {
		first = len(all) - cfg.Last
	}
	selected := all[first:]

	aggs := make([]model.SessionAggregate, len(selected))
	for i, s := range selected {
		aggs[i] = s.Aggregate()
	}
	return Report{
		Sessions:   aggs,
		Standings:  standings[first:],
		Operations: AggregateOperations(selected),
	}, nil
}
