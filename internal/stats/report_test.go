package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "results"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	totals := []float64{30, 20, 25}
	for i, total := range totals {
		results := []model.Result{
			{
				Question:   model.Question{First: 100, Second: 200, Operation: model.OpAdd, Expected: 300},
				ErrorCount: i,
				TimeSec:    total - 10,
			},
			{
				Question:   model.Question{First: 500, Second: 200, Operation: model.OpSubtract, Expected: 300},
				ErrorCount: 1,
				TimeSec:    10,
			},
		}
		if _, err := st.Save(base.Add(time.Duration(i)*time.Hour), results); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}

	report, err := BuildReport(st, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if !report.Sessions[0].StartedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected first session: %+v", report.Sessions[0])
	}
	if len(report.Standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(report.Standings))
	}
	// 20 beats the earlier 30; 25 sits between 20 and 30.
	if got := report.Standings[0]; got.Rank != 1 || got.Among != 2 {
		t.Fatalf("unexpected standing for second session: %+v", got)
	}
	if got := report.Standings[1]; got.Rank != 2 || got.Among != 3 {
		t.Fatalf("unexpected standing for third session: %+v", got)
	}
	if len(report.Operations) != 2 {
		t.Fatalf("expected 2 operation aggregates, got %d", len(report.Operations))
	}
	add := report.Operations[0]
	if add.Operation != model.OpAdd || add.Count != 2 || add.Errors != 3 {
		t.Fatalf("unexpected addition aggregate: %+v", add)
	}

	since := base.Add(90 * time.Minute)
	report, err = BuildReport(st, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 1 {
		t.Fatalf("expected 1 session since filter, got %d", len(report.Sessions))
	}
}
