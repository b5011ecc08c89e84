package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/rank"
)

func sampleSessions() []model.SessionAggregate {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.SessionAggregate{
		{StartedAt: base, TotalTimeSec: 90, TotalErrors: 3, Questions: 10},
		{StartedAt: base.Add(24 * time.Hour), TotalTimeSec: 60, TotalErrors: 1, Questions: 10},
		{StartedAt: base.Add(48 * time.Hour), TotalTimeSec: 75, TotalErrors: 2, Questions: 10},
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(sampleSessions())
	assert.Equal(t, 3, sum.Sessions)
	assert.InDelta(t, 60, sum.BestTimeSec, 1e-9)
	assert.InDelta(t, 75, sum.AvgTimeSec, 1e-9)
	assert.InDelta(t, 75, sum.LastTimeSec, 1e-9)
	assert.InDelta(t, 2, sum.AvgErrors, 1e-9)
	assert.Equal(t, 6, sum.TotalErrors)
	assert.InDelta(t, 7.5, sum.AvgPerAnswer, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	assert.Equal(t, []float64{2, 3, 5, 7}, got)
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, " @", Sparkline([]float64{1, 2}))
	assert.Equal(t, "+++", Sparkline([]float64{5, 5, 5}))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, sampleSessions()))
	out := buf.String()
	assert.Contains(t, out, "Sessions: 3")
	assert.Contains(t, out, "Best time: 60.00 sec")
	assert.Contains(t, out, "Avg errors: 2.00")

	buf.Reset()
	require.NoError(t, RenderSummary(&buf, nil))
	assert.Equal(t, "No sessions found.\n", buf.String())
}

func TestRenderSessionTable(t *testing.T) {
	report := Report{
		Sessions: sampleSessions(),
		Standings: []rank.Standing{
			{Rank: 1, Among: 1, Percentile: 100},
			{Rank: 1, Among: 2, Percentile: 50},
			{Rank: 2, Among: 3, Percentile: 66.6},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderSessionTable(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "Started")
	assert.Contains(t, out, "2024-03-02 12:00:00")
	assert.Contains(t, out, "60.00")
	assert.Contains(t, out, "2/3")
}

func TestRenderOperationTable(t *testing.T) {
	ops := []model.OperationAggregate{
		{Operation: model.OpAdd, Count: 4, Errors: 2, TimeSec: 20},
		{Operation: model.OpSubtract, Count: 6, Errors: 3, TimeSec: 45},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderOperationTable(&buf, ops))
	out := buf.String()
	assert.Contains(t, out, "Per-Operation")
	assert.Contains(t, out, "Addition")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "Subtraction")
	assert.Contains(t, out, "7.50")
}

func TestAggregateOperations(t *testing.T) {
	sessions := []model.Session{{Results: []model.Result{
		{Question: model.Question{Operation: model.OpSubtract}, ErrorCount: 2, TimeSec: 5},
		{Question: model.Question{Operation: model.OpSubtract}, ErrorCount: 0, TimeSec: 3},
	}}}
	ops := AggregateOperations(sessions)
	require.Len(t, ops, 1)
	assert.Equal(t, model.OpSubtract, ops[0].Operation)
	assert.Equal(t, 2, ops[0].Count)
	assert.Equal(t, 2, ops[0].Errors)
	assert.InDelta(t, 8, ops[0].TimeSec, 1e-9)
}

func TestRenderPlots(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlotsWithSize(&buf, sampleSessions(), 2, 60, 4, false))
	out := buf.String()
	assert.Contains(t, out, "Total test time")
	assert.Contains(t, out, "Total errors count")
	assert.Contains(t, out, "Avg of 2")

	buf.Reset()
	require.NoError(t, RenderPlots(&buf, nil, 2))
	assert.Empty(t, buf.String())
}
