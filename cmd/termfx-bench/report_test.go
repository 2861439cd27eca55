package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/termfx/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)

	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(i)*time.Millisecond)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 99*time.Millisecond, s.P99)
}

func TestStageReports(t *testing.T) {
	stages := stageReports(&ecs.SchedulerStats{Systems: []ecs.SystemStats{
		{Stage: 200, AvgDuration: time.Millisecond, MaxDuration: 2 * time.Millisecond},
		{Stage: 100, AvgDuration: time.Millisecond},
		{Stage: 100, AvgDuration: time.Millisecond},
	}})
	require.Len(t, stages, 2)
	assert.Equal(t, StageReport{Stage: 100, Systems: 2, Avg: 2 * time.Millisecond}, stages[0])
	assert.Equal(t, StageReport{Stage: 200, Systems: 1, Avg: time.Millisecond, Max: 2 * time.Millisecond}, stages[1])
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:       time.Second,
		Workload:       "scroll",
		Terminals:      1,
		Cells:          1920,
		TotalUpdates:   4,
		Writes:         10,
		Stages:         []StageReport{{Stage: 300, Systems: 1, Avg: time.Millisecond}},
		GCPauseMetrics: true,
	}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Workload:** scroll")
	assert.Contains(t, out, "**Sprite Writes per Frame:** 2.5")
	assert.Contains(t, out, "- Stage 300 (1 systems): avg 1ms, max 0s")
	assert.Contains(t, out, "## GC Pause Durations")
}

func TestDrawFunc(t *testing.T) {
	for _, workload := range []string{"static", "scroll", "noise"} {
		draw, err := drawFunc(workload)
		require.NoError(t, err, workload)
		assert.NotNil(t, draw)
	}
	_, err := drawFunc("fireworks")
	assert.Error(t, err)
}
