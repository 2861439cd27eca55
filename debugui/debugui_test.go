package debugui_test

import (
	"testing"
	"time"

	"github.com/plus3/termfx/debugui"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	effects.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func TestEffectsSnapshot(t *testing.T) {
	storage := newStorage()

	knock := effects.DefaultKnock()
	knock.Lifetime = 2
	waveID, err := effects.Spawn(storage, effects.DefaultWave(), effects.All(), effects.WithTarget("hud"))
	require.NoError(t, err)
	knockID, err := effects.Spawn(storage, knock, effects.Only(effects.Rect{Width: 4, Height: 2}))
	require.NoError(t, err)
	effects.Get(storage, knockID).Elapsed = 0.5

	rows := debugui.Effects(storage)
	require.Len(t, rows, 2)
	assert.Less(t, rows[0].Order, rows[1].Order)

	assert.Equal(t, waveID, rows[0].Ref)
	assert.Equal(t, "wave", rows[0].Kind)
	assert.Equal(t, "hud", rows[0].Target)
	assert.Equal(t, -1.0, rows[0].Progress)
	assert.Zero(t, rows[0].Duration)
	assert.Equal(t, "all", rows[0].Region)

	assert.Equal(t, knockID, rows[1].Ref)
	assert.Equal(t, "knock", rows[1].Kind)
	assert.Equal(t, effects.Active, rows[1].State)
	assert.Equal(t, 2.0, rows[1].Duration)
	assert.InDelta(t, 0.25, rows[1].Progress, 1e-9)
	assert.Equal(t, "0,0 4x2", rows[1].Region)

	require.True(t, effects.Remove(storage, waveID))
	assert.Len(t, debugui.Effects(storage), 1)

	_, err = effects.Spawn(storage, effects.DefaultJitter(), effects.All())
	require.NoError(t, err)
	assert.False(t, effects.Remove(storage, rows[0].Ref), "a row captured before the removal stays stale")
	assert.Len(t, debugui.Effects(storage), 2)
}

func TestRegionLabel(t *testing.T) {
	tests := []struct {
		name   string
		region effects.Region
		want   string
	}{
		{"all", effects.All(), "all"},
		{"only", effects.Only(effects.Rect{Col: 1, Row: 2, Width: 3, Height: 4}), "1,2 3x4"},
		{
			"several",
			effects.Only(effects.Rect{Width: 1, Height: 1}, effects.Rect{Col: 5, Width: 2, Height: 2}),
			"0,0 1x1; 5,0 2x2",
		},
		{"except", effects.Except(effects.Rect{Width: 2, Height: 1}), "all except 0,0 2x1"},
		{
			"only excluding",
			effects.FullScreen(10, 5).Excluding(effects.Rect{Col: 4, Row: 2, Width: 1, Height: 1}),
			"0,0 10x5 except 4,2 1x1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, debugui.RegionLabel(tt.region))
		})
	}
}

func TestStageTimings(t *testing.T) {
	stats := &ecs.SchedulerStats{Systems: []ecs.SystemStats{
		{Name: "effects", Stage: 400, LastDuration: 3 * time.Millisecond, AvgDuration: 2 * time.Millisecond, MaxDuration: 5 * time.Millisecond},
		{Name: "draw", Stage: 100, LastDuration: time.Millisecond, AvgDuration: time.Millisecond, MaxDuration: time.Millisecond},
		{Name: "input", Stage: 100, LastDuration: 2 * time.Millisecond, AvgDuration: time.Millisecond, MaxDuration: 4 * time.Millisecond},
	}}

	timings := debugui.StageTimings(stats)
	require.Len(t, timings, 2)

	assert.Equal(t, ecs.Stage(100), timings[0].Stage)
	assert.Equal(t, []string{"draw", "input"}, timings[0].Systems)
	assert.Equal(t, 3*time.Millisecond, timings[0].Last)
	assert.Equal(t, 2*time.Millisecond, timings[0].Average)
	assert.Equal(t, 5*time.Millisecond, timings[0].Max)

	assert.Equal(t, ecs.Stage(400), timings[1].Stage)
	assert.Equal(t, []string{"effects"}, timings[1].Systems)

	assert.Empty(t, debugui.StageTimings(&ecs.SchedulerStats{}))
}

func TestHistory(t *testing.T) {
	h := debugui.NewHistory(3)
	assert.Empty(t, h.Samples())
	assert.Zero(t, h.Average())

	h.Push(1)
	h.Push(2)
	assert.Equal(t, []float32{1, 2}, h.Samples())
	assert.InDelta(t, 1.5, h.Average(), 1e-6)

	h.Push(3)
	h.Push(4)
	assert.Equal(t, []float32{2, 3, 4}, h.Samples(), "oldest sample dropped")
	assert.InDelta(t, 3, h.Average(), 1e-6)

	h.Push(5)
	h.Push(6)
	assert.Equal(t, []float32{4, 5, 6}, h.Samples())
}

func TestImguiItemRegistration(t *testing.T) {
	storage := newStorage()
	calls := 0
	id := storage.Spawn(debugui.ImguiItem{Render: func() { calls++ }})

	item := ecs.ReadComponent[debugui.ImguiItem](storage, id)
	require.NotNil(t, item)
	item.Render()
	assert.Equal(t, 1, calls)
}
