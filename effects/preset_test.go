package effects_test

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var nullParams gjson.Result

const intro = `{
  "name": "intro",
  "effects": [
    {"kind": "wave", "params": {"amplitude": 3, "vertical": true}},
    {"kind": "ripple", "params": {"center_col": 4}},
    {"kind": "tint", "params": {"color": "#ff8000", "strength": 0.25}, "target": "hud"},
    {"kind": "explode", "seed": 7,
     "region": {"include": [{"col": 0, "row": 0, "width": 10, "height": 5}],
                "exclude": [{"col": 2, "row": 0, "width": 2, "height": 5}]}}
  ]
}`

func TestLoadPreset(t *testing.T) {
	preset, err := effects.LoadPreset([]byte(intro))
	require.NoError(t, err)
	assert.Equal(t, "intro", preset.Name)
	require.Len(t, preset.Entries, 4)

	wave, err := preset.Entries[0].New()
	require.NoError(t, err)
	want := effects.DefaultWave()
	want.Amplitude, want.Vertical = 3, true
	assert.Equal(t, want, wave)

	tint, err := preset.Entries[2].New()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 128, A: 255}, tint.(effects.Tint).Color)
	assert.Equal(t, "hud", preset.Entries[2].Target)

	explode := preset.Entries[3]
	require.NotNil(t, explode.Seed)
	assert.Equal(t, uint32(7), *explode.Seed)
	assert.True(t, explode.Region.Contains(1, 1))
	assert.False(t, explode.Region.Contains(3, 1))
	assert.False(t, explode.Region.Contains(15, 1))
}

func TestLoadPresetErrors(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"effects": [`,
		"not an object":   `[1, 2]`,
		"no effects":      `{"name": "x"}`,
		"unknown kind":    `{"effects": [{"kind": "sparkle"}]}`,
		"entry not obj":   `{"effects": ["wave"]}`,
		"bad number":      `{"effects": [{"kind": "wave", "params": {"amplitude": "big"}}]}`,
		"bad bool":        `{"effects": [{"kind": "wave", "params": {"vertical": 1}}]}`,
		"params array":    `{"effects": [{"kind": "wave", "params": [1]}]}`,
		"bad colour":      `{"effects": [{"kind": "tint", "params": {"color": "orange"}}]}`,
		"short colour":    `{"effects": [{"kind": "tint", "params": {"color": [1, 2]}}]}`,
		"colour range":    `{"effects": [{"kind": "tint", "params": {"color": [1, 2, 300]}}]}`,
		"negative seed":   `{"effects": [{"kind": "jitter", "seed": -1}]}`,
		"bad region":      `{"effects": [{"kind": "jitter", "region": []}]}`,
		"bad rectangle":   `{"effects": [{"kind": "jitter", "region": {"include": [3]}}]}`,
		"include not arr": `{"effects": [{"kind": "jitter", "region": {"include": {}}}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := effects.LoadPreset([]byte(doc))
			assert.ErrorIs(t, err, effects.ErrPreset)
		})
	}
}

func TestPresetSpawnBuildsFreshEffects(t *testing.T) {
	preset, err := effects.LoadPreset([]byte(intro))
	require.NoError(t, err)

	w := newWorld(t, 10, 5)
	first, err := preset.Spawn(w.storage)
	require.NoError(t, err)
	second, err := preset.Spawn(w.storage)
	require.NoError(t, err)
	require.Len(t, first, 4)

	a := effects.Get(w.storage, first[1])
	b := effects.Get(w.storage, second[1])
	assert.NotSame(t, a.Effect, b.Effect)
	assert.Equal(t, uint32(7), effects.Get(w.storage, first[3]).Seed)
	assert.Equal(t, "hud", effects.Get(w.storage, first[2]).Target)
}

func instanceCount(storage *ecs.Storage) int {
	q := ecs.NewQuery[struct{ *effects.Instance }](storage)
	q.Execute()
	return q.Len()
}

func TestPresetSpawnRollsBack(t *testing.T) {
	preset, err := effects.LoadPreset([]byte(intro))
	require.NoError(t, err)

	w := newWorld(t, 2, 2)
	w.storage.SetEntityLimit(w.storage.Len() + 2)
	_, err = preset.Spawn(w.storage)
	require.ErrorIs(t, err, ecs.ErrEntityLimit)
	assert.Zero(t, instanceCount(w.storage))
}

func TestPresetDeclare(t *testing.T) {
	preset, err := effects.LoadPreset([]byte(intro))
	require.NoError(t, err)

	w := newWorld(t, 2, 2)
	var commands ecs.Commands
	require.NoError(t, preset.Declare(&commands))
	assert.Equal(t, 4, commands.Len())
	require.NoError(t, commands.Flush(w.storage))
	assert.Equal(t, 4, instanceCount(w.storage))
}

type spin struct{ Speed float64 }

func (s spin) Delta(f *effects.Frame, _ effects.Cell) effects.Delta {
	return effects.Delta{Rotation: s.Speed * f.Elapsed}
}

func TestRegisterCustomKind(t *testing.T) {
	if _, ok := effects.Lookup("test-spin"); !ok {
		effects.Register("test-spin", func(params gjson.Result) (effects.Effect, error) {
			return spin{Speed: params.Get("speed").Float()}, nil
		})
	}
	assert.Panics(t, func() {
		effects.Register("test-spin", func(gjson.Result) (effects.Effect, error) { return spin{}, nil })
	})

	preset, err := effects.LoadPreset([]byte(`{"effects": [{"kind": "test-spin", "params": {"speed": 2}}]}`))
	require.NoError(t, err)
	effect, err := preset.Entries[0].New()
	require.NoError(t, err)
	assert.Equal(t, spin{Speed: 2}, effect)
}

func ExampleLoadPreset() {
	preset, err := effects.LoadPreset([]byte(`{
		"name": "shake",
		"effects": [
			{"kind": "jitter", "params": {"amplitude": 1.5}},
			{"kind": "knock", "params": {"angle": 3.14159, "duration": 0.4}}
		]
	}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, entry := range preset.Entries {
		effect, _ := entry.New()
		_, oneShot := effect.(effects.OneShot)
		fmt.Println(entry.Kind, oneShot)
	}
	// Output:
	// jitter false
	// knock true
}

func TestNewByKind(t *testing.T) {
	effect, err := effects.New("wave", "")
	require.NoError(t, err)
	assert.Equal(t, effects.DefaultWave(), effect)

	effect, err = effects.New("wave", `{"amplitude": 2}`)
	require.NoError(t, err)
	assert.Equal(t, 2.0, effect.(effects.Wave).Amplitude)

	_, err = effects.New("sparkle", "")
	assert.ErrorIs(t, err, effects.ErrPreset)
	_, err = effects.New("wave", `[1, 2]`)
	assert.ErrorIs(t, err, effects.ErrPreset)
}
