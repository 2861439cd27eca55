package effects_test

import (
	"image/color"
	"math"
	"testing"

	"github.com/plus3/termfx/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectContains(t *testing.T) {
	r := effects.Rect{Col: 2, Row: 1, Width: 3, Height: 2}
	tests := []struct {
		col, row int
		want     bool
	}{
		{2, 1, true},
		{4, 2, true},
		{5, 1, false},
		{2, 3, false},
		{1, 1, false},
		{-1, -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Contains(tt.col, tt.row), "(%d,%d)", tt.col, tt.row)
	}

	assert.False(t, effects.Rect{Width: 0, Height: 5}.Contains(0, 0))
	assert.False(t, effects.Rect{Col: -2, Row: -2, Width: -1, Height: 4}.Contains(-2, -2))
}

func TestRegionContains(t *testing.T) {
	block := effects.Rect{Col: 0, Row: 0, Width: 10, Height: 5}
	hole := effects.Rect{Col: 2, Row: 0, Width: 2, Height: 5}

	tests := map[string]struct {
		region   effects.Region
		col, row int
		want     bool
	}{
		"all":                      {effects.All(), 500, 500, true},
		"all negative":             {effects.All(), -3, -1, true},
		"include hit":              {effects.Only(block), 9, 4, true},
		"include miss":             {effects.Only(block), 10, 4, false},
		"exclude wins":             {effects.Only(block).Excluding(hole), 3, 1, false},
		"beside exclusion":         {effects.Only(block).Excluding(hole), 1, 1, true},
		"except":                   {effects.Except(hole), 2, 4, false},
		"except elsewhere":         {effects.Except(hole), 40, 4, true},
		"full screen":              {effects.FullScreen(80, 24), 79, 23, true},
		"full screen edge":         {effects.FullScreen(80, 24), 80, 0, false},
		"negative with include":    {effects.Only(effects.Rect{Col: -5, Row: -5, Width: 10, Height: 10}), -1, 0, true},
		"negative outside include": {effects.Only(effects.Rect{Col: -5, Row: -5, Width: 4, Height: 4}), -1, 0, false},
		"negative still excluded":  {effects.Except(effects.Rect{Col: -5, Row: -5, Width: 10, Height: 10}), -1, -1, false},
		"empty include rect":       {effects.Only(effects.Rect{Width: 0, Height: 3}), 0, 0, false},
		"second include rectangle": {effects.Only(hole, effects.Rect{Col: 20, Row: 20, Width: 1, Height: 1}), 20, 20, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.region.Contains(tt.col, tt.row))
		})
	}
}

func TestExcludingCopies(t *testing.T) {
	base := effects.Except(effects.Rect{Width: 1, Height: 1})
	derived := base.Excluding(effects.Rect{Col: 5, Width: 1, Height: 1})
	assert.Len(t, base.Exclude, 1)
	assert.Len(t, derived.Exclude, 2)
}

func TestHash(t *testing.T) {
	assert.Equal(t, uint32(0), effects.Hash(0, 0))
	assert.Equal(t, uint32(544027445), effects.Hash(1, 0))
	assert.Equal(t, uint32(2477352897), effects.Hash(1, 2))
	assert.Equal(t, uint32(1388682951), effects.Hash(12345, 678))
}

func frame(cols, rows int) *effects.Frame {
	return &effects.Frame{Columns: cols, Rows: rows, CellWidth: 10, CellHeight: 20}
}

func TestWave(t *testing.T) {
	w := effects.Wave{Amplitude: 2, Frequency: 1, PhaseOffset: 0.5}
	f := frame(10, 10)
	f.Time = 0.3

	assert.InDelta(t, 2*math.Sin(0.3+3*0.5), w.Delta(f, effects.Cell{Col: 3, Row: 7}).DY, 1e-12)
	w.Vertical = true
	assert.InDelta(t, 2*math.Sin(0.3+7*0.5), w.Delta(f, effects.Cell{Col: 3, Row: 7}).DY, 1e-12)
	assert.Zero(t, w.Delta(f, effects.Cell{Col: 3, Row: 7}).DX)
}

func TestRippleAdvancesPhase(t *testing.T) {
	r := effects.DefaultRipple()
	f := frame(80, 24)
	f.Dt = 0.1
	r.Step(f)
	r.Step(f)
	assert.InDelta(t, 2.0, r.Phase(), 1e-12)

	d := math.Hypot(3, 4)
	want := r.Amplitude * math.Sin(2*math.Pi*(d/r.Wavelength-2)) * math.Exp(-r.Damping*d)
	got := r.Delta(f, effects.Cell{Col: 43, Row: 16})
	assert.InDelta(t, want, got.DY, 1e-9)
}

func TestJitterDeterminism(t *testing.T) {
	j := effects.Jitter{Amplitude: 3, MaxRotation: 0.05}
	f := frame(20, 10)
	f.Count = 42
	f.Seed = 9

	changed := false
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Columns; col++ {
			c := effects.Cell{Col: col, Row: row, Index: row*f.Columns + col}
			d := j.Delta(f, c)
			assert.Equal(t, d, j.Delta(f, c))
			assert.LessOrEqual(t, math.Abs(d.DX), 3.0)
			assert.LessOrEqual(t, math.Abs(d.DY), 3.0)
			assert.LessOrEqual(t, math.Abs(d.Rotation), 0.05)

			next := *f
			next.Count++
			if j.Delta(&next, c) != d {
				changed = true
			}
		}
	}
	assert.True(t, changed, "offsets should change between frames")

	j.Rate = 10
	f.Time = 0.31
	early := j.Delta(f, effects.Cell{Col: 1, Row: 1})
	f.Time = 0.39
	assert.Equal(t, early, j.Delta(f, effects.Cell{Col: 1, Row: 1}), "same slot")
}

func TestCellNoiseOnWideGrids(t *testing.T) {
	f := frame(1001, 1001)
	f.Count = 3
	f.Seed = 5

	j := effects.Jitter{Amplitude: 3, MaxRotation: 0.05}
	assert.NotEqual(t,
		j.Delta(f, effects.Cell{Col: 0, Row: 1}),
		j.Delta(f, effects.Cell{Col: 1000, Row: 0}))

	k := effects.DefaultKnock()
	f.Progress = 0.25
	assert.NotEqual(t,
		k.Delta(f, effects.Cell{Col: 1, Row: 0}),
		k.Delta(f, effects.Cell{Col: 0, Row: 1000}))
}

func TestGlitchIntensity(t *testing.T) {
	f := frame(10, 24)
	f.Time = 1.7

	none := effects.Glitch{MaxOffset: 30, Intensity: 0, Frequency: 8}
	every := effects.Glitch{MaxOffset: 30, Intensity: 1, Frequency: 8}
	for row := 0; row < f.Rows; row++ {
		assert.Zero(t, none.Delta(f, effects.Cell{Row: row}))

		d := every.Delta(f, effects.Cell{Row: row})
		assert.LessOrEqual(t, math.Abs(d.DX), 30.0)
		assert.Equal(t, d, every.Delta(f, effects.Cell{Col: 5, Row: row}), "whole row moves together")
	}
}

func TestGravityAccumulates(t *testing.T) {
	g := effects.DefaultGravity()
	f := frame(4, 4)
	f.Dt = 0.5
	c := effects.Cell{Col: 1, Row: 1, Index: 5}

	g.Step(f)
	assert.InDelta(t, 50.0, g.Delta(f, c).DY, 1e-9)
	g.Step(f)
	assert.InDelta(t, 150.0, g.Delta(f, c).DY, 1e-9)

	_, y := g.Offset(5)
	assert.InDelta(t, 150.0, y, 1e-9)
	_, y = g.Offset(6)
	assert.Zero(t, y)

	g.Damping = 0.5
	g.Step(f)
	d := g.Delta(f, c)
	v := (200 + 100) * math.Pow(0.5, 0.5)
	assert.InDelta(t, 150+v*0.5, d.DY, 1e-9)

	f.Columns = 8
	g.Step(f)
	_, y = g.Offset(5)
	assert.Zero(t, y, "resized grids start over")
}

func TestBubbly(t *testing.T) {
	f := frame(40, 20)
	f.Time = 0.4
	assert.Zero(t, effects.Bubbly{Speed: 1, Density: 0, MaxScale: 2}.Delta(f, effects.Cell{Col: 3}))

	b := effects.DefaultBubbly()
	pulsing := 0
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Columns; col++ {
			d := b.Delta(f, effects.Cell{Col: col, Row: row})
			assert.GreaterOrEqual(t, d.Scale, 0.0)
			assert.LessOrEqual(t, d.Scale, b.MaxScale-1)
			if d.Scale != 0 {
				pulsing++
			}
		}
	}
	assert.Greater(t, pulsing, 0)
	assert.Less(t, pulsing, f.Columns*f.Rows/2)
}

func TestCollapseStagger(t *testing.T) {
	c := effects.DefaultCollapse()
	f := frame(10, 10)
	f.Elapsed = 0.1

	assert.InDelta(t, 4.0, c.Delta(f, effects.Cell{Row: 0}).DY, 1e-9)
	assert.InDelta(t, 0.5*800*0.05*0.05, c.Delta(f, effects.Cell{Row: 1}).DY, 1e-9)
	assert.Zero(t, c.Delta(f, effects.Cell{Row: 4}))

	c.StaggerCol = 0.1
	assert.Zero(t, c.Delta(f, effects.Cell{Col: 1}))
}

func TestScatterEasesOut(t *testing.T) {
	s := effects.Scatter{CenterCol: 0, CenterRow: 0, Distance: 100, Spin: 1, Lifetime: 2}
	f := frame(10, 10)
	cell := effects.Cell{Col: 3, Row: 0}

	f.Progress = 0.5
	assert.InDelta(t, 50.0, s.Delta(f, cell).DX, 1e-9)
	assert.InDelta(t, -0.4, s.Delta(f, cell).Scale, 1e-9)
	f.Progress = 0.999
	assert.InDelta(t, 100.0, s.Delta(f, cell).DX, 1e-3)
	assert.Zero(t, s.Delta(f, effects.Cell{}).DX, "the centre cell stays put")
}

func TestExplodeSeeded(t *testing.T) {
	e := effects.DefaultExplode()
	f := frame(80, 24)
	f.Elapsed, f.Progress = 1, 0.4
	cell := effects.Cell{Col: 10, Row: 3}

	f.Seed = 1
	first := e.Delta(f, cell)
	assert.Equal(t, first, e.Delta(f, cell))
	f.Seed = 2
	assert.NotEqual(t, first, e.Delta(f, cell))

	assert.Less(t, first.Scale, 0.0)
	assert.Less(t, first.DX, 0.0, "cells left of the centre fly left")
}

func TestSlashKeepsPassedCellsDisplaced(t *testing.T) {
	s := effects.Slash{Angle: 0, Amplitude: 25, Width: 4, Lifetime: 1}
	f := frame(20, 5)

	f.Progress = 0
	assert.Zero(t, s.Delta(f, effects.Cell{Col: 10}))

	f.Progress = 0.999
	for col := 0; col < f.Columns; col++ {
		d := s.Delta(f, effects.Cell{Col: col, Row: 2})
		assert.InDelta(t, 25.0, d.DY, 1e-9, "col %d", col)
		assert.InDelta(t, 0.0, d.DX, 1e-9)
	}

	f.Progress = 0.5
	line := s.Line(f)
	behind := s.Delta(f, effects.Cell{Col: int(line) - 3})
	ahead := s.Delta(f, effects.Cell{Col: int(line) + 3})
	assert.InDelta(t, 25.0, behind.DY, 1e-9)
	assert.Zero(t, ahead)
}

func TestKnockStrength(t *testing.T) {
	var k effects.Knock
	assert.Zero(t, k.Strength(0))
	assert.InDelta(t, 1.0, k.Strength(0.25), 1e-9)
	assert.Less(t, k.Strength(0.9), k.Strength(0.5))

	k = effects.DefaultKnock()
	f := frame(10, 10)
	f.Progress = 0.25
	d := k.Delta(f, effects.Cell{Col: 2, Row: 2})
	assert.Greater(t, d.DX, 0.0, "angle zero knocks right")
	assert.LessOrEqual(t, math.Hypot(d.DX, d.DY), k.Amplitude*1.15+1e-9)
}

func TestTint(t *testing.T) {
	fg := color.NRGBA{R: 0, G: 0, B: 0, A: 128}
	bg := color.NRGBA{R: 10, G: 10, B: 10, A: 255}
	red := color.NRGBA{R: 255, A: 255}

	effects.Tint{Color: red, Strength: 1}.Colorize(frame(1, 1), effects.Cell{}, &fg, &bg)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, fg)
	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 255}, bg)

	fg = color.NRGBA{A: 255}
	effects.Tint{Color: red, Strength: 0.5, Background: true}.Colorize(frame(1, 1), effects.Cell{}, &fg, &bg)
	assert.InDelta(t, 128, int(fg.R), 1)
	assert.InDelta(t, 133, int(bg.R), 1)
}

func TestRainbowHue(t *testing.T) {
	r := effects.DefaultRainbow()
	for _, tc := range []struct{ col, row int }{{0, 0}, {5, 9}, {79, 23}} {
		hue := r.Hue(tc.col, tc.row, 12.34)
		assert.GreaterOrEqual(t, hue, 0.0)
		assert.Less(t, hue, 360.0)
	}
	r.Speed = -1
	assert.GreaterOrEqual(t, r.Hue(0, 0, 0.1), 0.0)

	fg := color.NRGBA{A: 200}
	r.Colorize(frame(1, 1), effects.Cell{}, &fg, &color.NRGBA{})
	assert.Equal(t, uint8(200), fg.A)
}

func TestShinyBand(t *testing.T) {
	s := effects.Shiny{Speed: 1, Width: 4, Angle: 0, Brightness: 1}
	f := frame(20, 1)
	f.Time = 10 // band centre at column 6

	fg := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	bg := fg
	s.Colorize(f, effects.Cell{Col: 6}, &fg, &bg)
	assert.Equal(t, uint8(200), fg.R)
	assert.Equal(t, uint8(200), bg.G)

	far := color.NRGBA{R: 100, A: 255}
	s.Colorize(f, effects.Cell{Col: 15}, &far, &color.NRGBA{})
	assert.Equal(t, uint8(100), far.R)
}

func TestGlowAlpha(t *testing.T) {
	g := effects.Glow{Speed: 0.25, Intensity: 0.5}
	f := frame(1, 1)
	f.Time = 1 // sin(π/2) = 1

	fg := color.NRGBA{A: 100}
	bg := color.NRGBA{A: 255}
	g.Colorize(f, effects.Cell{}, &fg, &bg)
	assert.Equal(t, uint8(150), fg.A)
	assert.Equal(t, uint8(255), bg.A)
	assert.InDelta(t, 0.05, g.Delta(f, effects.Cell{}).Scale, 1e-9)
}

type pulse struct{}

func (pulse) Delta(*effects.Frame, effects.Cell) effects.Delta { return effects.Delta{Scale: 1} }

func TestKindOf(t *testing.T) {
	assert.Equal(t, "wave", effects.KindOf(effects.DefaultWave()))
	assert.Equal(t, "gravity", effects.KindOf(effects.DefaultGravity()))
	assert.Equal(t, "pulse", effects.KindOf(pulse{}))
	assert.Equal(t, "pulse", effects.KindOf(&pulse{}))
	assert.Empty(t, effects.KindOf(nil))
}

func TestBuiltinsRegistered(t *testing.T) {
	kinds := effects.Kinds()
	for _, kind := range []string{
		"wave", "ripple", "breathe", "jitter", "glitch", "gravity", "bubbly",
		"tint", "rainbow", "glow", "shiny",
		"collapse", "scatter", "explode", "slash", "knock",
	} {
		assert.Contains(t, kinds, kind)
		factory, ok := effects.Lookup(kind)
		require.True(t, ok, kind)
		effect, err := factory(nullParams)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, effects.KindOf(effect))
	}
}
