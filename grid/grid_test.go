package grid_test

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/termfx/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestPalette(t *testing.T) {
	tests := []struct {
		index uint8
		want  color.RGBA
	}{
		{0, black},
		{1, color.RGBA{204, 0, 0, 255}},
		{15, white},
		{16, black},
		{21, color.RGBA{0, 0, 255, 255}},
		{196, color.RGBA{255, 0, 0, 255}},
		{231, white},
		{232, color.RGBA{8, 8, 8, 255}},
		{255, color.RGBA{238, 238, 238, 255}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grid.Palette(tt.index), "index %d", tt.index)
	}
}

func TestColorFromTcell(t *testing.T) {
	def := color.RGBA{1, 2, 3, 255}

	assert.Equal(t, def, grid.ColorFromTcell(tcell.ColorDefault, def))
	assert.Equal(t, def, grid.ColorFromTcell(tcell.ColorReset, def))
	assert.Equal(t, white, grid.ColorFromTcell(tcell.ColorWhite, def))
	assert.Equal(t, grid.Palette(9), grid.ColorFromTcell(tcell.ColorRed, def))
	assert.Equal(t, color.RGBA{128, 64, 255, 255}, grid.ColorFromTcell(tcell.NewRGBColor(128, 64, 255), def))
}

func TestFrameOutOfRange(t *testing.T) {
	d := grid.DefaultColors()
	f := grid.NewFrame(4, 2, d)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 2}, {100, 100}} {
		assert.Equal(t, grid.EmptyCell(d), f.CellAt(pos[0], pos[1]))
		assert.False(t, f.Set(pos[0], pos[1], grid.Cell{Glyph: "x"}))
	}

	empty := grid.NewFrame(-3, 5, d)
	cols, rows := empty.Dimensions()
	assert.Equal(t, 0, cols)
	assert.Equal(t, 5, rows)
}

func TestFrameSetString(t *testing.T) {
	d := grid.DefaultColors()
	f := grid.NewFrame(5, 1, d)
	style := grid.Cell{Fg: white, Bg: black, Attrs: grid.AttrBold}

	n := f.SetString(0, 0, "a世bcd", style)
	assert.Equal(t, 5, n, "the last rune does not fit")

	assert.Equal(t, "a", f.CellAt(0, 0).Glyph)
	assert.True(t, f.CellAt(0, 0).Attrs.Has(grid.AttrBold))
	wide := f.CellAt(1, 0)
	assert.Equal(t, "世", wide.Glyph)
	assert.True(t, wide.Wide)
	assert.True(t, f.CellAt(2, 0).Blank())
	assert.Equal(t, "c", f.CellAt(4, 0).Glyph)
}

func TestFrameClone(t *testing.T) {
	f := grid.NewFrame(2, 2, grid.DefaultColors())
	clone := f.Clone()
	f.Set(0, 0, grid.NewCell("z", white, black, 0))

	assert.True(t, clone.CellAt(0, 0).Blank())
	assert.NotEqual(t, f.CellAt(0, 0), clone.CellAt(0, 0))
}

func TestCellDisplayColors(t *testing.T) {
	c := grid.NewCell("", white, black, grid.AttrReverse)
	assert.Equal(t, " ", c.Glyph)
	fg, bg := c.DisplayColors()
	assert.Equal(t, black, fg)
	assert.Equal(t, white, bg)
}

func TestScreenBuffer(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 3)

	d := grid.DefaultColors()
	buf := grid.NewScreenBuffer(screen, d)

	cols, rows := buf.Dimensions()
	assert.Equal(t, 10, cols)
	assert.Equal(t, 3, rows)

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true).Dim(true)
	screen.SetContent(0, 0, 'A', nil, style)
	screen.SetContent(1, 0, 'e', []rune{'\u0301'}, tcell.StyleDefault)

	a := buf.CellAt(0, 0)
	assert.Equal(t, "A", a.Glyph)
	assert.Equal(t, white, a.Fg)
	assert.Equal(t, black, a.Bg)
	assert.Equal(t, grid.AttrBold|grid.AttrDim, a.Attrs)

	e := buf.CellAt(1, 0)
	assert.Equal(t, "e\u0301", e.Glyph)
	assert.Equal(t, d.Fg, e.Fg)
	assert.Equal(t, d.Bg, e.Bg)

	assert.Equal(t, grid.EmptyCell(d), buf.CellAt(10, 0))
	assert.True(t, buf.CellAt(5, 2).Blank())
}
