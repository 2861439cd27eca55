package grid

import (
	"github.com/gdamore/tcell/v2"
)

// ScreenBuffer reads cells straight out of a tcell screen.
type ScreenBuffer struct {
	screen   tcell.Screen
	defaults Defaults
}

// NewScreenBuffer wraps screen. Colours left at tcell's default resolve to
// defaults.
func NewScreenBuffer(screen tcell.Screen, defaults Defaults) *ScreenBuffer {
	return &ScreenBuffer{screen: screen, defaults: defaults}
}

// Screen returns the wrapped screen.
func (b *ScreenBuffer) Screen() tcell.Screen {
	return b.screen
}

func (b *ScreenBuffer) Dimensions() (int, int) {
	return b.screen.Size()
}

func (b *ScreenBuffer) CellAt(col, row int) Cell {
	cols, rows := b.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return EmptyCell(b.defaults)
	}

	mainc, combc, style, width := b.screen.GetContent(col, row) //nolint:staticcheck // content of the back buffer is what we diff
	fg, bg, attrs := style.Decompose()

	glyph := " "
	if mainc != 0 {
		glyph = string(append([]rune{mainc}, combc...))
	}
	c := NewCell(glyph,
		ColorFromTcell(fg, b.defaults.Fg),
		ColorFromTcell(bg, b.defaults.Bg),
		AttrFromTcell(attrs))
	c.Wide = c.Wide || width > 1
	return c
}
