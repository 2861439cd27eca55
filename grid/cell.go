// Package grid adapts character grids produced by a text UI into plain cell
// values that can be compared and diffed frame to frame.
package grid

import (
	"image/color"

	"github.com/mattn/go-runewidth"
)

// Attr is a bit set of text style flags.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrDim
	AttrReverse
	AttrBlink
	AttrStrikeThrough

	AttrNone Attr = 0
)

// Has reports whether every flag of mask is set.
func (a Attr) Has(mask Attr) bool {
	return a&mask == mask
}

// Cell is one character position of a grid. Cells compare with ==.
type Cell struct {
	Glyph string
	Fg    color.RGBA
	Bg    color.RGBA
	Attrs Attr
	Wide  bool
}

// Defaults are the colours used where the producer leaves a colour unset.
type Defaults struct {
	Fg color.RGBA
	Bg color.RGBA
}

// DefaultColors returns the light grey on near-black scheme.
func DefaultColors() Defaults {
	return Defaults{
		Fg: color.RGBA{R: 230, G: 230, B: 230, A: 255},
		Bg: color.RGBA{R: 26, G: 26, B: 26, A: 255},
	}
}

// EmptyCell is a blank cell in the default colours.
func EmptyCell(d Defaults) Cell {
	return Cell{Glyph: " ", Fg: d.Fg, Bg: d.Bg}
}

// NewCell builds a cell, normalising an empty glyph to a space and deriving
// Wide from the glyph's display width.
func NewCell(glyph string, fg, bg color.RGBA, attrs Attr) Cell {
	if glyph == "" {
		glyph = " "
	}
	return Cell{
		Glyph: glyph,
		Fg:    fg,
		Bg:    bg,
		Attrs: attrs,
		Wide:  runewidth.StringWidth(glyph) > 1,
	}
}

// Blank reports whether the cell draws no glyph.
func (c Cell) Blank() bool {
	return c.Glyph == " " || c.Glyph == ""
}

// DisplayColors returns the foreground and background after Reverse is applied.
func (c Cell) DisplayColors() (fg, bg color.RGBA) {
	if c.Attrs.Has(AttrReverse) {
		return c.Bg, c.Fg
	}
	return c.Fg, c.Bg
}
