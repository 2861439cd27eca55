package grid

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

var ansi16 = [16]color.RGBA{
	{0, 0, 0, 255},
	{204, 0, 0, 255},
	{0, 204, 0, 255},
	{204, 204, 0, 255},
	{0, 0, 204, 255},
	{204, 0, 204, 255},
	{0, 204, 204, 255},
	{191, 191, 191, 255},
	{128, 128, 128, 255},
	{255, 84, 84, 255},
	{84, 255, 84, 255},
	{255, 255, 84, 255},
	{84, 84, 255, 255},
	{255, 84, 255, 255},
	{84, 255, 255, 255},
	{255, 255, 255, 255},
}

func cubeLevel(n uint8) uint8 {
	if n == 0 {
		return 0
	}
	return 55 + 40*n
}

// Palette maps an xterm 256-colour index to RGB: 16 ANSI colours, the
// 6x6x6 cube, then 24 greys.
func Palette(index uint8) color.RGBA {
	switch {
	case index < 16:
		return ansi16[index]
	case index < 232:
		n := index - 16
		return color.RGBA{R: cubeLevel(n / 36), G: cubeLevel((n / 6) % 6), B: cubeLevel(n % 6), A: 255}
	default:
		v := 8 + 10*(index-232)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

// ColorFromTcell converts a tcell colour, substituting def for the default
// and reset colours.
func ColorFromTcell(tc tcell.Color, def color.RGBA) color.RGBA {
	if tc == tcell.ColorDefault || tc == tcell.ColorReset {
		return def
	}
	if tc >= tcell.ColorValid && tc < tcell.ColorIsRGB {
		if idx := tc - tcell.ColorValid; idx < 256 {
			return Palette(uint8(idx))
		}
		return def
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return def
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

// AttrFromTcell converts a tcell attribute mask.
func AttrFromTcell(m tcell.AttrMask) Attr {
	var a Attr
	if m&tcell.AttrBold != 0 {
		a |= AttrBold
	}
	if m&tcell.AttrItalic != 0 {
		a |= AttrItalic
	}
	if m&tcell.AttrUnderline != 0 {
		a |= AttrUnderline
	}
	if m&tcell.AttrDim != 0 {
		a |= AttrDim
	}
	if m&tcell.AttrReverse != 0 {
		a |= AttrReverse
	}
	if m&tcell.AttrBlink != 0 {
		a |= AttrBlink
	}
	if m&tcell.AttrStrikeThrough != 0 {
		a |= AttrStrikeThrough
	}
	return a
}
