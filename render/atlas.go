// Package render draws terminal cells with ebiten and drives the scheduler
// from an ebiten game loop.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/kamstrup/intmap"
	"github.com/mattn/go-runewidth"
	"github.com/plus3/termfx/terminal"
	"golang.org/x/image/font/gofont/gomono"
)

// Font is a monospace face at one size.
type Font struct {
	face *text.GoTextFace
}

// NewFont loads Go Mono at size pixels.
func NewFont(size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &Font{face: &text.GoTextFace{Source: source, Size: size}}, nil
}

// CellSize is the advance of one column and the height of one line.
func (f *Font) CellSize() (width, height float64) {
	m := f.face.Metrics()
	return math.Ceil(text.Advance("M", f.face)), math.Ceil(m.HAscent + m.HDescent)
}

// CellSizeFor measures Go Mono at fontSize. It is a terminal.CellSizer and
// falls back to terminal.ApproximateCellSize if the font cannot be loaded.
func CellSizeFor(fontSize float64) (width, height float64) {
	f, err := NewFont(fontSize)
	if err != nil {
		return terminal.ApproximateCellSize(fontSize)
	}
	return f.CellSize()
}

// Atlas rasterises glyphs in white on demand so sprites can tint them.
// Glyphs are keyed by their first rune.
type Atlas struct {
	font    *Font
	cellW   int
	cellH   int
	index   *intmap.Map[rune, int]
	images  []*ebiten.Image
	pending *terminal.GlyphSet
}

// NewAtlas returns an atlas fed by the glyph set the sync pass reports to.
// glyphs may be nil, in which case glyphs are only rasterised on first draw.
func NewAtlas(font *Font, glyphs *terminal.GlyphSet) *Atlas {
	w, h := font.CellSize()
	return &Atlas{
		font:    font,
		cellW:   max(int(w), 1),
		cellH:   max(int(h), 1),
		index:   intmap.New[rune, int](256),
		pending: glyphs,
	}
}

// Len is the number of rasterised glyphs.
func (a *Atlas) Len() int {
	return len(a.images)
}

// Expand rasterises every glyph the sync pass reported since the last call.
func (a *Atlas) Expand() {
	if a.pending == nil {
		return
	}
	for _, r := range a.pending.Drain() {
		a.rasterise(r)
	}
}

// Image returns the glyph's image, rasterising it if needed. Blank glyphs
// have no image.
func (a *Atlas) Image(glyph string) *ebiten.Image {
	r := firstRune(glyph)
	if r == ' ' || r == 0 {
		return nil
	}
	if i, ok := a.index.Get(r); ok {
		return a.images[i]
	}
	return a.rasterise(r)
}

func (a *Atlas) rasterise(r rune) *ebiten.Image {
	if i, ok := a.index.Get(r); ok {
		return a.images[i]
	}
	width := a.cellW * max(runewidth.RuneWidth(r), 1)
	img := ebiten.NewImage(width, a.cellH)
	op := &text.DrawOptions{}
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(img, string(r), a.font.face, op)

	a.index.Put(r, len(a.images))
	a.images = append(a.images, img)
	return img
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
