package terminal

import (
	"image/color"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/grid"
)

// SyncStats counts the work of Sync passes. As a singleton the per-frame
// counters sum every terminal synced in that frame.
type SyncStats struct {
	Frame int64

	CellsVisited          int
	CellsChanged          int
	BackgroundWrites      int
	ForegroundColorWrites int
	GlyphWrites           int

	// Skipped and Rebuilds are running totals.
	Skipped  int64
	Rebuilds int64
}

// Writes is the number of sprite writes.
func (s SyncStats) Writes() int {
	return s.BackgroundWrites + s.ForegroundColorWrites + s.GlyphWrites
}

func (s *SyncStats) add(pass SyncStats) {
	if s.Frame != pass.Frame {
		s.Frame = pass.Frame
		s.CellsVisited, s.CellsChanged = 0, 0
		s.BackgroundWrites, s.ForegroundColorWrites, s.GlyphWrites = 0, 0, 0
	}
	s.CellsVisited += pass.CellsVisited
	s.CellsChanged += pass.CellsChanged
	s.BackgroundWrites += pass.BackgroundWrites
	s.ForegroundColorWrites += pass.ForegroundColorWrites
	s.GlyphWrites += pass.GlyphWrites
	s.Skipped += pass.Skipped
	s.Rebuilds += pass.Rebuilds
}

// SyncSystem copies the terminal's screen into its cell entities, writing
// only the sprite fields whose cell value changed.
type SyncSystem struct {
	Terminal *Terminal
	Stats    ecs.Singleton[SyncStats]

	lastGeneration  uint64
	lastRegistryGen uint64
	synced          bool
}

func (s *SyncSystem) Name() string {
	return "SyncSystem[" + s.Terminal.Name() + "]"
}

func (s *SyncSystem) Execute(frame *ecs.UpdateFrame) {
	t := s.Terminal
	t.mu.Lock()
	defer t.mu.Unlock()

	pass := SyncStats{Frame: frame.Frame}
	defer func() {
		t.lastSync = pass
		if stats := s.Stats.Get(); stats != nil {
			stats.add(pass)
		}
	}()

	rebuilt, err := t.registry.EnsureGrid(t.layout.Columns, t.layout.Rows, t.layout.CellWidth, t.layout.CellHeight)
	if err != nil {
		frame.Fail(err)
		return
	}
	if rebuilt {
		pass.Rebuilds = 1
	}

	if s.synced && t.generation == s.lastGeneration && t.registry.Generation() == s.lastRegistryGen {
		pass.Skipped = 1
		return
	}
	s.synced = true
	s.lastGeneration = t.generation
	s.lastRegistryGen = t.registry.Generation()

	cells := t.registry.Cells()
	for i := range cells {
		ref := &cells[i]
		pass.CellsVisited++
		next := t.buffer.CellAt(ref.Col, ref.Row)
		if ref.Style.Synced && ref.Style.Cell == next {
			continue
		}
		pass.CellsChanged++
		s.write(ref, next, &pass)
	}
}

func (s *SyncSystem) write(ref *CellRef, next grid.Cell, pass *SyncStats) {
	prev := ref.Style.Cell
	first := !ref.Style.Synced

	prevFg, prevBg := displayColors(prev)
	nextFg, nextBg := displayColors(next)

	if first || prevBg != nextBg {
		ref.Background.Color = nextBg
		pass.BackgroundWrites++
	}
	if first || prevFg != nextFg {
		ref.Foreground.Color = nextFg
		pass.ForegroundColorWrites++
	}
	if first || prev.Glyph != next.Glyph {
		ref.Foreground.Glyph = next.Glyph
		pass.GlyphWrites++
		if !next.Blank() {
			s.Terminal.glyphs.Note(next.Glyph)
		}
	}

	ref.Style.Cell = next
	ref.Style.Synced = true
}

// displayColors resolves reverse video and renders dim foregrounds at half
// alpha.
func displayColors(c grid.Cell) (fg, bg color.NRGBA) {
	cf, cb := c.DisplayColors()
	fg, bg = opaque(cf), opaque(cb)
	if c.Attrs.Has(grid.AttrDim) {
		fg.A = 128
	}
	return fg, bg
}

// opaque converts a grid colour, which is always fully opaque, to a sprite
// colour.
func opaque(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ResetSystem returns every cell to its rest pose and its sprites to the
// synced colours, erasing whatever effects did last frame.
type ResetSystem struct {
	Terminal *Terminal
}

func (s *ResetSystem) Name() string {
	return "ResetSystem[" + s.Terminal.Name() + "]"
}

func (s *ResetSystem) Execute(frame *ecs.UpdateFrame) {
	cells := s.Terminal.registry.Cells()
	for i := range cells {
		ref := &cells[i]
		*ref.Transform = ref.Base.Rest()
		if ref.Style.Synced {
			ref.Foreground.Color, ref.Background.Color = displayColors(ref.Style.Cell)
		}
	}
}
