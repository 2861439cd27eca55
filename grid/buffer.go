package grid

import (
	"github.com/mattn/go-runewidth"
)

// Buffer is a read-only character grid.
type Buffer interface {
	// CellAt returns the cell at (col, row). Out-of-range coordinates return
	// a blank cell in the buffer's default colours.
	CellAt(col, row int) Cell
	Dimensions() (cols, rows int)
}

// Frame is an in-memory Buffer, mostly useful for tests and headless runs.
type Frame struct {
	cols, rows int
	defaults   Defaults
	cells      []Cell
}

// NewFrame returns a cols x rows frame filled with blank cells. Negative
// dimensions are treated as zero.
func NewFrame(cols, rows int, defaults Defaults) *Frame {
	cols, rows = max(cols, 0), max(rows, 0)
	f := &Frame{
		cols:     cols,
		rows:     rows,
		defaults: defaults,
		cells:    make([]Cell, cols*rows),
	}
	f.Fill(EmptyCell(defaults))
	return f
}

func (f *Frame) inBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < f.cols && row < f.rows
}

func (f *Frame) CellAt(col, row int) Cell {
	if !f.inBounds(col, row) {
		return EmptyCell(f.defaults)
	}
	return f.cells[row*f.cols+col]
}

func (f *Frame) Dimensions() (int, int) {
	return f.cols, f.rows
}

// Defaults returns the colours blank cells are filled with.
func (f *Frame) Defaults() Defaults {
	return f.defaults
}

// Set stores c at (col, row) and reports whether the coordinate was in range.
func (f *Frame) Set(col, row int, c Cell) bool {
	if !f.inBounds(col, row) {
		return false
	}
	f.cells[row*f.cols+col] = c
	return true
}

// SetString writes s starting at (col, row) using the given style. Wide
// runes take two columns; the second one is blanked. Writing stops at the end
// of the row. It returns the number of columns consumed.
func (f *Frame) SetString(col, row int, s string, style Cell) int {
	start := col
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > f.cols {
			break
		}
		f.Set(col, row, NewCell(string(r), style.Fg, style.Bg, style.Attrs))
		if w > 1 {
			f.Set(col+1, row, NewCell(" ", style.Fg, style.Bg, style.Attrs))
		}
		col += w
	}
	return col - start
}

// Fill sets every cell to c.
func (f *Frame) Fill(c Cell) {
	for i := range f.cells {
		f.cells[i] = c
	}
}

// Clone returns an independent copy.
func (f *Frame) Clone() *Frame {
	clone := *f
	clone.cells = append([]Cell(nil), f.cells...)
	return &clone
}
