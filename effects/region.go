package effects

// Rect is a block of cells covering [Col, Col+Width) x [Row, Row+Height).
type Rect struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Contains reports whether the cell lies inside the rectangle. Rectangles
// with a zero or negative size contain nothing.
func (r Rect) Contains(col, row int) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return col >= r.Col && col < r.Col+r.Width && row >= r.Row && row < r.Row+r.Height
}

// Region selects the cells an effect touches. An empty Include selects every
// cell; Exclude always wins over Include. Cells are tested whole, and
// negative coordinates are only ever selected by an empty Include.
type Region struct {
	Include []Rect
	Exclude []Rect
}

// All selects every cell.
func All() Region {
	return Region{}
}

// FullScreen selects a columns x rows grid anchored at the origin.
func FullScreen(columns, rows int) Region {
	return Only(Rect{Width: columns, Height: rows})
}

// Only selects the cells inside any of rects.
func Only(rects ...Rect) Region {
	return Region{Include: rects}
}

// Except selects every cell outside all of rects.
func Except(rects ...Rect) Region {
	return Region{Exclude: rects}
}

// Excluding returns a copy of r with rects added to its exclusions.
func (r Region) Excluding(rects ...Rect) Region {
	exclude := make([]Rect, 0, len(r.Exclude)+len(rects))
	exclude = append(exclude, r.Exclude...)
	return Region{Include: r.Include, Exclude: append(exclude, rects...)}
}

// Contains reports whether the effect applies to the cell.
func (r Region) Contains(col, row int) bool {
	for _, rect := range r.Exclude {
		if rect.Contains(col, row) {
			return false
		}
	}
	if len(r.Include) == 0 {
		return true
	}
	for _, rect := range r.Include {
		if rect.Contains(col, row) {
			return true
		}
	}
	return false
}
