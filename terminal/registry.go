package terminal

import (
	"fmt"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/grid"
)

// Handle names the three entities of one cell.
type Handle struct {
	Root       ecs.EntityId
	Background ecs.EntityId
	Foreground ecs.EntityId
}

// CellRef is a resolved cell. Grid entities never gain or lose components, so
// the pointers stay valid until the next rebuild or teardown.
type CellRef struct {
	Col, Row   int
	Handle     Handle
	Transform  *Transform
	Base       *BaseTransform
	Style      *CellStyle
	Background *Sprite
	Foreground *Sprite
}

// Registry owns the cell entities of one terminal, stored row-major.
type Registry struct {
	storage  *ecs.Storage
	name     string
	origin   *Point
	z        float64
	defaults grid.Defaults

	layout     Layout
	cells      []CellRef
	generation uint64
	dirty      bool
}

// NewRegistry creates an empty registry. Nothing is spawned until EnsureGrid.
func NewRegistry(storage *ecs.Storage, name string, defaults grid.Defaults) *Registry {
	return &Registry{
		storage:  storage,
		name:     name,
		defaults: defaults,
	}
}

// SetPlacement changes where the grid sits. A change takes effect on the next
// EnsureGrid, which rebuilds.
func (r *Registry) SetPlacement(origin *Point, z float64) {
	same := r.z == z && ((origin == nil && r.origin == nil) ||
		(origin != nil && r.origin != nil && *origin == *r.origin))
	if same {
		return
	}
	if origin != nil {
		o := *origin
		origin = &o
	}
	r.origin, r.z = origin, z
	r.dirty = true
}

// SetDefaults changes the colours fresh cells start with. It takes effect on
// the next rebuild.
func (r *Registry) SetDefaults(d grid.Defaults) {
	if r.defaults != d {
		r.defaults = d
		r.dirty = true
	}
}

// EnsureGrid makes sure a columns x rows grid of cells sized cellWidth x
// cellHeight exists and reports whether it had to be rebuilt.
//
// With unchanged arguments it does nothing. Otherwise the complete new set is
// spawned before the old one is removed; if any spawn fails the partial new
// set is deleted, the old grid stays in place and the error is returned.
func (r *Registry) EnsureGrid(columns, rows int, cellWidth, cellHeight float64) (bool, error) {
	if columns <= 0 || rows <= 0 || !(cellWidth > 0) || !(cellHeight > 0) {
		return false, fmt.Errorf("%w: grid %dx%d with %vx%v cells", ErrInvalidConfig, columns, rows, cellWidth, cellHeight)
	}
	if r.cells != nil && !r.dirty && r.layout.Columns == columns && r.layout.Rows == rows &&
		r.layout.CellWidth == cellWidth && r.layout.CellHeight == cellHeight {
		return false, nil
	}

	layout := newLayout(columns, rows, cellWidth, cellHeight, r.origin)
	cells := make([]CellRef, 0, columns*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			ref, err := r.spawnCell(layout, col, row)
			if err != nil {
				for _, spawned := range cells {
					r.deleteCell(spawned.Handle)
				}
				return false, fmt.Errorf("terminal: build %dx%d grid: %w", columns, rows, err)
			}
			cells = append(cells, ref)
		}
	}

	for _, old := range r.cells {
		r.deleteCell(old.Handle)
	}
	r.layout = layout
	r.cells = cells
	r.generation++
	r.dirty = false
	return true, nil
}

func (r *Registry) spawnCell(layout Layout, col, row int) (CellRef, error) {
	var h Handle
	var err error
	fail := func() (CellRef, error) {
		r.deleteCell(h)
		return CellRef{}, err
	}

	h.Background, err = r.storage.TrySpawn(
		BackgroundSprite{},
		Parent{},
		Sprite{Color: opaque(r.defaults.Bg), Width: layout.CellWidth + 0.5, Height: layout.CellHeight + 0.5, Z: r.z - 0.1},
	)
	if err != nil {
		return fail()
	}
	h.Foreground, err = r.storage.TrySpawn(
		ForegroundSprite{},
		Parent{},
		Sprite{Color: opaque(r.defaults.Fg), Glyph: " ", Width: layout.CellWidth, Height: layout.CellHeight, Z: r.z},
	)
	if err != nil {
		return fail()
	}

	center := layout.CellCenter(col, row)
	base := BaseTransform{X: center.X, Y: center.Y, Scale: 1}
	h.Root, err = r.storage.TrySpawn(
		TerminalCell{Terminal: r.name},
		GridPosition{Col: col, Row: row},
		base,
		base.Rest(),
		CellStyle{Cell: grid.EmptyCell(r.defaults)},
		CellVisuals{Background: h.Background, Foreground: h.Foreground},
	)
	if err != nil {
		return fail()
	}

	ecs.ReadComponent[Parent](r.storage, h.Background).Root = h.Root
	ecs.ReadComponent[Parent](r.storage, h.Foreground).Root = h.Root

	return CellRef{
		Col:        col,
		Row:        row,
		Handle:     h,
		Transform:  ecs.ReadComponent[Transform](r.storage, h.Root),
		Base:       ecs.ReadComponent[BaseTransform](r.storage, h.Root),
		Style:      ecs.ReadComponent[CellStyle](r.storage, h.Root),
		Background: ecs.ReadComponent[Sprite](r.storage, h.Background),
		Foreground: ecs.ReadComponent[Sprite](r.storage, h.Foreground),
	}, nil
}

func (r *Registry) deleteCell(h Handle) {
	for _, id := range [...]ecs.EntityId{h.Root, h.Background, h.Foreground} {
		if id != 0 {
			r.storage.Delete(id)
		}
	}
}

// HandleAt returns the handle of (col, row); ok is false outside the grid.
func (r *Registry) HandleAt(col, row int) (Handle, bool) {
	ref, ok := r.CellAt(col, row)
	if !ok {
		return Handle{}, false
	}
	return ref.Handle, true
}

// CellAt returns the resolved cell at (col, row).
func (r *Registry) CellAt(col, row int) (*CellRef, bool) {
	if col < 0 || row < 0 || col >= r.layout.Columns || row >= r.layout.Rows || r.cells == nil {
		return nil, false
	}
	return &r.cells[row*r.layout.Columns+col], true
}

// Cells returns every cell in row-major order. The slice is owned by the
// registry and replaced on rebuild.
func (r *Registry) Cells() []CellRef {
	return r.cells
}

// Len is the number of live handles.
func (r *Registry) Len() int {
	return len(r.cells)
}

// Dimensions returns the current grid size, zero before the first build.
func (r *Registry) Dimensions() (columns, rows int) {
	return r.layout.Columns, r.layout.Rows
}

// Layout returns the layout the current grid was built with.
func (r *Registry) Layout() Layout {
	return r.layout
}

// Generation increments on every rebuild and teardown.
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Name is the terminal tag stamped on every root.
func (r *Registry) Name() string {
	return r.name
}

// Teardown deletes every cell entity.
func (r *Registry) Teardown() {
	if r.cells == nil {
		return
	}
	for _, ref := range r.cells {
		r.deleteCell(ref.Handle)
	}
	r.cells = nil
	r.layout = Layout{}
	r.generation++
}
