package terminal

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/grid"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("terminal: invalid config")

// Frame stages, in run order. Leave gaps so applications can slot their own
// stages in between.
const (
	StageAppTick         ecs.Stage = 100
	StageSync            ecs.Stage = 200
	StageResetTransforms ecs.Stage = 300
	StageEffects         ecs.Stage = 400
)

// Point is a position in world space. +Y points down.
type Point struct {
	X, Y float64
}

// Config describes one terminal grid.
type Config struct {
	// Name tags the terminal's entities and effect targets. Empty is the
	// default terminal.
	Name string

	Columns int
	Rows    int

	// FontSize is the glyph rasterisation size in pixels.
	FontSize float64
	// CellWidth and CellHeight override the cell size derived from FontSize.
	// Zero derives both.
	CellWidth  float64
	CellHeight float64

	DefaultFg color.RGBA
	DefaultBg color.RGBA

	// Origin is the top-left corner of the grid. Nil centres the grid on the
	// world origin.
	Origin *Point
	Z      float64

	ReceiveInput bool
}

// DefaultConfig returns an 80x24 grid at 20px.
func DefaultConfig() Config {
	d := grid.DefaultColors()
	return Config{
		Columns:      80,
		Rows:         24,
		FontSize:     20,
		DefaultFg:    d.Fg,
		DefaultBg:    d.Bg,
		ReceiveInput: true,
	}
}

// Defaults returns the configured colours as grid defaults.
func (c Config) Defaults() grid.Defaults {
	return grid.Defaults{Fg: c.DefaultFg, Bg: c.DefaultBg}
}

func badFloat(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.Columns <= 0:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidConfig, c.Columns)
	case c.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, c.Rows)
	case c.FontSize <= 0 || badFloat(c.FontSize):
		return fmt.Errorf("%w: font size must be positive, got %v", ErrInvalidConfig, c.FontSize)
	case c.CellWidth < 0 || badFloat(c.CellWidth):
		return fmt.Errorf("%w: cell width must not be negative, got %v", ErrInvalidConfig, c.CellWidth)
	case c.CellHeight < 0 || badFloat(c.CellHeight):
		return fmt.Errorf("%w: cell height must not be negative, got %v", ErrInvalidConfig, c.CellHeight)
	case (c.CellWidth == 0) != (c.CellHeight == 0):
		return fmt.Errorf("%w: cell width and height must be overridden together", ErrInvalidConfig)
	case badFloat(c.Z):
		return fmt.Errorf("%w: z must be finite", ErrInvalidConfig)
	case c.Origin != nil && (badFloat(c.Origin.X) || badFloat(c.Origin.Y)):
		return fmt.Errorf("%w: origin must be finite", ErrInvalidConfig)
	}
	return nil
}

// CellSizer measures a cell for a font size.
type CellSizer func(fontSize float64) (width, height float64)

// ApproximateCellSize assumes a monospace advance of 0.6em and a line height
// of 1.2em, rounded up to whole pixels.
func ApproximateCellSize(fontSize float64) (float64, float64) {
	return math.Ceil(fontSize * 0.6), math.Ceil(fontSize * 1.2)
}

// Layout is derived from a Config.
type Layout struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	Origin     Point
}

// LayoutFor derives the layout of c, measuring cells with sizer unless the
// config overrides them. A nil sizer uses ApproximateCellSize.
func LayoutFor(c Config, sizer CellSizer) Layout {
	cw, ch := c.CellWidth, c.CellHeight
	if cw == 0 || ch == 0 {
		if sizer == nil {
			sizer = ApproximateCellSize
		}
		cw, ch = sizer(c.FontSize)
	}
	return newLayout(c.Columns, c.Rows, cw, ch, c.Origin)
}

func newLayout(columns, rows int, cw, ch float64, origin *Point) Layout {
	l := Layout{
		Columns:    columns,
		Rows:       rows,
		CellWidth:  cw,
		CellHeight: ch,
	}
	if origin != nil {
		l.Origin = *origin
	} else {
		l.Origin = Point{
			X: -float64(columns) * cw / 2,
			Y: -float64(rows) * ch / 2,
		}
	}
	return l
}

// Size is the grid's extent in pixels.
func (l Layout) Size() (width, height float64) {
	return float64(l.Columns) * l.CellWidth, float64(l.Rows) * l.CellHeight
}

// CellCenter is the rest position of the cell at (col, row).
func (l Layout) CellCenter(col, row int) Point {
	return Point{
		X: l.Origin.X + (float64(col)+0.5)*l.CellWidth,
		Y: l.Origin.Y + (float64(row)+0.5)*l.CellHeight,
	}
}
