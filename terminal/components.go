package terminal

import (
	"image/color"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/grid"
)

// TerminalCell marks a cell root and names the terminal it belongs to.
type TerminalCell struct {
	Terminal string
}

// GridPosition is the cell's coordinate. It never changes.
type GridPosition struct {
	Col, Row int
}

// BaseTransform is the rest pose a cell returns to every frame.
type BaseTransform struct {
	X, Y     float64
	Rotation float64
	Scale    float64
}

// Transform is the pose effects accumulate into. Rotation is in radians.
type Transform struct {
	X, Y     float64
	Rotation float64
	Scale    float64
}

// Rest returns the base pose as a transform.
func (b BaseTransform) Rest() Transform {
	return Transform(b)
}

// CellStyle caches the last cell value written to the sprites.
type CellStyle struct {
	Cell   grid.Cell
	Synced bool
}

// Sprite is a coloured quad, optionally textured with a glyph.
type Sprite struct {
	Color  color.NRGBA
	Glyph  string
	Width  float64
	Height float64
	Z      float64
}

// BackgroundSprite marks the background child of a cell.
type BackgroundSprite struct{}

// ForegroundSprite marks the glyph child of a cell.
type ForegroundSprite struct{}

// Parent links a sprite to its cell root.
type Parent struct {
	Root ecs.EntityId
}

// CellVisuals links a root to its two sprites.
type CellVisuals struct {
	Background ecs.EntityId
	Foreground ecs.EntityId
}

// RegisterComponents registers every component type this package spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[TerminalCell](registry)
	ecs.RegisterComponent[GridPosition](registry)
	ecs.RegisterComponent[BaseTransform](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[CellStyle](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[BackgroundSprite](registry)
	ecs.RegisterComponent[ForegroundSprite](registry)
	ecs.RegisterComponent[Parent](registry)
	ecs.RegisterComponent[CellVisuals](registry)
}
