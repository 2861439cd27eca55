package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/terminal"
)

type rootView struct {
	*terminal.TerminalCell
	*terminal.Transform
	*terminal.CellVisuals
}

type spriteView struct {
	*terminal.Sprite
}

// Renderer draws every cell root in storage: all backgrounds first, then all
// glyphs, so displaced glyphs are never hidden behind a neighbour's
// background.
type Renderer struct {
	Atlas *Atlas
	// Camera is the world point drawn at the centre of the screen.
	Camera terminal.Point

	roots   *ecs.View[rootView]
	sprites *ecs.View[spriteView]
	pixel   *ebiten.Image
	cells   []cellDraw
}

type cellDraw struct {
	pose       terminal.Transform
	background *terminal.Sprite
	foreground *terminal.Sprite
}

// NewRenderer returns a renderer over storage.
func NewRenderer(storage *ecs.Storage, atlas *Atlas) *Renderer {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Renderer{
		Atlas:   atlas,
		roots:   ecs.NewView[rootView](storage),
		sprites: ecs.NewView[spriteView](storage),
		pixel:   pixel,
	}
}

// Draw renders the cells onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	offsetX := float64(bounds.Dx())/2 - r.Camera.X
	offsetY := float64(bounds.Dy())/2 - r.Camera.Y

	r.cells = r.cells[:0]
	for root := range r.roots.Values() {
		var bg, fg spriteView
		if !r.sprites.Fill(root.Background, &bg) || !r.sprites.Fill(root.Foreground, &fg) {
			continue
		}
		pose := *root.Transform
		pose.X += offsetX
		pose.Y += offsetY
		r.cells = append(r.cells, cellDraw{pose: pose, background: bg.Sprite, foreground: fg.Sprite})
	}

	for _, c := range r.cells {
		if c.background.Color.A == 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(c.pose, c.background.Width, c.background.Height, 1, 1)
		op.ColorScale.ScaleWithColor(c.background.Color)
		screen.DrawImage(r.pixel, op)
	}

	for _, c := range r.cells {
		if c.foreground.Color.A == 0 || r.Atlas == nil {
			continue
		}
		img := r.Atlas.Image(c.foreground.Glyph)
		if img == nil {
			continue
		}
		size := img.Bounds()
		cols := max(size.Dx()/r.Atlas.cellW, 1)
		pose := c.pose
		pose.X += float64(cols-1) * c.foreground.Width / 2 * pose.Scale

		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM = spriteGeoM(pose, c.foreground.Width*float64(cols), c.foreground.Height, float64(size.Dx()), float64(size.Dy()))
		op.ColorScale.ScaleWithColor(c.foreground.Color)
		screen.DrawImage(img, op)
	}
}

// spriteGeoM maps a srcW x srcH image onto a width x height quad centred on
// the pose, scaled and rotated about its centre.
func spriteGeoM(pose terminal.Transform, width, height, srcW, srcH float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-srcW/2, -srcH/2)
	g.Scale(width/srcW, height/srcH)
	g.Scale(pose.Scale, pose.Scale)
	g.Rotate(pose.Rotation)
	g.Translate(pose.X, pose.Y)
	return g
}
