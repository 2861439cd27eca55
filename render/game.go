package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/terminal"
)

// Overlay is drawn over the cells, typically a debug UI. BeginFrame and
// EndFrame bracket the scheduler pass so overlay widgets can be built by
// systems. While WantCaptureKeyboard reports true, keys are not forwarded to
// the terminals.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
	WantCaptureKeyboard() bool
}

// Game runs a scheduler from the ebiten loop. Each tick it forwards keyboard
// input to the terminals that accept it, rasterises newly seen glyphs and
// runs one frame.
type Game struct {
	Scheduler *ecs.Scheduler
	Renderer  *Renderer
	Terminals []*terminal.Terminal
	Overlay   Overlay

	// Background fills the screen before the cells are drawn. Nil leaves the
	// screen cleared.
	Background color.Color
	// BeforeFrame runs at the start of every tick. A non-nil error, such as
	// ebiten.Termination, stops the game.
	BeforeFrame func(keys *KeyState) error

	keys KeyState
}

func (g *Game) Update() error {
	PollKeys(&g.keys)
	if g.BeforeFrame != nil {
		if err := g.BeforeFrame(&g.keys); err != nil {
			return err
		}
	}
	captured := g.Overlay != nil && g.Overlay.WantCaptureKeyboard()
	if events := g.keys.Events(); len(events) > 0 && !captured {
		for _, t := range g.Terminals {
			if t.Config().ReceiveInput {
				t.Input().Push(events...)
			}
		}
	}
	if g.Renderer != nil && g.Renderer.Atlas != nil {
		g.Renderer.Atlas.Expand()
	}

	if g.Overlay != nil {
		g.Overlay.BeginFrame()
		defer g.Overlay.EndFrame()
	}
	return g.Scheduler.Once(1 / float64(ebiten.TPS()))
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.Background != nil {
		screen.Fill(g.Background)
	}
	if g.Renderer != nil {
		g.Renderer.Draw(screen)
	}
	if g.Overlay != nil {
		g.Overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
