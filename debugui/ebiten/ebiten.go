// Package ebiten hosts the Dear ImGui panels in an ebiten game as a
// render.Overlay.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/termfx/render"
)

// ImguiBackend wraps the ebiten ImGui backend.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

var _ render.Overlay = ImguiBackend{}

// New creates the backend and its window. ImGui's ini file is disabled so
// panel layout is not persisted.
func New(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

func (b ImguiBackend) BeginFrame() { b.EbitenBackend.BeginFrame() }

func (b ImguiBackend) EndFrame() { b.EbitenBackend.EndFrame() }

func (b ImguiBackend) Draw(screen *ebiten.Image) { b.EbitenBackend.Draw(screen) }

func (b ImguiBackend) Layout(width, height int) {
	b.EbitenBackend.Layout(width, height)
}

func (b ImguiBackend) WantCaptureKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}
