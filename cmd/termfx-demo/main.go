// Command termfx-demo browses the built-in effects on an 80x24 terminal
// rendered with ebiten.
package main

import (
	"flag"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/termfx"
	"github.com/plus3/termfx/debugui"
	debugui_ebiten "github.com/plus3/termfx/debugui/ebiten"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/plus3/termfx/render"
	"github.com/plus3/termfx/terminal"
)

func main() {
	columns := flag.Int("cols", 80, "Terminal columns.")
	rows := flag.Int("rows", 24, "Terminal rows.")
	fontSize := flag.Float64("font", 20, "Font size in pixels.")
	presetPath := flag.String("preset", "", "JSON preset declared with the p key.")
	debug := flag.Bool("debug", false, "Show the ImGui inspector.")
	withHUD := flag.Bool("hud", true, "Show a second terminal under the main one.")
	flag.Parse()

	var preset *effects.Preset
	if *presetPath != "" {
		data, err := os.ReadFile(*presetPath)
		if err != nil {
			log.Fatalf("Failed to read preset: %v", err)
		}
		if preset, err = effects.LoadPreset(data); err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		log.Printf("Loaded preset %q with %d effects\n", preset.Name, len(preset.Entries))
	}

	font, err := render.NewFont(*fontSize)
	if err != nil {
		log.Fatal(err)
	}

	registry := ecs.NewComponentRegistry()
	termfx.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	glyphs := terminal.NewGlyphSet()
	cfg := terminal.DefaultConfig()
	cfg.Columns, cfg.Rows = *columns, *rows
	cfg.FontSize = *fontSize

	mainPlugin := termfx.New(cfg, terminal.WithCellSizer(render.CellSizeFor), terminal.WithGlyphSink(glyphs))
	term, err := mainPlugin.Install(storage, scheduler)
	if err != nil {
		log.Fatalf("Failed to install terminal: %v", err)
	}
	terminals := []*terminal.Terminal{term}

	var targets []string
	if *withHUD {
		layout := term.Layout()
		_, height := layout.Size()
		hudCfg := cfg
		hudCfg.Name = "hud"
		hudCfg.Rows = 1
		hudCfg.ReceiveInput = false
		hudCfg.Origin = &terminal.Point{X: layout.Origin.X, Y: layout.Origin.Y + height + layout.CellHeight}

		hudPlugin := termfx.New(hudCfg, terminal.WithCellSizer(render.CellSizeFor), terminal.WithGlyphSink(glyphs))
		hudTerm, err := hudPlugin.Install(storage, scheduler)
		if err != nil {
			log.Fatalf("Failed to install hud: %v", err)
		}
		hudPlugin.AppTick(&hud{term: hudTerm})
		terminals = append(terminals, hudTerm)
		targets = append(targets, hudCfg.Name)
	}

	b := newBrowser(term, preset, targets...)
	mainPlugin.AppTick(b)

	width, height := windowSize(terminals)
	game := &render.Game{
		Scheduler:  scheduler,
		Renderer:   render.NewRenderer(storage, render.NewAtlas(font, glyphs)),
		Terminals:  terminals,
		Background: color.NRGBA{R: 12, G: 12, B: 16, A: 255},
		BeforeFrame: func(*render.KeyState) error {
			if b.quit {
				return ebiten.Termination
			}
			return nil
		},
	}

	if *debug {
		backend := debugui_ebiten.New("termfx demo", width+480, height)
		game.Overlay = backend
		debugui.NewInspector(scheduler, terminals...).Install()
	} else {
		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle("termfx demo")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Printf("Running %dx%d terminal at %.0fpx\n", *columns, *rows, *fontSize)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// windowSize fits every terminal with a margin, assuming they are placed
// around the world origin the renderer centres on.
func windowSize(terminals []*terminal.Terminal) (int, int) {
	var extentX, extentY float64
	for _, t := range terminals {
		l := t.Layout()
		w, h := l.Size()
		extentX = max(extentX, math.Abs(l.Origin.X), math.Abs(l.Origin.X+w))
		extentY = max(extentY, math.Abs(l.Origin.Y), math.Abs(l.Origin.Y+h))
	}
	const margin = 40
	return int(2*extentX) + margin, int(2*extentY) + margin
}
