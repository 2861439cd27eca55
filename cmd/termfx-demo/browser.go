package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/plus3/termfx/terminal"
)

var sample = []string{
	"The terminal below is a grid of entities. Every cell is a root with a",
	"background and a glyph sprite; effects move them, the sync pass only",
	"writes what the application changed.",
	"",
	"  ┌──────────────┐   日本語 wide glyphs keep their two columns.",
	"  │ termfx  demo │   ░▒▓█ block shades, ★ ♥ ♦ symbols.",
	"  └──────────────┘",
}

var (
	styleText     = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

type instanceRow struct {
	ecs.EntityId
	*effects.Instance
}

// browser lists the registered effect kinds and declares the selected one.
type browser struct {
	Instances ecs.Query[instanceRow]

	term    *terminal.Terminal
	kinds   []string
	preset  *effects.Preset
	targets []string

	selected int
	target   int
	status   string
	quit     bool
}

func newBrowser(term *terminal.Terminal, preset *effects.Preset, targets ...string) *browser {
	return &browser{
		term:    term,
		kinds:   effects.Kinds(),
		preset:  preset,
		targets: append([]string{""}, targets...),
		status:  "Enter declares the selected effect",
	}
}

func (b *browser) Name() string { return "browser" }

func (b *browser) Execute(frame *ecs.UpdateFrame) {
	for _, ev := range b.term.Input().Drain() {
		if ev.Kind != terminal.KeyPress && ev.Kind != terminal.KeyRepeat {
			continue
		}
		b.handle(frame, ev)
	}
	frame.Fail(b.term.Draw(func(screen tcell.Screen) error {
		b.draw(screen, frame)
		return nil
	}))
}

func (b *browser) handle(frame *ecs.UpdateFrame, ev terminal.Event) {
	switch {
	case ev.Key == terminal.KeyEscape || (ev.Key == terminal.KeyRune && ev.Rune == 'q' && ev.Mods&terminal.ModCtrl != 0):
		b.quit = true
	case ev.Key == terminal.KeyUp:
		b.selected = (b.selected + len(b.kinds) - 1) % len(b.kinds)
	case ev.Key == terminal.KeyDown:
		b.selected = (b.selected + 1) % len(b.kinds)
	case ev.Key == terminal.KeyTab:
		b.target = (b.target + 1) % len(b.targets)
		b.status = "Target: " + targetName(b.targets[b.target])
	case ev.Key == terminal.KeyEnter:
		b.declare(frame, b.kinds[b.selected])
	case ev.Key == terminal.KeyBackspace || ev.Key == terminal.KeyDelete:
		b.clear(frame)
	case ev.Key == terminal.KeyRune && ev.Rune == 'p':
		if b.preset == nil {
			b.status = "No preset loaded"
			return
		}
		if err := b.preset.Declare(frame.Commands); err != nil {
			b.status = err.Error()
			return
		}
		b.status = fmt.Sprintf("Declared preset %q", b.preset.Name)
	}
}

func (b *browser) declare(frame *ecs.UpdateFrame, kind string) {
	effect, err := effects.New(kind, "")
	if err != nil {
		b.status = err.Error()
		return
	}
	target := b.targets[b.target]
	effects.Declare(frame.Commands, effect, effects.All(), effects.WithTarget(target))
	b.status = fmt.Sprintf("Declared %s on %s", kind, targetName(target))
}

func (b *browser) clear(frame *ecs.UpdateFrame) {
	n := 0
	for id := range b.Instances.Iter() {
		frame.Commands.Delete(id)
		n++
	}
	b.status = fmt.Sprintf("Removed %d effects", n)
}

func (b *browser) draw(screen tcell.Screen, frame *ecs.UpdateFrame) {
	screen.Clear()
	w, h := screen.Size()

	put(screen, 1, 0, "termfx effects browser", styleTitle)
	put(screen, w-22, 0, fmt.Sprintf("frame %d", frame.Frame), styleDim)

	for i, line := range sample {
		put(screen, 1, 2+i, line, styleText)
	}

	top := 3 + len(sample)
	put(screen, 1, top, "Effects", styleTitle)
	perColumn := max(h-top-4, 1)
	for i, kind := range b.kinds {
		col := 1 + (i/perColumn)*16
		row := top + 1 + i%perColumn
		style := styleText
		if i == b.selected {
			style = styleSelected
		}
		put(screen, col, row, fmt.Sprintf(" %-12s ", kind), style)
	}

	active := 0
	for range b.Instances.Values() {
		active++
	}
	help := "↑↓ select  Enter declare  Tab target  p preset  Del clear  Esc quit"
	put(screen, 1, h-2, help, styleDim)
	line := fmt.Sprintf(" %s | %d active ", b.status, active)
	for x := 0; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	put(screen, 0, h-1, line, styleStatus)
}

// put writes s from (col, row), advancing by each rune's width.
func put(screen tcell.Screen, col, row int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(col, row, r, nil, style)
		col += max(runewidth.RuneWidth(r), 1)
	}
}

func targetName(target string) string {
	if target == "" {
		return "main"
	}
	return target
}

// hud is a one-line second terminal showing frame timing.
type hud struct {
	term *terminal.Terminal
	fps  float64
}

func (h *hud) Name() string { return "hud" }

func (h *hud) Execute(frame *ecs.UpdateFrame) {
	if frame.DeltaTime > 0 {
		h.fps = h.fps*0.9 + 0.1/frame.DeltaTime
	}
	frame.Fail(h.term.Draw(func(screen tcell.Screen) error {
		screen.Clear()
		put(screen, 0, 0, fmt.Sprintf("%5.1f fps  cells %d", h.fps, h.term.Registry().Len()), styleDim)
		return nil
	}))
}
