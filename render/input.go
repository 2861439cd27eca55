package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/termfx/terminal"
)

var ebitenKeys = map[ebiten.Key]terminal.Key{
	ebiten.KeyEnter:       terminal.KeyEnter,
	ebiten.KeyNumpadEnter: terminal.KeyEnter,
	ebiten.KeyEscape:      terminal.KeyEscape,
	ebiten.KeyTab:         terminal.KeyTab,
	ebiten.KeyBackspace:   terminal.KeyBackspace,
	ebiten.KeyDelete:      terminal.KeyDelete,
	ebiten.KeyInsert:      terminal.KeyInsert,
	ebiten.KeyHome:        terminal.KeyHome,
	ebiten.KeyEnd:         terminal.KeyEnd,
	ebiten.KeyPageUp:      terminal.KeyPageUp,
	ebiten.KeyPageDown:    terminal.KeyPageDown,
	ebiten.KeyArrowUp:     terminal.KeyUp,
	ebiten.KeyArrowDown:   terminal.KeyDown,
	ebiten.KeyArrowLeft:   terminal.KeyLeft,
	ebiten.KeyArrowRight:  terminal.KeyRight,
	ebiten.KeyF1:          terminal.KeyF1,
	ebiten.KeyF2:          terminal.KeyF2,
	ebiten.KeyF3:          terminal.KeyF3,
	ebiten.KeyF4:          terminal.KeyF4,
	ebiten.KeyF5:          terminal.KeyF5,
	ebiten.KeyF6:          terminal.KeyF6,
	ebiten.KeyF7:          terminal.KeyF7,
	ebiten.KeyF8:          terminal.KeyF8,
	ebiten.KeyF9:          terminal.KeyF9,
	ebiten.KeyF10:         terminal.KeyF10,
	ebiten.KeyF11:         terminal.KeyF11,
	ebiten.KeyF12:         terminal.KeyF12,
}

// KeyState is one frame of keyboard input.
type KeyState struct {
	Pressed  []ebiten.Key
	Repeated []ebiten.Key
	Released []ebiten.Key
	// Chars are the characters typed this frame.
	Chars []rune
	Mods  terminal.ModMask
}

const (
	repeatDelay    = 30
	repeatInterval = 3
)

// PollKeys reads the keyboard state of the current tick.
func PollKeys(state *KeyState) {
	state.Pressed = inpututil.AppendJustPressedKeys(state.Pressed[:0])
	state.Released = inpututil.AppendJustReleasedKeys(state.Released[:0])
	state.Chars = ebiten.AppendInputChars(state.Chars[:0])

	state.Repeated = state.Repeated[:0]
	for k := range ebitenKeys {
		d := inpututil.KeyPressDuration(k)
		if d > repeatDelay && (d-repeatDelay)%repeatInterval == 0 {
			state.Repeated = append(state.Repeated, k)
		}
	}

	state.Mods = terminal.ModNone
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		state.Mods |= terminal.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		state.Mods |= terminal.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		state.Mods |= terminal.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		state.Mods |= terminal.ModMeta
	}
}

// Events translates a frame of keyboard input. Typed characters become
// KeyRune presses; with Ctrl held, letter keys become control runes the way
// terminals report them.
func (s KeyState) Events() []terminal.Event {
	var events []terminal.Event
	special := func(kind terminal.EventKind, keys []ebiten.Key) {
		for _, k := range keys {
			key, ok := ebitenKeys[k]
			if !ok && kind == terminal.KeyPress && s.Mods&terminal.ModCtrl != 0 {
				if r, letter := letterRune(k); letter {
					events = append(events, terminal.Event{Kind: kind, Key: terminal.KeyRune, Rune: r, Mods: s.Mods})
				}
				continue
			}
			if !ok {
				continue
			}
			if key == terminal.KeyTab && s.Mods&terminal.ModShift != 0 {
				key = terminal.KeyBacktab
			}
			events = append(events, terminal.Event{Kind: kind, Key: key, Mods: s.Mods})
		}
	}
	special(terminal.KeyPress, s.Pressed)
	special(terminal.KeyRepeat, s.Repeated)
	for _, r := range s.Chars {
		events = append(events, terminal.Event{Kind: terminal.KeyPress, Key: terminal.KeyRune, Rune: r, Mods: s.Mods &^ terminal.ModShift})
	}
	special(terminal.KeyRelease, s.Released)
	return events
}

// letterRune maps KeyA..KeyZ to 'a'..'z'.
func letterRune(k ebiten.Key) (rune, bool) {
	name := k.String()
	if len(name) != 1 || name[0] < 'A' || name[0] > 'Z' {
		return 0, false
	}
	return rune(name[0]-'A') + 'a', true
}
