package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// EventKind distinguishes key transitions.
type EventKind uint8

const (
	KeyPress EventKind = iota
	KeyRelease
	KeyRepeat
)

// Key identifies a non-printable key. Printable input uses KeyRune with the
// character in Event.Rune.
type Key uint16

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ModMask is a set of held modifiers. KeyRune events never carry ModShift;
// the rune's case already says whether Shift was held.
type ModMask uint8

const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta

	ModNone ModMask = 0
)

// Event is one translated input event.
type Event struct {
	Kind EventKind
	Key  Key
	Rune rune
	Mods ModMask
}

// InputQueue is a FIFO of events shared between the input source and the
// application. It does not bound its length; drain it every frame.
type InputQueue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends events in order.
func (q *InputQueue) Push(events ...Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, events...)
}

// Pop removes the oldest event.
func (q *InputQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return ev, true
}

// Drain removes and returns every queued event.
func (q *InputQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// EventFromTcell translates a tcell key event into a press. Control-letter
// keys come through as KeyRune with ModCtrl set. Shift is dropped from rune
// keys, matching what tcell reports.
func EventFromTcell(ev *tcell.EventKey) Event {
	out := Event{Kind: KeyPress, Mods: modsFromTcell(ev.Modifiers())}

	if key, ok := tcellKeys[ev.Key()]; ok {
		out.Key = key
		if key == KeyRune {
			out.Rune = ev.Rune()
			out.Mods &^= ModShift
		}
		return out
	}
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out.Key = KeyRune
		out.Rune = 'a' + rune(k-tcell.KeyCtrlA)
		out.Mods |= ModCtrl
	}
	return out
}

func modsFromTcell(m tcell.ModMask) ModMask {
	var out ModMask
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}

// Tcell converts a press or repeat back into a tcell event, for applications
// that feed their own tcell event loop. Releases and unknown keys return nil.
func (e Event) Tcell() *tcell.EventKey {
	if e.Kind == KeyRelease {
		return nil
	}
	var mods tcell.ModMask
	if e.Mods&ModShift != 0 {
		mods |= tcell.ModShift
	}
	if e.Mods&ModCtrl != 0 {
		mods |= tcell.ModCtrl
	}
	if e.Mods&ModAlt != 0 {
		mods |= tcell.ModAlt
	}
	if e.Mods&ModMeta != 0 {
		mods |= tcell.ModMeta
	}

	if e.Key == KeyRune {
		return tcell.NewEventKey(tcell.KeyRune, e.Rune, mods&^tcell.ModShift)
	}
	for tk, k := range tcellKeys {
		if k == e.Key && tk != tcell.KeyBackspace {
			return tcell.NewEventKey(tk, 0, mods)
		}
	}
	return nil
}
