// Package terminal turns a tcell screen into a grid of ECS cell entities:
// one root per cell carrying its pose, plus a background and a glyph sprite.
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/grid"
)

// Terminal is the shared state of one grid: the tcell screen the application
// draws into, the cell registry and the input queue. The screen is guarded by
// a mutex held for the whole of Draw and while Sync reads it.
type Terminal struct {
	mu         sync.Mutex
	config     Config
	layout     Layout
	sizer      CellSizer
	screen     tcell.Screen
	buffer     *grid.ScreenBuffer
	generation uint64

	registry *Registry
	input    *InputQueue
	glyphs   *GlyphSet
	lastSync SyncStats
}

// Option customises New.
type Option func(*Terminal)

// WithScreen draws into screen instead of a fresh simulation screen. The
// screen must already be initialised.
func WithScreen(screen tcell.Screen) Option {
	return func(t *Terminal) { t.screen = screen }
}

// WithCellSizer measures cells from font metrics instead of the approximation.
func WithCellSizer(sizer CellSizer) Option {
	return func(t *Terminal) { t.sizer = sizer }
}

// WithGlyphSink shares a glyph set between terminals, typically the one the
// renderer's atlas drains.
func WithGlyphSink(glyphs *GlyphSet) Option {
	return func(t *Terminal) { t.glyphs = glyphs }
}

// New validates config and prepares a terminal whose cells live in storage.
// Cells are spawned by the first Sync pass.
func New(storage *ecs.Storage, config Config, opts ...Option) (*Terminal, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	t := &Terminal{
		config: config,
		input:  &InputQueue{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.glyphs == nil {
		t.glyphs = NewGlyphSet()
	}
	if t.screen == nil {
		sim := tcell.NewSimulationScreen("UTF-8")
		if err := sim.Init(); err != nil {
			return nil, fmt.Errorf("terminal: init screen: %w", err)
		}
		t.screen = sim
	}

	t.registry = NewRegistry(storage, config.Name, config.Defaults())
	t.apply(config)
	return t, nil
}

func (t *Terminal) apply(config Config) {
	t.config = config
	t.layout = LayoutFor(config, t.sizer)
	t.buffer = grid.NewScreenBuffer(t.screen, config.Defaults())
	if sim, ok := t.screen.(tcell.SimulationScreen); ok {
		sim.SetSize(config.Columns, config.Rows)
	}
	t.registry.SetPlacement(config.Origin, config.Z)
	t.registry.SetDefaults(config.Defaults())
}

// Draw runs fn with exclusive access to the screen. A successful draw marks
// the buffer as changed so the next Sync pass diffs it; a failed one returns
// the error and changes nothing.
func (t *Terminal) Draw(fn func(screen tcell.Screen) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(t.screen); err != nil {
		return fmt.Errorf("terminal: draw: %w", err)
	}
	t.screen.Show()
	t.generation++
	return nil
}

// Reconfigure swaps in a new config. The registry rebuilds on the next Sync
// pass when dimensions, cell size or placement changed.
func (t *Terminal) Reconfigure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if config.Name != t.config.Name {
		return fmt.Errorf("%w: a terminal cannot be renamed", ErrInvalidConfig)
	}
	t.apply(config)
	t.generation++
	return nil
}

// Config returns the active configuration.
func (t *Terminal) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}

// Layout returns the layout derived from the active configuration.
func (t *Terminal) Layout() Layout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.layout
}

// Name is the terminal's tag.
func (t *Terminal) Name() string {
	return t.config.Name
}

// Generation increments on every successful Draw and Reconfigure.
func (t *Terminal) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Registry returns the cell registry.
func (t *Terminal) Registry() *Registry {
	return t.registry
}

// Input returns the queue input sources push onto.
func (t *Terminal) Input() *InputQueue {
	return t.input
}

// Glyphs returns the set of glyphs the sync pass has reported.
func (t *Terminal) Glyphs() *GlyphSet {
	return t.glyphs
}

// LastSync returns the counters of the most recent Sync pass.
func (t *Terminal) LastSync() SyncStats {
	return t.lastSync
}

// DrawSystem returns an AppTick system that calls draw every frame and fails
// the frame when it errors.
func DrawSystem(t *Terminal, draw func(frame *ecs.UpdateFrame, screen tcell.Screen) error) ecs.System {
	return ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Fail(t.Draw(func(screen tcell.Screen) error {
			return draw(frame, screen)
		}))
	})
}
