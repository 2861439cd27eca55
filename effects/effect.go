// Package effects animates terminal cells. Every live Instance is an entity
// holding one Effect and the Region it applies to. Each frame the System adds
// every instance's per-cell Delta onto the transforms the reset stage just
// restored.
package effects

import (
	"image/color"
	"math"
	"sync/atomic"

	"github.com/plus3/termfx/ecs"
)

// Effect computes a cell's displacement for one frame. Delta must depend only
// on f and c, never on what other effects did this frame.
type Effect interface {
	Delta(f *Frame, c Cell) Delta
}

// OneShot effects expire once their instance has run for Duration seconds.
type OneShot interface {
	Duration() float64
}

// Stepper effects advance private state once per frame before any cell is
// visited.
type Stepper interface {
	Step(f *Frame)
}

// Colorizer effects rewrite sprite colours. Colours reach Colorize after the
// effects declared earlier have applied theirs.
type Colorizer interface {
	Colorize(f *Frame, c Cell, fg, bg *color.NRGBA)
}

// Named effects report a kind name for inspectors.
type Named interface {
	Name() string
}

// Delta is added onto a cell's transform. Scale adds to the current scale,
// so zero leaves a cell at its size.
type Delta struct {
	DX, DY   float64
	Rotation float64
	Scale    float64
}

// Add sums two deltas.
func (d Delta) Add(o Delta) Delta {
	return Delta{DX: d.DX + o.DX, DY: d.DY + o.DY, Rotation: d.Rotation + o.Rotation, Scale: d.Scale + o.Scale}
}

// Frame is everything an effect may read while computing a delta.
type Frame struct {
	// Time is the clock of the terminal's effect system in seconds.
	Time float64
	Dt   float64
	// Count is the scheduler frame number.
	Count int64

	// Elapsed is how long this instance has run, Progress its share of a
	// one-shot's duration in [0, 1). Continuous effects see Progress 0.
	Elapsed  float64
	Progress float64

	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64

	// Seed is the instance's seed.
	Seed uint32
}

// Cell is the coordinate an effect is asked about.
type Cell struct {
	Col, Row int
	// Index is row*Columns+Col.
	Index int
	Glyph string
}

// State is an instance's lifecycle position.
type State uint8

const (
	Active State = iota
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Instance is the component of a declared effect.
type Instance struct {
	Effect  Effect
	Region  Region
	Elapsed float64
	// Order is the declaration sequence; instances apply in ascending order.
	Order  uint64
	State  State
	Target string
	Seed   uint32
}

// Kind names the instance's effect.
func (i *Instance) Kind() string {
	return KindOf(i.Effect)
}

// RegisterComponents registers the instance component.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Instance](registry)
}

// Option adjusts an instance at declaration.
type Option func(*Instance)

// WithTarget aims the instance at the terminal named target instead of the
// default terminal.
func WithTarget(target string) Option {
	return func(i *Instance) { i.Target = target }
}

// WithSeed fixes the instance seed. Without it the seed derives from the
// declaration order.
func WithSeed(seed uint32) Option {
	return func(i *Instance) { i.Seed = seed }
}

var declarations atomic.Uint64

func newInstance(effect Effect, region Region, opts []Option) Instance {
	order := declarations.Add(1)
	inst := Instance{
		Effect: effect,
		Region: region,
		Order:  order,
		Seed:   Hash(uint32(order), uint32(order>>32)^0x9e3779b9),
	}
	for _, opt := range opts {
		opt(&inst)
	}
	return inst
}

// Spawn declares effect on region immediately. The returned ref stops
// resolving once the instance ends, so holding it past a one-shot's lifetime
// is safe.
func Spawn(storage *ecs.Storage, effect Effect, region Region, opts ...Option) (ecs.EntityRef, error) {
	id, err := storage.TrySpawn(newInstance(effect, region, opts))
	if err != nil {
		return ecs.EntityRef{}, err
	}
	ref, _ := storage.CreateEntityRef(id)
	return ref, nil
}

// Declare queues the declaration on commands; the instance exists after the
// frame's flush and applies from the next frame. Declaration order is fixed
// when Declare is called.
func Declare(commands *ecs.Commands, effect Effect, region Region, opts ...Option) {
	commands.Spawn(newInstance(effect, region, opts))
}

// Get returns the instance ref points at, or nil once it has ended.
func Get(storage *ecs.Storage, ref ecs.EntityRef) *Instance {
	id, ok := storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return ecs.ReadComponent[Instance](storage, id)
}

// Remove deletes an instance at once. It reports whether ref was live; a
// stale ref never removes the instance that reused its slot.
func Remove(storage *ecs.Storage, ref ecs.EntityRef) bool {
	if Get(storage, ref) == nil {
		return false
	}
	return storage.Delete(ref.Id)
}

// Hash mixes two words into a well distributed one. Effects key it by cell
// and time slot so their noise is reproducible frame to frame.
func Hash(a, b uint32) uint32 {
	h := a*2654435761 + b*2246822519
	h ^= h >> 16
	h *= 2246822519
	h ^= h >> 13
	h *= 3266489917
	h ^= h >> 16
	return h
}

// cellKey hashes a cell's coordinates with seed, so no two cells of a grid
// share noise however wide it is.
func cellKey(c Cell, seed uint32) uint32 {
	return Hash(uint32(c.Col), uint32(c.Row)^seed)
}

// unit maps a hash onto [0, 1) with the given resolution.
func unit(h uint32, resolution uint32) float64 {
	return float64(h%resolution) / float64(resolution)
}

// signed maps a hash onto [-1, 1).
func signed(h uint32) float64 {
	return float64(h%2000)/1000 - 1
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
