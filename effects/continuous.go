package effects

import (
	"math"

	"github.com/kamstrup/intmap"
)

// Wave bobs cells vertically with a travelling sine.
type Wave struct {
	Amplitude float64
	// Frequency is in radians per second.
	Frequency float64
	// PhaseOffset is the phase step between neighbouring columns, or rows
	// when Vertical is set. Negative offsets travel right or down.
	PhaseOffset float64
	Vertical    bool
}

// DefaultWave returns a 5px wave travelling right, one crest every 8 cells.
func DefaultWave() Wave {
	return Wave{Amplitude: 5, Frequency: 8 * math.Pi, PhaseOffset: -2 * math.Pi / 8}
}

func (Wave) Name() string { return "wave" }

func (w Wave) Delta(f *Frame, c Cell) Delta {
	axis := c.Col
	if w.Vertical {
		axis = c.Row
	}
	return Delta{DY: w.Amplitude * math.Sin(w.Frequency*f.Time+float64(axis)*w.PhaseOffset)}
}

// Ripple sends damped rings out of a centre cell.
type Ripple struct {
	CenterCol  float64
	CenterRow  float64
	Amplitude  float64
	Wavelength float64
	// Speed is in wavelengths per second.
	Speed   float64
	Damping float64

	phase float64
}

// DefaultRipple returns a ripple centred on an 80x24 grid.
func DefaultRipple() *Ripple {
	return &Ripple{CenterCol: 40, CenterRow: 12, Amplitude: 8, Wavelength: 6, Speed: 10, Damping: 0.1}
}

func (*Ripple) Name() string { return "ripple" }

// Phase is the ring phase in wavelengths.
func (r *Ripple) Phase() float64 { return r.phase }

func (r *Ripple) Step(f *Frame) {
	r.phase += r.Speed * f.Dt
}

func (r *Ripple) Delta(_ *Frame, c Cell) Delta {
	d := math.Hypot(float64(c.Col)-r.CenterCol, float64(c.Row)-r.CenterRow)
	return Delta{DY: r.Amplitude * math.Sin(2*math.Pi*(d/r.Wavelength-r.phase)) * math.Exp(-r.Damping*d)}
}

// Breathe pulses cell scale, staggered across the grid.
type Breathe struct {
	Amplitude   float64
	Frequency   float64
	PhaseSpread float64
}

// DefaultBreathe swings scale between 0.8 and 1.2 one and a half times a
// second.
func DefaultBreathe() Breathe {
	return Breathe{Amplitude: 0.2, Frequency: 3 * math.Pi, PhaseSpread: 0.3}
}

func (Breathe) Name() string { return "breathe" }

func (b Breathe) Delta(f *Frame, c Cell) Delta {
	phase := b.PhaseSpread * (0.7*float64(c.Col) + 1.1*float64(c.Row))
	return Delta{Scale: b.Amplitude * math.Sin(b.Frequency*f.Time+phase)}
}

// Jitter shakes every cell by a random offset that changes each slot.
type Jitter struct {
	Amplitude float64
	// Rate is slots per second. Zero changes the offset every frame.
	Rate        float64
	MaxRotation float64
}

// DefaultJitter returns a 3px shake changing twenty times a second.
func DefaultJitter() Jitter {
	return Jitter{Amplitude: 3, Rate: 20, MaxRotation: 0.05}
}

func (Jitter) Name() string { return "jitter" }

func (j Jitter) slot(f *Frame) uint32 {
	if j.Rate > 0 {
		return uint32(math.Floor(f.Time * j.Rate))
	}
	return uint32(f.Count)
}

func (j Jitter) Delta(f *Frame, c Cell) Delta {
	cell := cellKey(c, f.Seed)
	slot := j.slot(f)
	return Delta{
		DX:       signed(Hash(cell, slot)) * j.Amplitude,
		DY:       signed(Hash(cell, slot+3571)) * j.Amplitude,
		Rotation: signed(Hash(cell, slot+6947)) * j.MaxRotation,
	}
}

// Glitch tears random rows sideways.
type Glitch struct {
	MaxOffset float64
	// Intensity is the share of rows displaced in each slot.
	Intensity float64
	// Frequency is slots per second.
	Frequency float64
}

// DefaultGlitch tears about a third of the rows eight times a second.
func DefaultGlitch() Glitch {
	return Glitch{MaxOffset: 30, Intensity: 0.3, Frequency: 8}
}

func (Glitch) Name() string { return "glitch" }

func (g Glitch) Delta(f *Frame, c Cell) Delta {
	slot := uint32(math.Floor(f.Time * g.Frequency))
	row := uint32(c.Row)
	if unit(Hash(row, slot^f.Seed), 1000) >= g.Intensity {
		return Delta{}
	}
	return Delta{DX: signed(Hash(row, (slot+7919)^f.Seed)) * g.MaxOffset}
}

type body struct {
	vx, vy float64
	x, y   float64
}

// Gravity accelerates every cell; velocity and offset persist per cell for
// as long as the instance lives.
type Gravity struct {
	AX, AY float64
	// Damping is the share of velocity lost per second.
	Damping float64

	dt     float64
	cells  int
	bodies *intmap.Map[int, body]
}

// DefaultGravity pulls cells down at 200px/s².
func DefaultGravity() *Gravity {
	return &Gravity{AY: 200}
}

func (*Gravity) Name() string { return "gravity" }

func (g *Gravity) Step(f *Frame) {
	g.dt = f.Dt
	if cells := f.Columns * f.Rows; g.bodies == nil || cells != g.cells {
		g.cells = cells
		g.bodies = intmap.New[int, body](cells)
	}
}

// Offset returns the accumulated offset of the cell at index.
func (g *Gravity) Offset(index int) (x, y float64) {
	if g.bodies == nil {
		return 0, 0
	}
	b, _ := g.bodies.Get(index)
	return b.x, b.y
}

func (g *Gravity) Delta(_ *Frame, c Cell) Delta {
	b, _ := g.bodies.Get(c.Index)
	b.vx += g.AX * g.dt
	b.vy += g.AY * g.dt
	if g.Damping > 0 {
		keep := math.Pow(1-math.Min(g.Damping, 1), g.dt)
		b.vx *= keep
		b.vy *= keep
	}
	b.x += b.vx * g.dt
	b.y += b.vy * g.dt
	g.bodies.Put(c.Index, b)
	return Delta{DX: b.x, DY: b.y}
}

// Bubbly makes a scattered subset of cells swell and shrink.
type Bubbly struct {
	// Speed is in pulses per second.
	Speed float64
	// Density is the share of cells that pulse.
	Density  float64
	MaxScale float64
}

// DefaultBubbly pulses 15% of the cells up to 1.4x.
func DefaultBubbly() Bubbly {
	return Bubbly{Speed: 0.8, Density: 0.15, MaxScale: 1.4}
}

func (Bubbly) Name() string { return "bubbly" }

func (b Bubbly) Delta(f *Frame, c Cell) Delta {
	h := cellKey(c, f.Seed)
	if unit(h, 1000) >= b.Density {
		return Delta{}
	}
	phase := unit(h, 10000) * 2 * math.Pi
	wave := math.Sin(f.Time*b.Speed*2*math.Pi + phase)
	return Delta{Scale: (b.MaxScale - 1) * (wave + 1) / 2}
}
