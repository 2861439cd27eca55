package effects

import "math"

// Collapse drops the grid row by row like a demolished wall.
type Collapse struct {
	// Gravity is the fall acceleration in px/s².
	Gravity float64
	// StaggerRow and StaggerCol delay each cell's fall by its row and column.
	StaggerRow float64
	StaggerCol float64
	Lifetime   float64
}

func DefaultCollapse() Collapse {
	return Collapse{Gravity: 800, StaggerRow: 0.05, Lifetime: 3}
}

func (Collapse) Name() string { return "collapse" }
func (c Collapse) Duration() float64 { return c.Lifetime }

func (c Collapse) Delta(f *Frame, cell Cell) Delta {
	t := f.Elapsed - c.StaggerRow*float64(cell.Row) - c.StaggerCol*float64(cell.Col)
	if t <= 0 {
		return Delta{}
	}
	return Delta{DY: 0.5 * c.Gravity * t * t}
}

// direction returns the unit vector in pixels from the centre cell to c,
// and the distance it was normalised from.
func direction(f *Frame, centerCol, centerRow float64, c Cell) (dx, dy, dist float64) {
	dx = (float64(c.Col) - centerCol) * f.CellWidth
	dy = (float64(c.Row) - centerRow) * f.CellHeight
	dist = math.Max(math.Hypot(dx, dy), 0.001)
	return dx / dist, dy / dist, dist
}

// Scatter blows cells radially away from a centre while they spin and
// shrink.
type Scatter struct {
	CenterCol float64
	CenterRow float64
	// Distance is how far, in pixels, cells travel by the end.
	Distance float64
	// Spin is in radians per second.
	Spin     float64
	Lifetime float64
}

func DefaultScatter() Scatter {
	return Scatter{CenterCol: 40, CenterRow: 12, Distance: 450, Spin: 3, Lifetime: 3}
}

func (Scatter) Name() string { return "scatter" }
func (s Scatter) Duration() float64 { return s.Lifetime }

func (s Scatter) Delta(f *Frame, c Cell) Delta {
	dx, dy, dist := direction(f, s.CenterCol, s.CenterRow, c)
	travel := s.Distance * smoothstep(0, 1, f.Progress)
	return Delta{
		DX:       dx * travel,
		DY:       dy * travel,
		Rotation: s.Spin * f.Elapsed * (1 + dist*0.001),
		Scale:    -0.8 * f.Progress,
	}
}

// Explode flings every cell outwards on its own randomised course.
type Explode struct {
	CenterCol float64
	CenterRow float64
	// Force is the mean launch speed in px/s.
	Force float64
	// Chaos in [0, 1] scales how far each cell strays from the radial
	// course, speed and shrink.
	Chaos float64
	// Decay slows cells down over the lifetime; 1 halves the final speed.
	Decay    float64
	Lifetime float64
}

func DefaultExplode() Explode {
	return Explode{CenterCol: 40, CenterRow: 12, Force: 200, Chaos: 0.5, Lifetime: 2.5}
}

func (Explode) Name() string { return "explode" }
func (e Explode) Duration() float64 { return e.Lifetime }

func (e Explode) Delta(f *Frame, c Cell) Delta {
	cell := cellKey(c, f.Seed)
	r1 := unit(Hash(cell, 111), 10000)
	r2 := unit(Hash(cell, 222), 10000)
	r3 := unit(Hash(cell, 333), 10000)
	r4 := unit(Hash(cell, 444), 10000)

	dx, dy, _ := direction(f, e.CenterCol, e.CenterRow, c)
	if dx == 0 && dy == 0 {
		dx, dy = math.Cos(r1*2*math.Pi), math.Sin(r1*2*math.Pi)
	}
	turn := (r1 - 0.5) * math.Pi * e.Chaos
	sin, cos := math.Sincos(turn)
	dx, dy = dx*cos-dy*sin, dx*sin+dy*cos

	t := f.Elapsed
	travel := e.Force * (1 + (r2-0.5)*e.Chaos) * t * (1 - e.Decay*f.Progress/2)

	spin := 2 + r3*6
	if r3 <= 0.5 {
		spin = -spin
	}
	shrink := clamp01(f.Progress + (r4-0.5)*0.3*e.Chaos)

	return Delta{DX: dx * travel, DY: dy * travel, Rotation: spin * t, Scale: -shrink}
}

// Slash sweeps a cut across the grid; cells behind the cut are pushed off
// along its normal.
type Slash struct {
	// Angle is the sweep direction in radians.
	Angle     float64
	Amplitude float64
	// Width is the band width, in cells, over which the push eases in.
	Width    float64
	Lifetime float64
}

func DefaultSlash() Slash {
	return Slash{Angle: math.Pi / 4, Amplitude: 25, Width: 6, Lifetime: 1.5}
}

func (Slash) Name() string { return "slash" }
func (s Slash) Duration() float64 { return s.Lifetime }

// Line returns the position of the cut along the sweep direction.
func (s Slash) Line(f *Frame) float64 {
	sin, cos := math.Sincos(s.Angle)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, corner := range [4][2]float64{{0, 0}, {float64(f.Columns), 0}, {0, float64(f.Rows)}, {float64(f.Columns), float64(f.Rows)}} {
		p := corner[0]*cos + corner[1]*sin
		lo, hi = math.Min(lo, p), math.Max(hi, p)
	}
	sweep := hi - lo + 2*s.Width
	return lo - s.Width + f.Progress*sweep
}

func (s Slash) Delta(f *Frame, c Cell) Delta {
	sin, cos := math.Sincos(s.Angle)
	half := s.Width / 2
	d := float64(c.Col)*cos + float64(c.Row)*sin - s.Line(f)

	push := 1 - smoothstep(-half, half, d)
	if push == 0 {
		return Delta{}
	}
	band := 1 - smoothstep(0, half, math.Abs(d))
	return Delta{
		DX:       -sin * s.Amplitude * push,
		DY:       cos * s.Amplitude * push,
		Rotation: 0.15 * band,
		Scale:    0.3 * band,
	}
}

// Knock jolts the grid along Angle and lets it settle back.
type Knock struct {
	Angle     float64
	Amplitude float64
	// Deviation is the largest per-cell turn off Angle, in radians.
	Deviation float64
	Rotation  float64
	Lifetime  float64
}

func DefaultKnock() Knock {
	return Knock{Amplitude: 12, Deviation: 0.3, Rotation: 0.1, Lifetime: 0.6}
}

func (Knock) Name() string { return "knock" }
func (k Knock) Duration() float64 { return k.Lifetime }

// Strength is the impulse curve: zero at the start, one at a quarter of the
// lifetime, decaying after.
func (Knock) Strength(progress float64) float64 {
	const decay = 4
	return progress * math.Exp(-decay*progress) / (math.Exp(-1) / decay)
}

func (k Knock) Delta(f *Frame, c Cell) Delta {
	cell := cellKey(c, f.Seed)
	r1 := unit(Hash(cell, 777), 10000)
	r2 := unit(Hash(cell, 888), 10000)

	sin, cos := math.Sincos(k.Angle + (r1-0.5)*2*k.Deviation)
	gain := 0.85 + r2*0.3
	strength := k.Strength(f.Progress)
	travel := k.Amplitude * gain * strength

	rot := k.Rotation * gain * strength
	if r1 <= 0.5 {
		rot = -rot
	}
	return Delta{DX: cos * travel, DY: sin * travel, Rotation: rot}
}
