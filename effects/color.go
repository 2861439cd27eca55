package effects

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// Tint blends glyph colours towards Color.
type Tint struct {
	Color color.NRGBA
	// Strength is the blend factor, clamped to [0, 1].
	Strength float64
	// Background tints the cell background as well.
	Background bool
}

// DefaultTint washes glyphs halfway to white.
func DefaultTint() Tint {
	return Tint{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}, Strength: 0.5}
}

func (Tint) Name() string { return "tint" }

func (Tint) Delta(*Frame, Cell) Delta { return Delta{} }

func (t Tint) Colorize(_ *Frame, _ Cell, fg, bg *color.NRGBA) {
	target := toColorful(t.Color)
	s := clamp01(t.Strength)
	*fg = fromColorful(toColorful(*fg).BlendRgb(target, s), fg.A)
	if t.Background {
		*bg = fromColorful(toColorful(*bg).BlendRgb(target, s), bg.A)
	}
}

// Rainbow cycles glyph hues diagonally across the grid.
type Rainbow struct {
	// Speed is in hue turns per second.
	Speed      float64
	Saturation float64
	Lightness  float64
	// Spread is the hue step, in turns, between neighbouring cells.
	Spread float64
}

func DefaultRainbow() Rainbow {
	return Rainbow{Speed: 1, Saturation: 1, Lightness: 0.6, Spread: 0.3}
}

func (Rainbow) Name() string { return "rainbow" }

func (Rainbow) Delta(*Frame, Cell) Delta { return Delta{} }

// Hue returns the hue in degrees of the cell at time t.
func (r Rainbow) Hue(col, row int, t float64) float64 {
	hue := math.Mod((float64(col+row)*r.Spread+t*r.Speed)*360, 360)
	if hue < 0 {
		hue += 360
	}
	return hue
}

func (r Rainbow) Colorize(f *Frame, c Cell, fg, _ *color.NRGBA) {
	*fg = fromColorful(colorful.Hsl(r.Hue(c.Col, c.Row, f.Time), r.Saturation, r.Lightness), fg.A)
}

// Glow pulses the opacity and size of cells in a slow wave.
type Glow struct {
	// Speed is in pulses per second.
	Speed     float64
	Intensity float64
	Spread    float64
}

func DefaultGlow() Glow {
	return Glow{Speed: 2, Intensity: 0.5, Spread: 0.4}
}

func (Glow) Name() string { return "glow" }

func (g Glow) wave(f *Frame, c Cell) float64 {
	offset := (0.5*float64(c.Col) + 0.8*float64(c.Row)) * g.Spread
	return math.Sin(2*math.Pi*g.Speed*f.Time + offset)
}

func (g Glow) Delta(f *Frame, c Cell) Delta {
	return Delta{Scale: 0.05 * g.wave(f, c)}
}

func (g Glow) Colorize(f *Frame, c Cell, fg, bg *color.NRGBA) {
	gain := 1 + g.Intensity*g.wave(f, c)
	fg.A = uint8(math.Round(clamp01(float64(fg.A)/255*gain) * 255))
	bg.A = uint8(math.Round(clamp01(float64(bg.A)/255*gain) * 255))
}

// Shiny sweeps a bright band across the grid.
type Shiny struct {
	// Speed is in cells per second.
	Speed float64
	Width float64
	// Angle is the band's travel direction in radians.
	Angle      float64
	Brightness float64
}

func DefaultShiny() Shiny {
	return Shiny{Speed: 8, Width: 6, Angle: 0.5, Brightness: 2}
}

func (Shiny) Name() string { return "shiny" }

func (Shiny) Delta(*Frame, Cell) Delta { return Delta{} }

// boost is the brightness multiplier of the cell, 1 outside the band.
func (s Shiny) boost(f *Frame, c Cell) float64 {
	const travel = 200
	band := math.Mod(f.Time*s.Speed, travel) - s.Width
	half := s.Width / 2
	proj := float64(c.Col)*math.Cos(s.Angle) + float64(c.Row)*math.Sin(s.Angle)
	dist := math.Abs(proj - band)
	if dist > half {
		return 1
	}
	return 1 + s.Brightness*(1-smoothstep(0, half, dist))
}

func (s Shiny) Colorize(f *Frame, c Cell, fg, bg *color.NRGBA) {
	k := s.boost(f, c)
	if k == 1 {
		return
	}
	brighten := func(in color.NRGBA) color.NRGBA {
		col := toColorful(in)
		return fromColorful(colorful.Color{R: col.R * k, G: col.G * k, B: col.B * k}, in.A)
	}
	*fg = brighten(*fg)
	*bg = brighten(*bg)
}
