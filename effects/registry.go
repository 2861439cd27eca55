package effects

import (
	"fmt"
	"image/color"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
)

// Factory builds an effect from its preset parameters. Missing parameters
// keep the kind's defaults.
type Factory func(params gjson.Result) (Effect, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes kind available to presets. It panics on duplicate kinds.
func Register(kind string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		panic("effects: duplicate registration for " + kind)
	}
	registry[kind] = factory
}

// Lookup fetches the factory of kind.
func Lookup(kind string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	return f, ok
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// New builds kind from a JSON object of parameters. Empty params keep every
// default.
func New(kind, params string) (Effect, error) {
	factory, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrPreset, kind)
	}
	p := gjson.Parse(params)
	if params != "" && !p.IsObject() {
		return nil, fmt.Errorf("%w: %s params must be an object", ErrPreset, kind)
	}
	return factory(p)
}

// KindOf names an effect: its Name when it has one, its lower-cased type
// name otherwise.
func KindOf(effect Effect) string {
	if effect == nil {
		return ""
	}
	if named, ok := effect.(Named); ok {
		return named.Name()
	}
	t := reflect.TypeOf(effect)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}

// params reads preset parameters into effect fields, keeping the first error.
type params struct {
	kind string
	raw  gjson.Result
	err  error
}

func (p *params) fail(key, format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s.%s: %s", ErrPreset, p.kind, key, fmt.Sprintf(format, args...))
	}
}

func (p *params) float(key string, dst *float64) {
	v := p.raw.Get(key)
	if !v.Exists() {
		return
	}
	if v.Type != gjson.Number {
		p.fail(key, "want a number, got %s", v.Raw)
		return
	}
	*dst = v.Float()
}

func (p *params) bool(key string, dst *bool) {
	v := p.raw.Get(key)
	if !v.Exists() {
		return
	}
	if !v.IsBool() {
		p.fail(key, "want true or false, got %s", v.Raw)
		return
	}
	*dst = v.Bool()
}

// color accepts "#rrggbb" or [r, g, b] / [r, g, b, a] with 0-255 components.
func (p *params) color(key string, dst *color.NRGBA) {
	v := p.raw.Get(key)
	switch {
	case !v.Exists():
	case v.Type == gjson.String:
		c, err := colorful.Hex(v.String())
		if err != nil {
			p.fail(key, "%v", err)
			return
		}
		*dst = fromColorful(c, 255)
	case v.IsArray():
		parts := v.Array()
		if len(parts) != 3 && len(parts) != 4 {
			p.fail(key, "want 3 or 4 components, got %d", len(parts))
			return
		}
		c := [4]uint8{3: 255}
		for i, part := range parts {
			n := part.Int()
			if part.Type != gjson.Number || n < 0 || n > 255 {
				p.fail(key, "component %s out of range", part.Raw)
				return
			}
			c[i] = uint8(n)
		}
		*dst = color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	default:
		p.fail(key, "want a colour, got %s", v.Raw)
	}
}

func builtin[T Effect](kind string, defaults func() T, decode func(p *params, e T) T) {
	Register(kind, func(raw gjson.Result) (Effect, error) {
		if raw.Exists() && !raw.IsObject() {
			return nil, fmt.Errorf("%w: %s: params must be an object", ErrPreset, kind)
		}
		p := &params{kind: kind, raw: raw}
		e := decode(p, defaults())
		if p.err != nil {
			return nil, p.err
		}
		return e, nil
	})
}

func init() {
	builtin("wave", DefaultWave, func(p *params, e Wave) Wave {
		p.float("amplitude", &e.Amplitude)
		p.float("frequency", &e.Frequency)
		p.float("phase_offset", &e.PhaseOffset)
		p.bool("vertical", &e.Vertical)
		return e
	})
	builtin("ripple", DefaultRipple, func(p *params, e *Ripple) *Ripple {
		p.float("center_col", &e.CenterCol)
		p.float("center_row", &e.CenterRow)
		p.float("amplitude", &e.Amplitude)
		p.float("wavelength", &e.Wavelength)
		p.float("speed", &e.Speed)
		p.float("damping", &e.Damping)
		return e
	})
	builtin("breathe", DefaultBreathe, func(p *params, e Breathe) Breathe {
		p.float("amplitude", &e.Amplitude)
		p.float("frequency", &e.Frequency)
		p.float("phase_spread", &e.PhaseSpread)
		return e
	})
	builtin("jitter", DefaultJitter, func(p *params, e Jitter) Jitter {
		p.float("amplitude", &e.Amplitude)
		p.float("rate", &e.Rate)
		p.float("max_rotation", &e.MaxRotation)
		return e
	})
	builtin("glitch", DefaultGlitch, func(p *params, e Glitch) Glitch {
		p.float("max_offset", &e.MaxOffset)
		p.float("intensity", &e.Intensity)
		p.float("frequency", &e.Frequency)
		return e
	})
	builtin("gravity", DefaultGravity, func(p *params, e *Gravity) *Gravity {
		p.float("ax", &e.AX)
		p.float("ay", &e.AY)
		p.float("damping", &e.Damping)
		return e
	})
	builtin("bubbly", DefaultBubbly, func(p *params, e Bubbly) Bubbly {
		p.float("speed", &e.Speed)
		p.float("density", &e.Density)
		p.float("max_scale", &e.MaxScale)
		return e
	})
	builtin("tint", DefaultTint, func(p *params, e Tint) Tint {
		p.color("color", &e.Color)
		p.float("strength", &e.Strength)
		p.bool("background", &e.Background)
		return e
	})
	builtin("rainbow", DefaultRainbow, func(p *params, e Rainbow) Rainbow {
		p.float("speed", &e.Speed)
		p.float("saturation", &e.Saturation)
		p.float("lightness", &e.Lightness)
		p.float("spread", &e.Spread)
		return e
	})
	builtin("glow", DefaultGlow, func(p *params, e Glow) Glow {
		p.float("speed", &e.Speed)
		p.float("intensity", &e.Intensity)
		p.float("spread", &e.Spread)
		return e
	})
	builtin("shiny", DefaultShiny, func(p *params, e Shiny) Shiny {
		p.float("speed", &e.Speed)
		p.float("width", &e.Width)
		p.float("angle", &e.Angle)
		p.float("brightness", &e.Brightness)
		return e
	})
	builtin("collapse", DefaultCollapse, func(p *params, e Collapse) Collapse {
		p.float("gravity", &e.Gravity)
		p.float("stagger_row", &e.StaggerRow)
		p.float("stagger_col", &e.StaggerCol)
		p.float("duration", &e.Lifetime)
		return e
	})
	builtin("scatter", DefaultScatter, func(p *params, e Scatter) Scatter {
		p.float("center_col", &e.CenterCol)
		p.float("center_row", &e.CenterRow)
		p.float("distance", &e.Distance)
		p.float("spin", &e.Spin)
		p.float("duration", &e.Lifetime)
		return e
	})
	builtin("explode", DefaultExplode, func(p *params, e Explode) Explode {
		p.float("center_col", &e.CenterCol)
		p.float("center_row", &e.CenterRow)
		p.float("force", &e.Force)
		p.float("chaos", &e.Chaos)
		p.float("decay", &e.Decay)
		p.float("duration", &e.Lifetime)
		return e
	})
	builtin("slash", DefaultSlash, func(p *params, e Slash) Slash {
		p.float("angle", &e.Angle)
		p.float("amplitude", &e.Amplitude)
		p.float("width", &e.Width)
		p.float("duration", &e.Lifetime)
		return e
	})
	builtin("knock", DefaultKnock, func(p *params, e Knock) Knock {
		p.float("angle", &e.Angle)
		p.float("amplitude", &e.Amplitude)
		p.float("deviation", &e.Deviation)
		p.float("rotation", &e.Rotation)
		p.float("duration", &e.Lifetime)
		return e
	})
}
