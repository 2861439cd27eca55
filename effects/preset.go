package effects

import (
	"errors"
	"fmt"

	"github.com/plus3/termfx/ecs"
	"github.com/tidwall/gjson"
)

// ErrPreset is wrapped by every preset parsing error.
var ErrPreset = errors.New("effects: invalid preset")

// Preset is a named list of effect declarations loaded from JSON:
//
//	{
//	  "name": "intro",
//	  "effects": [
//	    {"kind": "wave", "params": {"amplitude": 3}},
//	    {"kind": "explode", "seed": 7, "target": "hud",
//	     "region": {"include": [{"col": 0, "row": 0, "width": 10, "height": 5}]}}
//	  ]
//	}
type Preset struct {
	Name    string
	Entries []PresetEntry
}

// PresetEntry is one declaration of a preset.
type PresetEntry struct {
	Kind   string
	Region Region
	Target string
	// Seed is nil when the entry leaves it to the declaration order.
	Seed *uint32

	factory Factory
	params  gjson.Result
}

// New builds a fresh effect for the entry. Stateful effects never share
// state between declarations.
func (e PresetEntry) New() (Effect, error) {
	return e.factory(e.params)
}

func (e PresetEntry) options() []Option {
	opts := []Option{WithTarget(e.Target)}
	if e.Seed != nil {
		opts = append(opts, WithSeed(*e.Seed))
	}
	return opts
}

// LoadPreset parses and validates a preset document.
func LoadPreset(data []byte) (*Preset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrPreset)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: document must be an object", ErrPreset)
	}

	list := doc.Get("effects")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: effects must be an array", ErrPreset)
	}
	preset := &Preset{Name: doc.Get("name").String()}
	for i, item := range list.Array() {
		entry, err := parseEntry(item)
		if err != nil {
			return nil, fmt.Errorf("effects[%d]: %w", i, err)
		}
		preset.Entries = append(preset.Entries, entry)
	}
	return preset, nil
}

func parseEntry(item gjson.Result) (PresetEntry, error) {
	if !item.IsObject() {
		return PresetEntry{}, fmt.Errorf("%w: entry must be an object", ErrPreset)
	}
	kind := item.Get("kind").String()
	factory, ok := Lookup(kind)
	if !ok {
		return PresetEntry{}, fmt.Errorf("%w: unknown kind %q", ErrPreset, kind)
	}

	entry := PresetEntry{
		Kind:    kind,
		Target:  item.Get("target").String(),
		factory: factory,
		params:  item.Get("params"),
	}
	if seed := item.Get("seed"); seed.Exists() {
		if seed.Type != gjson.Number || seed.Int() < 0 || seed.Uint() > 1<<32-1 {
			return PresetEntry{}, fmt.Errorf("%w: seed must be a 32-bit unsigned number", ErrPreset)
		}
		s := uint32(seed.Uint())
		entry.Seed = &s
	}

	region := item.Get("region")
	if region.Exists() {
		if !region.IsObject() {
			return PresetEntry{}, fmt.Errorf("%w: region must be an object", ErrPreset)
		}
		var err error
		if entry.Region.Include, err = parseRects(region.Get("include")); err != nil {
			return PresetEntry{}, err
		}
		if entry.Region.Exclude, err = parseRects(region.Get("exclude")); err != nil {
			return PresetEntry{}, err
		}
	}

	if _, err := entry.New(); err != nil {
		return PresetEntry{}, err
	}
	return entry, nil
}

func parseRects(list gjson.Result) ([]Rect, error) {
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: region rectangles must be an array", ErrPreset)
	}
	var rects []Rect
	for _, r := range list.Array() {
		if !r.IsObject() {
			return nil, fmt.Errorf("%w: rectangle must be an object, got %s", ErrPreset, r.Raw)
		}
		rects = append(rects, Rect{
			Col:    int(r.Get("col").Int()),
			Row:    int(r.Get("row").Int()),
			Width:  int(r.Get("width").Int()),
			Height: int(r.Get("height").Int()),
		})
	}
	return rects, nil
}

// Spawn declares every entry in order. If one fails, the instances already
// spawned are removed again.
func (p *Preset) Spawn(storage *ecs.Storage) ([]ecs.EntityRef, error) {
	refs := make([]ecs.EntityRef, 0, len(p.Entries))
	for _, entry := range p.Entries {
		var ref ecs.EntityRef
		effect, err := entry.New()
		if err == nil {
			ref, err = Spawn(storage, effect, entry.Region, entry.options()...)
		}
		if err != nil {
			for _, spawned := range refs {
				Remove(storage, spawned)
			}
			return nil, fmt.Errorf("preset %q: %s: %w", p.Name, entry.Kind, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Declare queues every entry on commands.
func (p *Preset) Declare(commands *ecs.Commands) error {
	for _, entry := range p.Entries {
		effect, err := entry.New()
		if err != nil {
			return fmt.Errorf("preset %q: %s: %w", p.Name, entry.Kind, err)
		}
		Declare(commands, effect, entry.Region, entry.options()...)
	}
	return nil
}
