package effects

import (
	"cmp"
	"slices"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/terminal"
)

type instanceRow struct {
	ecs.EntityId
	*Instance
}

// System applies the effects aimed at one terminal. It runs in the effects
// stage, after the reset stage has restored every cell.
type System struct {
	Terminal  *terminal.Terminal
	Instances ecs.Query[instanceRow]

	clock  float64
	active []instanceRow
}

func (s *System) Name() string {
	return "effects.System[" + s.Terminal.Name() + "]"
}

// Clock returns the system's running time in seconds.
func (s *System) Clock() float64 {
	return s.clock
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	s.clock += frame.DeltaTime

	target := s.Terminal.Name()
	s.active = s.active[:0]
	for row := range s.Instances.Values() {
		if row.Target == target && row.State == Active && row.Effect != nil {
			s.active = append(s.active, row)
		}
	}
	slices.SortFunc(s.active, func(a, b instanceRow) int {
		return cmp.Compare(a.Order, b.Order)
	})

	registry := s.Terminal.Registry()
	layout := registry.Layout()
	cells := registry.Cells()

	for _, row := range s.active {
		inst := row.Instance
		inst.Elapsed += frame.DeltaTime

		f := Frame{
			Time:       s.clock,
			Dt:         frame.DeltaTime,
			Count:      frame.Frame,
			Elapsed:    inst.Elapsed,
			Columns:    layout.Columns,
			Rows:       layout.Rows,
			CellWidth:  layout.CellWidth,
			CellHeight: layout.CellHeight,
			Seed:       inst.Seed,
		}
		if oneShot, ok := inst.Effect.(OneShot); ok {
			duration := oneShot.Duration()
			if inst.Elapsed >= duration {
				inst.State = Expired
				frame.Commands.Delete(row.EntityId)
				continue
			}
			f.Progress = inst.Elapsed / duration
		}
		if stepper, ok := inst.Effect.(Stepper); ok {
			stepper.Step(&f)
		}
		colorizer, _ := inst.Effect.(Colorizer)

		for i := range cells {
			ref := &cells[i]
			if !inst.Region.Contains(ref.Col, ref.Row) {
				continue
			}
			c := Cell{Col: ref.Col, Row: ref.Row, Index: i, Glyph: ref.Style.Cell.Glyph}
			d := inst.Effect.Delta(&f, c)
			ref.Transform.X += d.DX
			ref.Transform.Y += d.DY
			ref.Transform.Rotation += d.Rotation
			ref.Transform.Scale += d.Scale
			if colorizer != nil {
				colorizer.Colorize(&f, c, &ref.Foreground.Color, &ref.Background.Color)
			}
		}
	}
}
