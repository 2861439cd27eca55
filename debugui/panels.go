package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/plus3/termfx/terminal"
)

// StageDebugUI runs after the effects stage.
const StageDebugUI ecs.Stage = terminal.StageEffects + 100

const historyFrames = 120

// Inspector owns the panels of one world.
type Inspector struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Terminals []*terminal.Terminal

	frames    *History
	stages    map[ecs.Stage]*History
	lastFrame time.Time
}

// NewInspector returns an inspector over the scheduler's storage.
func NewInspector(scheduler *ecs.Scheduler, terminals ...*terminal.Terminal) *Inspector {
	return &Inspector{
		Storage:   scheduler.Storage(),
		Scheduler: scheduler,
		Terminals: terminals,
		frames:    NewHistory(historyFrames),
		stages:    make(map[ecs.Stage]*History),
	}
}

// Install registers ImguiSystem in StageDebugUI and spawns one item per
// panel. The components of RegisterComponents must be registered.
func (in *Inspector) Install() {
	ecs.NewSingleton[ImguiInputState](in.Storage)
	in.Scheduler.RegisterIn(StageDebugUI, &ImguiSystem{})

	in.Storage.Spawn(ImguiItem{Render: in.RenderEffects})
	in.Storage.Spawn(ImguiItem{Render: in.RenderTerminals})
	in.Storage.Spawn(ImguiItem{Render: in.RenderScheduler})
	in.Storage.Spawn(ImguiItem{Render: in.RenderStorage})
}

// RenderEffects lists the declared instances with a remove button each.
func (in *Inspector) RenderEffects() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(460, 260), imgui.CondOnce)
	if !imgui.BeginV("Effects", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	rows := Effects(in.Storage)
	imgui.Text(fmt.Sprintf("Instances: %d", len(rows)))
	if len(rows) > 0 && imgui.Button("Remove all") {
		for _, row := range rows {
			effects.Remove(in.Storage, row.Ref)
		}
		rows = nil
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("EffectsTable", 7, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Order")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Target")
		imgui.TableSetupColumn("State")
		imgui.TableSetupColumn("Elapsed")
		imgui.TableSetupColumn("Region")
		imgui.TableSetupColumn("")
		imgui.TableHeadersRow()

		for _, row := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Order))
			imgui.TableNextColumn()
			imgui.Text(row.Kind)
			imgui.TableNextColumn()
			imgui.Text(targetLabel(row.Target))
			imgui.TableNextColumn()
			imgui.Text(row.State.String())
			imgui.TableNextColumn()
			if row.Progress >= 0 {
				imgui.Text(fmt.Sprintf("%.2fs of %.2fs", row.Elapsed, row.Duration))
			} else {
				imgui.Text(fmt.Sprintf("%.2fs", row.Elapsed))
			}
			imgui.TableNextColumn()
			imgui.Text(row.Region)
			imgui.TableNextColumn()
			if imgui.SmallButton(fmt.Sprintf("remove##%d", row.Ref.Id)) {
				effects.Remove(in.Storage, row.Ref)
			}
		}
		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Registered kinds") {
		for _, kind := range effects.Kinds() {
			imgui.BulletText(kind)
		}
		imgui.TreePop()
	}
	imgui.End()
}

// RenderTerminals shows each terminal's layout and its last sync pass.
func (in *Inspector) RenderTerminals() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 280), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 260), imgui.CondOnce)
	if !imgui.BeginV("Terminals", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	var totals *terminal.SyncStats
	if in.Storage.ReadSingleton(&totals) {
		imgui.Text(fmt.Sprintf("Rebuilds: %d", totals.Rebuilds))
		imgui.Text(fmt.Sprintf("Skipped syncs: %d", totals.Skipped))
		imgui.Text(fmt.Sprintf("Writes this frame: %d", totals.Writes()))
		imgui.Separator()
	}

	for _, t := range in.Terminals {
		if !imgui.TreeNodeStr(targetLabel(t.Name())) {
			continue
		}
		layout := t.Layout()
		last := t.LastSync()
		imgui.Text(fmt.Sprintf("Grid: %dx%d cells of %.0fx%.0f px", layout.Columns, layout.Rows, layout.CellWidth, layout.CellHeight))
		imgui.Text(fmt.Sprintf("Origin: %.1f, %.1f", layout.Origin.X, layout.Origin.Y))
		imgui.Text(fmt.Sprintf("Generation: %d", t.Generation()))
		imgui.Text(fmt.Sprintf("Cells: %d", t.Registry().Len()))
		imgui.Text(fmt.Sprintf("Changed: %d of %d", last.CellsChanged, last.CellsVisited))
		imgui.Text(fmt.Sprintf("Writes: bg %d, fg %d, glyph %d", last.BackgroundWrites, last.ForegroundColorWrites, last.GlyphWrites))
		imgui.Text(fmt.Sprintf("Queued input: %d", t.Input().Len()))
		if glyphs := t.Glyphs(); glyphs != nil {
			imgui.Text(fmt.Sprintf("Pending glyphs: %d", glyphs.Len()))
		}
		imgui.TreePop()
	}
	imgui.End()
}

// RenderScheduler plots frame time and per-stage timings.
func (in *Inspector) RenderScheduler() {
	now := time.Now()
	if !in.lastFrame.IsZero() {
		in.frames.Push(float32(now.Sub(in.lastFrame).Seconds() * 1000))
	}
	in.lastFrame = now

	stats := in.Scheduler.GetStats()
	timings := StageTimings(stats)
	for _, timing := range timings {
		h, ok := in.stages[timing.Stage]
		if !ok {
			h = NewHistory(historyFrames)
			in.stages[timing.Stage] = h
		}
		h.Push(float32(timing.Last.Seconds() * 1000))
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(480, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	if !imgui.BeginV("Scheduler", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := in.frames.Average()
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	plot("##frametime", in.frames.Samples())

	for _, timing := range timings {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Stage %d: %.3f ms (avg %.3f, max %.3f)", timing.Stage,
			ms(timing.Last), ms(timing.Average), ms(timing.Max)))
		plot(fmt.Sprintf("##stage%d", timing.Stage), in.stages[timing.Stage].Samples())
		for _, name := range timing.Systems {
			imgui.BulletText(name)
		}
	}
	imgui.End()
}

// RenderStorage summarises archetypes and singletons.
func (in *Inspector) RenderStorage() {
	imgui.SetNextWindowPosV(imgui.NewVec2(480, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 220), imgui.CondOnce)
	if !imgui.BeginV("Storage", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := in.Storage.CollectStats()
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	if stats.EntityLimit > 0 {
		imgui.Text(fmt.Sprintf("Entity Limit: %d", stats.EntityLimit))
	}
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}
	imgui.End()
}

func plot(label string, samples []float32) {
	if len(samples) == 0 {
		return
	}
	imgui.PlotLinesFloatPtr(label, &samples[0], int32(len(samples)))
}

func ms(d time.Duration) float64 {
	return d.Seconds() * 1000
}

func targetLabel(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}
