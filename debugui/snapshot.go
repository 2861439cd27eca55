package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
)

// EffectRow is one declared instance as the effects panel lists it.
type EffectRow struct {
	Ref     ecs.EntityRef
	Kind    string
	Target  string
	Order   uint64
	State   effects.State
	Elapsed float64
	// Duration is a one-shot's lifetime. Progress is the share of it used,
	// -1 for continuous effects.
	Duration float64
	Progress float64
	Region   string
}

type instanceRow struct {
	ecs.EntityId
	*effects.Instance
}

// Effects lists every instance in storage in declaration order.
func Effects(storage *ecs.Storage) []EffectRow {
	var rows []EffectRow
	for row := range ecs.NewView[instanceRow](storage).Values() {
		duration, progress := 0.0, -1.0
		if once, ok := row.Effect.(effects.OneShot); ok && once.Duration() > 0 {
			duration = once.Duration()
			progress = min(row.Elapsed/duration, 1)
		}
		ref, _ := storage.CreateEntityRef(row.EntityId)
		rows = append(rows, EffectRow{
			Ref:      ref,
			Kind:     row.Kind(),
			Target:   row.Target,
			Order:    row.Order,
			State:    row.State,
			Elapsed:  row.Elapsed,
			Duration: duration,
			Progress: progress,
			Region:   RegionLabel(row.Region),
		})
	}
	slices.SortFunc(rows, func(a, b EffectRow) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return rows
}

// RegionLabel summarises a region in one line.
func RegionLabel(r effects.Region) string {
	rects := func(rs []effects.Rect) string {
		parts := make([]string, len(rs))
		for i, rect := range rs {
			parts[i] = fmt.Sprintf("%d,%d %dx%d", rect.Col, rect.Row, rect.Width, rect.Height)
		}
		return strings.Join(parts, "; ")
	}

	label := "all"
	if len(r.Include) > 0 {
		label = rects(r.Include)
	}
	if len(r.Exclude) > 0 {
		label += " except " + rects(r.Exclude)
	}
	return label
}

// StageTiming sums the systems of one stage.
type StageTiming struct {
	Stage   ecs.Stage
	Systems []string
	Last    time.Duration
	Average time.Duration
	Max     time.Duration
}

// StageTimings groups scheduler stats by stage, in stage order.
func StageTimings(stats *ecs.SchedulerStats) []StageTiming {
	var out []StageTiming
	for _, sys := range stats.Systems {
		i := slices.IndexFunc(out, func(t StageTiming) bool { return t.Stage == sys.Stage })
		if i < 0 {
			out = append(out, StageTiming{Stage: sys.Stage})
			i = len(out) - 1
		}
		t := &out[i]
		t.Systems = append(t.Systems, sys.Name)
		t.Last += sys.LastDuration
		t.Average += sys.AvgDuration
		t.Max += sys.MaxDuration
	}
	slices.SortStableFunc(out, func(a, b StageTiming) int {
		return cmp.Compare(a.Stage, b.Stage)
	})
	return out
}

// History is a ring of samples for plotting.
type History struct {
	samples []float32
	next    int
	full    bool
}

// NewHistory returns a ring holding size samples.
func NewHistory(size int) *History {
	return &History{samples: make([]float32, max(size, 1))}
}

// Push records a sample, overwriting the oldest once the ring is full.
func (h *History) Push(v float32) {
	h.samples[h.next] = v
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.full = true
	}
}

// Samples returns the recorded samples oldest first.
func (h *History) Samples() []float32 {
	if !h.full {
		return slices.Clone(h.samples[:h.next])
	}
	return append(slices.Clone(h.samples[h.next:]), h.samples[:h.next]...)
}

// Average is the mean of the recorded samples.
func (h *History) Average() float32 {
	samples := h.Samples()
	if len(samples) == 0 {
		return 0
	}
	var sum float32
	for _, v := range samples {
		sum += v
	}
	return sum / float32(len(samples))
}
