package main

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/termfx/ecs"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Workload  string
	Terminals int
	Cells     int
	Effects   int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Stages         []StageReport
	Entities       int
	Writes         int64
	Rebuilds       int64
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// StageReport is the summed timing of one scheduler stage.
type StageReport struct {
	Stage   ecs.Stage
	Systems int
	Avg     time.Duration
	Max     time.Duration
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

func stageReports(stats *ecs.SchedulerStats) []StageReport {
	var out []StageReport
	for _, sys := range stats.Systems {
		i := slices.IndexFunc(out, func(r StageReport) bool { return r.Stage == sys.Stage })
		if i < 0 {
			out = append(out, StageReport{Stage: sys.Stage})
			i = len(out) - 1
		}
		out[i].Systems++
		out[i].Avg += sys.AvgDuration
		out[i].Max += sys.MaxDuration
	}
	slices.SortFunc(out, func(a, b StageReport) int { return cmp.Compare(a.Stage, b.Stage) })
	return out
}

// WritesPerFrame is the mean number of sprite writes per update.
func (r *Report) WritesPerFrame() float64 {
	if r.TotalUpdates == 0 {
		return 0
	}
	return float64(r.Writes) / float64(r.TotalUpdates)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# termfx Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Workload:** {{.Workload}}
- **Terminals:** {{.Terminals}}
- **Cells:** {{.Cells}}
- **Declared Effects:** {{.Effects}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Entities:** {{.Entities}}
- **Grid Rebuilds:** {{.Rebuilds}}
- **Sprite Writes per Frame:** {{printf "%.1f" .WritesPerFrame}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Stages
{{range .Stages}}- Stage {{.Stage}} ({{.Systems}} systems): avg {{.Avg}}, max {{.Max}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc | mb}} MB
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc | mb}} MB
- Sys Memory:     {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
