// Command termfx-bench drives the sync, reset and effects stages headless and
// reports frame timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/termfx"
	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/plus3/termfx/terminal"
)

const filler = "the quick brown fox jumps over the lazy dog 0123456789 "

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	columns := flag.Int("cols", 80, "Columns per terminal.")
	rows := flag.Int("rows", 24, "Rows per terminal.")
	terminals := flag.Int("terminals", 1, "Number of terminals sharing the scheduler.")
	kinds := flag.String("effects", "wave,jitter,rainbow", "Comma separated effect kinds declared on every terminal.")
	presetPath := flag.String("preset", "", "Optional JSON preset declared once on the default terminal.")
	workload := flag.String("workload", "scroll", "What the app draws each frame: static, scroll or noise.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	draw, err := drawFunc(*workload)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Starting termfx benchmark...")

	registry := ecs.NewComponentRegistry()
	termfx.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	var declared int
	for i := 0; i < *terminals; i++ {
		cfg := terminal.DefaultConfig()
		cfg.Columns, cfg.Rows = *columns, *rows
		if i > 0 {
			cfg.Name = fmt.Sprintf("term%d", i)
			cfg.ReceiveInput = false
		}

		plugin := termfx.New(cfg)
		term, err := plugin.Install(storage, scheduler)
		if err != nil {
			log.Fatalf("Failed to install terminal %d: %v", i, err)
		}
		plugin.AppTick(terminal.DrawSystem(term, draw))

		for _, kind := range strings.Split(*kinds, ",") {
			if kind = strings.TrimSpace(kind); kind == "" {
				continue
			}
			effect, err := effects.New(kind, "")
			if err != nil {
				log.Fatalf("Failed to build %s: %v", kind, err)
			}
			if _, err := effects.Spawn(storage, effect, effects.All(), effects.WithTarget(cfg.Name)); err != nil {
				log.Fatalf("Failed to declare %s: %v", kind, err)
			}
			declared++
		}
	}

	if *presetPath != "" {
		data, err := os.ReadFile(*presetPath)
		if err != nil {
			log.Fatalf("Failed to read preset: %v", err)
		}
		preset, err := effects.LoadPreset(data)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		refs, err := preset.Spawn(storage)
		if err != nil {
			log.Fatalf("Failed to declare preset %q: %v", preset.Name, err)
		}
		log.Printf("Declared preset %q with %d effects\n", preset.Name, len(refs))
		declared += len(refs)
	}

	report := &Report{
		Duration:       *duration,
		Workload:       *workload,
		Terminals:      *terminals,
		Cells:          *terminals * *columns * *rows,
		Effects:        declared,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d terminals of %dx%d for %s...\n", *terminals, *columns, *rows, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime.Seconds()); err != nil {
				log.Fatalf("Frame %d failed: %v", report.TotalUpdates, err)
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++

			var sync *terminal.SyncStats
			if storage.ReadSingleton(&sync) {
				report.Writes += int64(sync.Writes())
				report.Rebuilds = sync.Rebuilds
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Stages = stageReports(scheduler.GetStats())
	report.Entities = storage.Len()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Benchmark finished.")

	fmt.Println("\n\n--- termfx Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// drawFunc returns the application draw for workload.
func drawFunc(workload string) (func(*ecs.UpdateFrame, tcell.Screen) error, error) {
	switch workload {
	case "static":
		drawn := false
		return func(_ *ecs.UpdateFrame, screen tcell.Screen) error {
			if !drawn {
				fill(screen, 0)
				drawn = true
			}
			return nil
		}, nil
	case "scroll":
		return func(frame *ecs.UpdateFrame, screen tcell.Screen) error {
			fill(screen, int(frame.Frame))
			return nil
		}, nil
	case "noise":
		styles := []tcell.Style{
			tcell.StyleDefault,
			tcell.StyleDefault.Foreground(tcell.ColorRed),
			tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
			tcell.StyleDefault.Background(tcell.ColorNavy),
		}
		return func(_ *ecs.UpdateFrame, screen tcell.Screen) error {
			w, h := screen.Size()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					r := rune(filler[rand.Intn(len(filler))])
					screen.SetContent(x, y, r, nil, styles[rand.Intn(len(styles))])
				}
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown workload %q", workload)
	}
}

func fill(screen tcell.Screen, shift int) {
	w, h := screen.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := rune(filler[(x+y+shift)%len(filler)])
			screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}
}
