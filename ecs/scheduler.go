package ecs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          Stage
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

func (fn SystemFunc) Execute(frame *UpdateFrame) { fn(frame) }

type storageBinder interface {
	Init(storage *Storage)
}

type queryExecutor interface {
	Execute()
}

type scheduledSystem struct {
	system  System
	stage   Stage
	queries []queryExecutor

	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs registered systems once per frame, grouped by Stage.
type Scheduler struct {
	storage *Storage
	systems []*scheduledSystem
	frames  int64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage the scheduler drives.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds system to DefaultStage.
func (s *Scheduler) Register(system System) {
	s.RegisterIn(DefaultStage, system)
}

// RegisterIn adds system to stage after every system already in that stage
// and binds its exported Query and Singleton fields to the storage.
func (s *Scheduler) RegisterIn(stage Stage, system System) {
	entry := &scheduledSystem{
		system:      system,
		stage:       stage,
		queries:     s.bindFields(system),
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	}

	at := slices.IndexFunc(s.systems, func(other *scheduledSystem) bool {
		return other.stage > stage
	})
	if at < 0 {
		s.systems = append(s.systems, entry)
		return
	}
	s.systems = slices.Insert(s.systems, at, entry)
}

func systemName(system System) string {
	if named, ok := system.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func (s *Scheduler) bindFields(system System) []queryExecutor {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryExecutor
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)
		if q, ok := binder.(queryExecutor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once runs every system with delta time dt and flushes the frame's
// commands. A system that calls frame.Fail stops the remaining systems; the
// commands queued so far are still flushed and the failure is returned.
func (s *Scheduler) Once(dt float64) error {
	s.frames++
	frame := newUpdateFrame(dt, s.frames, s.storage)

	for _, entry := range s.systems {
		frame.Stage = entry.stage
		for _, q := range entry.queries {
			q.Execute()
		}

		start := time.Now()
		entry.system.Execute(frame)
		entry.record(time.Since(start))

		if frame.err != nil {
			frame.err = fmt.Errorf("%s: %w", entry.name, frame.err)
			break
		}
	}

	return errors.Join(frame.err, frame.Commands.Flush(s.storage))
}

func (e *scheduledSystem) record(duration time.Duration) {
	e.executionCount++
	e.lastDuration = duration
	e.totalDuration += duration
	e.minDuration = min(e.minDuration, duration)
	e.maxDuration = max(e.maxDuration, duration)
}

// Run calls Once at every interval tick until ctx is cancelled or a frame
// fails. Cancellation returns nil.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.Once(dt); err != nil {
				return err
			}
		}
	}
}

// GetStats returns statistics about system execution in run order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, entry := range s.systems {
		var avg time.Duration
		if entry.executionCount > 0 {
			avg = entry.totalDuration / time.Duration(entry.executionCount)
		}
		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Stage:          entry.stage,
			ExecutionCount: entry.executionCount,
			MinDuration:    entry.minDuration,
			MaxDuration:    entry.maxDuration,
			AvgDuration:    avg,
			LastDuration:   entry.lastDuration,
			TotalDuration:  entry.totalDuration,
		}
		stats.TotalExecutions += entry.executionCount
	}
	return stats
}
