package ecs_test

import (
	"testing"

	"github.com/plus3/termfx/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Delete(ids[i])
	}
}

func BenchmarkReadComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Position](storage, id)
	}
}

func BenchmarkViewFill(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	type PosVel struct {
		*Position
		*Velocity
	}

	view := ecs.NewView[PosVel](storage)
	id := storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var pv PosVel
		view.Fill(id, &pv)
	}
}

// BenchmarkQueryExecute rebuilds a query over one terminal's worth of roots.
func BenchmarkQueryExecute(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	type PosVel struct {
		ecs.EntityId
		*Position
		*Velocity
	}

	for i := 0; i < 80*24; i++ {
		storage.Spawn(Position{X: float64(i), Y: float64(i)}, Velocity{DX: 0.5, DY: 0.5})
	}
	query := ecs.NewQuery[PosVel](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for range query.Values() {
		}
	}
}
