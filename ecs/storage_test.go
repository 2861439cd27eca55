package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/termfx/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndRead(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1, Y: 2}, Velocity{DX: 0.5}, Score(32))
	assert.True(t, storage.Alive(id))
	assert.Equal(t, 1, storage.Len())

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)
	assert.Equal(t, Score(32), *ecs.ReadComponent[Score](storage, id))
	assert.Nil(t, ecs.ReadComponent[Label](storage, id))

	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Label]()))
}

func TestComponentOrderDoesNotMatter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a, b)
	assert.Len(t, storage.Archetypes(), 1)
}

func TestPointersStayValidAcrossGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 7})
	pos := ecs.ReadComponent[Position](storage, first)

	for i := 0; i < 1000; i++ {
		storage.Spawn(Position{X: float64(i)})
	}
	pos.X = 42
	assert.Equal(t, 42.0, ecs.ReadComponent[Position](storage, first).X)
}

func TestDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{})
	assert.True(t, storage.Delete(id))
	assert.False(t, storage.Delete(id), "second delete is a no-op")
	assert.False(t, storage.Alive(id))
	assert.Equal(t, 0, storage.Len())
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))

	reused := storage.Spawn(Position{X: 3})
	assert.Equal(t, id, reused, "freed slots are reused")
}

func TestEntityRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref, ok := storage.CreateEntityRef(id)
	require.True(t, ok)
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, id, resolved)

	require.True(t, storage.Delete(id))
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	_, ok = storage.CreateEntityRef(id)
	assert.False(t, ok, "dead ids get no ref")

	reused := storage.Spawn(Position{X: 2})
	require.Equal(t, id, reused)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok, "a ref to a freed slot does not resolve to its new occupant")

	fresh, ok := storage.CreateEntityRef(reused)
	require.True(t, ok)
	assert.NotEqual(t, ref, fresh)
	_, ok = storage.ResolveEntityRef(fresh)
	assert.True(t, ok)

	t.Run("moved entity", func(t *testing.T) {
		moved, err := storage.AddComponent(reused, Label{Value: "x"})
		require.NoError(t, err)
		_, ok := storage.ResolveEntityRef(fresh)
		assert.False(t, ok)

		ref, ok := storage.CreateEntityRef(moved)
		require.True(t, ok)
		_, ok = storage.ResolveEntityRef(ref)
		assert.True(t, ok)
	})
}

func TestTrySpawnErrors(t *testing.T) {
	t.Run("entity limit", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.SetEntityLimit(2)

		_, err := storage.TrySpawn(Position{})
		require.NoError(t, err)
		_, err = storage.TrySpawn(Position{})
		require.NoError(t, err)
		_, err = storage.TrySpawn(Position{})
		assert.ErrorIs(t, err, ecs.ErrEntityLimit)
		assert.Equal(t, 2, storage.Len())
	})

	t.Run("freed capacity can be reused", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.SetEntityLimit(1)

		id := storage.Spawn(Position{})
		storage.Delete(id)
		_, err := storage.TrySpawn(Position{})
		assert.NoError(t, err)
	})

	t.Run("unregistered component", func(t *testing.T) {
		storage := ecs.NewStorage(ecs.NewComponentRegistry())
		_, err := storage.TrySpawn(Position{})
		assert.ErrorIs(t, err, ecs.ErrUnregisteredComponent)
	})

	t.Run("no components", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		_, err := storage.TrySpawn()
		assert.ErrorIs(t, err, ecs.ErrNoComponents)
		assert.Panics(t, func() { storage.Spawn() })
	})

	t.Run("duplicate component", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		_, err := storage.TrySpawn(Position{}, Position{})
		assert.Error(t, err)
	})
}

func TestAddRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	moved, err := storage.AddComponent(id, Label{Value: "a"})
	require.NoError(t, err)
	assert.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.False(t, storage.Alive(id))
	assert.Equal(t, 1, storage.Len())
	assert.Equal(t, 1.0, ecs.ReadComponent[Position](storage, moved).X)
	assert.Equal(t, "a", ecs.ReadComponent[Label](storage, moved).Value)

	same, err := storage.AddComponent(moved, Label{Value: "b"})
	require.NoError(t, err)
	assert.Equal(t, moved, same, "replacing an existing component keeps the id")
	assert.Equal(t, "b", ecs.ReadComponent[Label](storage, same).Value)

	back, err := storage.RemoveComponent(same, reflect.TypeFor[Label]())
	require.NoError(t, err)
	assert.Equal(t, id.ArchetypeId(), back.ArchetypeId())
	assert.Nil(t, ecs.ReadComponent[Label](storage, back))

	gone, err := storage.RemoveComponent(back, reflect.TypeFor[Position]())
	require.NoError(t, err)
	assert.Equal(t, ecs.EntityId(0), gone)
	assert.Equal(t, 0, storage.Len())

	_, err = storage.AddComponent(back, Label{})
	assert.Error(t, err)
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var missing *Label
	assert.False(t, storage.ReadSingleton(&missing))

	storage.AddSingleton(Label{Value: "first"})
	var label *Label
	require.True(t, storage.ReadSingleton(&label))
	assert.Equal(t, "first", label.Value)

	storage.AddSingleton(Label{Value: "second"})
	assert.Equal(t, "second", label.Value, "re-adding overwrites in place")

	accessor := ecs.NewSingleton[Label](storage)
	assert.Same(t, label, accessor.Get())

	fresh := ecs.NewSingleton(storage, Score(9))
	assert.True(t, fresh.Exists())
	assert.Equal(t, Score(9), *fresh.Get())

	var unbound ecs.Singleton[Velocity]
	assert.False(t, unbound.Exists())
	assert.Nil(t, unbound.Get())
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.SetEntityLimit(10)
	storage.Spawn(Position{})
	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})
	storage.AddSingleton(Label{})

	stats := storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 10, stats.EntityLimit)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Label"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, []string{"ecs_test.Position"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, []string{"ecs_test.Position", "ecs_test.Velocity"}, stats.ArchetypeBreakdown[1].ComponentTypes)
}
