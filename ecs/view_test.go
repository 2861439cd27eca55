package ecs_test

import (
	"iter"
	"testing"

	"github.com/plus3/termfx/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewIter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2})
	labelled := storage.Spawn(Position{X: 3}, Velocity{DX: 2}, Label{Value: "x"})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	var ids []ecs.EntityId
	for id, item := range view.Iter() {
		ids = append(ids, id)
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, []ecs.EntityId{moving, labelled}, ids)
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, moving).X)
	assert.Equal(t, 5.0, ecs.ReadComponent[Position](storage, labelled).X)
}

func TestViewOptionalAndEntityIdFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	plain := storage.Spawn(Position{X: 1})
	labelled := storage.Spawn(Position{X: 2}, Label{Value: "named"})

	type item struct {
		ecs.EntityId
		Self  ecs.EntityId
		Pos   *Position
		Label *Label `ecs:"optional"`
	}
	view := ecs.NewView[item](storage)

	got := view.Get(plain)
	require.NotNil(t, got)
	assert.Equal(t, plain, got.EntityId)
	assert.Equal(t, plain, got.Self)
	assert.Nil(t, got.Label)

	got = view.Get(labelled)
	require.NotNil(t, got)
	assert.Equal(t, "named", got.Label.Value)

	assert.Len(t, collect(view.Values()), 2)
}

func TestViewMissingEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	view := ecs.NewView[struct{ *Velocity }](storage)

	assert.Nil(t, view.Get(id))
	storage.Delete(id)
	assert.Nil(t, ecs.NewView[struct{ *Position }](storage).Get(id))
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[struct {
		*Position
		Label *Label `ecs:"optional"`
	}](storage)

	id, err := view.Spawn(struct {
		*Position
		Label *Label `ecs:"optional"`
	}{Position: &Position{X: 4}})
	require.NoError(t, err)
	assert.Equal(t, 4.0, ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Label](storage, id))
}

func TestViewRejectsBadFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { ecs.NewView[struct{ Pos Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Pos *Position `ecs:"maybe"`
		}](storage)
	})
	assert.Panics(t, func() { ecs.NewView[int](storage) })
}

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)
	assert.Panics(t, func() { query.Iter() })

	storage.Spawn(Position{})
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{}, Frozen{})
	assert.Equal(t, 1, query.Len(), "results are a per-execute snapshot")
	query.Execute()
	assert.Equal(t, 2, query.Len())
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}
