package ecs

import (
	"reflect"
	"slices"
	"strings"
)

func compareTypes(a, b reflect.Type) int {
	return strings.Compare(a.String(), b.String())
}

// Archetype stores every entity that has exactly one combination of
// component types. Slot indices stay stable until the entity is deleted.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentStorage
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) (*Archetype, error) {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentStorage, len(types)),
	}
	for idx, typ := range types {
		storage, err := registry.newStorage(typ)
		if err != nil {
			return nil, err
		}
		a.storages[idx] = storage
	}
	return a, nil
}

func (a *Archetype) indexOf(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// spawn appends one component per storage. Storages fill and free slots in
// lockstep, so every append lands on the same index.
func (a *Archetype) spawn(components []any) uint32 {
	var slot int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Pointer {
			compType = compType.Elem()
		}
		if idx := a.indexOf(compType); idx >= 0 {
			slot = a.storages[idx].Append(comp)
		}
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the entity's component, or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.indexOf(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(entityIndex))
}

// Delete frees the entity's slot and reports whether it was alive.
func (a *Archetype) Delete(entityIndex uint32) bool {
	alive := false
	for _, storage := range a.storages {
		if storage.Delete(int(entityIndex)) {
			alive = true
		}
	}
	return alive
}

// Alive reports whether the slot currently holds an entity.
func (a *Archetype) Alive(entityIndex uint32) bool {
	return len(a.storages) > 0 && a.storages[0].Has(int(entityIndex))
}

// HasComponent checks if this archetype has the given component type.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's hash identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of this archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Iter returns an iterator over all live EntityIds in this archetype.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}
		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
