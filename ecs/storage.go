package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
)

var (
	// ErrEntityLimit is returned by TrySpawn once the storage holds as many
	// entities as its limit allows.
	ErrEntityLimit = errors.New("ecs: entity limit reached")
	// ErrUnregisteredComponent is returned when spawning a component type the
	// registry does not know about.
	ErrUnregisteredComponent = errors.New("ecs: component type not registered")
	// ErrNoComponents is returned when spawning an entity without components.
	ErrNoComponents = errors.New("ecs: cannot spawn entity without components")
)

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// Storage owns every archetype, entity and singleton of one world.
type Storage struct {
	archetypes map[uint32]*Archetype
	order      []*Archetype
	registry   *ComponentRegistry

	entityCount int
	entityLimit int

	singletons     *intmap.Map[int, *singletonEntry]
	singletonOrder []*singletonEntry

	// generations counts how often each slot has been freed.
	generations *intmap.Map[EntityId, uint32]
}

// NewStorage creates a new ECS storage system with the given component registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes:  make(map[uint32]*Archetype),
		registry:    registry,
		singletons:  intmap.New[int, *singletonEntry](16),
		generations: intmap.New[EntityId, uint32](256),
	}
}

// SetEntityLimit caps the number of live entities. Zero or a negative value
// removes the cap.
func (s *Storage) SetEntityLimit(limit int) {
	s.entityLimit = max(limit, 0)
}

// EntityLimit returns the configured cap, zero meaning unlimited.
func (s *Storage) EntityLimit() int {
	return s.entityLimit
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.entityCount
}

// Archetypes returns the archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

func (s *Storage) archetypeFor(types []reflect.Type) (*Archetype, error) {
	id := hashTypesToUint32(types)
	if archetype, ok := s.archetypes[id]; ok {
		return archetype, nil
	}
	archetype, err := newArchetype(id, types, s.registry)
	if err != nil {
		return nil, err
	}
	s.archetypes[id] = archetype
	s.order = append(s.order, archetype)
	return archetype, nil
}

// TrySpawn creates a new entity with the provided components.
func (s *Storage) TrySpawn(components ...any) (EntityId, error) {
	if len(components) == 0 {
		return 0, ErrNoComponents
	}
	if s.entityLimit > 0 && s.entityCount >= s.entityLimit {
		return 0, fmt.Errorf("%w (%d)", ErrEntityLimit, s.entityLimit)
	}

	types, err := extractComponentTypes(components)
	if err != nil {
		return 0, err
	}
	archetype, err := s.archetypeFor(types)
	if err != nil {
		return 0, err
	}

	s.entityCount++
	return NewEntityId(archetype.id, archetype.spawn(components)), nil
}

// Spawn is TrySpawn for callers that treat failure as a programming error.
func (s *Storage) Spawn(components ...any) EntityId {
	id, err := s.TrySpawn(components...)
	if err != nil {
		panic(err)
	}
	return id
}

// Delete removes the entity and reports whether it was alive.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	if archetype.Delete(id.Index()) {
		s.entityCount--
		s.retire(id)
		return true
	}
	return false
}

func (s *Storage) retire(id EntityId) {
	gen, _ := s.generations.Get(id)
	s.generations.Put(id, gen+1)
}

// CreateEntityRef returns a ref to the live entity id. The second result is
// false when id is not alive.
func (s *Storage) CreateEntityRef(id EntityId) (EntityRef, bool) {
	if !s.Alive(id) {
		return EntityRef{}, false
	}
	gen, _ := s.generations.Get(id)
	return EntityRef{Id: id, Generation: gen}, true
}

// ResolveEntityRef returns the id the ref points at while that same entity
// is still alive.
func (s *Storage) ResolveEntityRef(ref EntityRef) (EntityId, bool) {
	if !s.Alive(ref.Id) {
		return 0, false
	}
	if gen, _ := s.generations.Get(ref.Id); gen != ref.Generation {
		return 0, false
	}
	return ref.Id, true
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Alive(id.Index())
}

// AddComponent moves the entity to the archetype that also carries component
// and returns its new id. Adding a type the entity already has replaces it.
func (s *Storage) AddComponent(id EntityId, component any) (EntityId, error) {
	oldArchetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !oldArchetype.Alive(id.Index()) {
		return 0, fmt.Errorf("ecs: add component to dead entity %d", id)
	}

	compType := componentType(component)
	if ptr := oldArchetype.GetComponent(id.Index(), compType); ptr != nil {
		reflect.ValueOf(ptr).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id, nil
	}

	newTypes := append(slices.Clone(oldArchetype.types), compType)
	slices.SortFunc(newTypes, compareTypes)

	return s.move(id, oldArchetype, newTypes, component)
}

// RemoveComponent moves the entity to the archetype without compType. An
// entity left with no components is deleted and the returned id is zero.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) (EntityId, error) {
	oldArchetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !oldArchetype.Alive(id.Index()) {
		return 0, fmt.Errorf("ecs: remove component from dead entity %d", id)
	}
	if !oldArchetype.HasComponent(compType) {
		return id, nil
	}

	newTypes := slices.DeleteFunc(slices.Clone(oldArchetype.types), func(t reflect.Type) bool {
		return t == compType
	})
	if len(newTypes) == 0 {
		s.Delete(id)
		return 0, nil
	}
	return s.move(id, oldArchetype, newTypes, nil)
}

func (s *Storage) move(id EntityId, from *Archetype, types []reflect.Type, extra any) (EntityId, error) {
	to, err := s.archetypeFor(types)
	if err != nil {
		return 0, err
	}

	components := make([]any, 0, len(types))
	for _, typ := range types {
		if comp := from.GetComponent(id.Index(), typ); comp != nil {
			components = append(components, comp)
		}
	}
	if extra != nil {
		components = append(components, extra)
	}

	newId := NewEntityId(to.id, to.spawn(components))
	from.Delete(id.Index())
	s.retire(id)
	return newId, nil
}

// GetComponent returns a pointer to the entity's component, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.HasComponent(compType)
}

// AddSingleton stores value as the world-wide instance of its type. Adding a
// type twice overwrites the value in place, so existing pointers stay valid.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if entry := s.getSingletonEntry(t); entry != nil {
		entry.value.Elem().Set(reflect.ValueOf(value))
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	entry := &singletonEntry{
		typ:     t,
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
	s.singletons.Put(typeId(t), entry)
	s.singletonOrder = append(s.singletonOrder, entry)
}

// ReadSingleton points *target at the stored singleton of the matching type.
// target must be a **T. It returns false when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Pointer {
		panic("ecs: ReadSingleton target must be a pointer to a pointer")
	}
	entry := s.getSingletonEntry(v.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	v.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	entry, ok := s.singletons.Get(typeId(t))
	if !ok {
		return nil
	}
	return entry
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted component types of components.
func extractComponentTypes(components []any) ([]reflect.Type, error) {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		if comp == nil {
			return nil, errors.New("ecs: nil component")
		}
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			return nil, fmt.Errorf("ecs: component %s must be a value type", t)
		}
		if slices.Contains(types, t) {
			return nil, fmt.Errorf("ecs: duplicate component %s", t)
		}
		types = append(types, t)
	}
	slices.SortFunc(types, compareTypes)
	return types, nil
}

func typeId(t reflect.Type) int {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return int(uintptr(ptr))
}

// hashTypesToUint32 folds a sorted type list into an FNV-1a hash.
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uint64(typeId(t))
		h ^= uint32(ptr) ^ uint32(ptr>>32)
		h *= prime
	}
	return h
}

// ComponentReader is satisfied by Storage and anything else that can resolve
// components by entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil when it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	ptr, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return ptr
}
