package ecs

import (
	"fmt"
	"iter"
	"math/bits"
	"reflect"
	"unsafe"
)

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// componentStorage holds every instance of one component type inside an archetype.
type componentStorage interface {
	Append(item any) int
	Get(index int) any
	Delete(index int) bool
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage owns one, so independent worlds never share component storage.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers component type T with the registry. A type must
// be registered before an entity carrying it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentStorage {
		return &blockStorage[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newStorage(t reflect.Type) (componentStorage, error) {
	factory := r.factories[t]
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredComponent, t)
	}
	return factory(), nil
}

const blockSize = 64

// componentBlock keeps 64 slots and a bitmask of the occupied ones. Blocks are
// heap allocated individually so pointers handed out by Get stay valid while
// the storage grows.
type componentBlock[T any] struct {
	items    [blockSize]T
	occupied uint64
}

type blockStorage[T any] struct {
	blocks    []*componentBlock[T]
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *blockStorage[T]) locate(index int) (*componentBlock[T], uint64) {
	if index < 0 || index >= cs.nextIndex {
		return nil, 0
	}
	return cs.blocks[index/blockSize], 1 << uint(index%blockSize)
}

// Append stores item (a T or *T) and returns its slot, or -1 on a type mismatch.
func (cs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/blockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &componentBlock[T]{})
		}
	}

	block, mask := cs.locate(index)
	block.items[index%blockSize] = value
	block.occupied |= mask
	cs.count++
	return index
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (cs *blockStorage[T]) Get(index int) any {
	block, mask := cs.locate(index)
	if block == nil || block.occupied&mask == 0 {
		return nil
	}
	return &block.items[index%blockSize]
}

// Delete clears the slot and reports whether it was occupied.
func (cs *blockStorage[T]) Delete(index int) bool {
	block, mask := cs.locate(index)
	if block == nil || block.occupied&mask == 0 {
		return false
	}
	var zero T
	block.items[index%blockSize] = zero
	block.occupied &^= mask
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
	return true
}

func (cs *blockStorage[T]) Has(index int) bool {
	block, mask := cs.locate(index)
	return block != nil && block.occupied&mask != 0
}

func (cs *blockStorage[T]) Len() int {
	return cs.count
}

// Iter yields occupied slots in ascending order, skipping empty blocks whole.
func (cs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for b, block := range cs.blocks {
			occupied := block.occupied
			for occupied != 0 {
				slot := bits.TrailingZeros64(occupied)
				occupied &^= 1 << uint(slot)
				if !yield(b*blockSize + slot) {
					return
				}
			}
		}
	}
}
