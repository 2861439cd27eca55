package ecs

import (
	"errors"
	"reflect"
)

// Commands buffers structural changes made while systems run. The Scheduler
// flushes it once every system of the frame has executed, so no system sees
// an entity disappear halfway through a pass.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after the structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion. Deleting twice is harmless.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies deletes, removals, additions, spawns and deferred functions in
// that order, then resets the buffer. Operations on entities deleted in the
// same flush are dropped. Every failure is collected into the returned error.
func (c *Commands) Flush(storage *Storage) error {
	var errs []error
	deleted := make(map[EntityId]struct{}, len(c.deletes))

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = struct{}{}
	}
	for _, cmd := range c.removes {
		if _, gone := deleted[cmd.entity]; !gone {
			if _, err := storage.RemoveComponent(cmd.entity, cmd.compType); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, cmd := range c.adds {
		if _, gone := deleted[cmd.entity]; !gone {
			if _, err := storage.AddComponent(cmd.entity, cmd.component); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, components := range c.spawns {
		if _, err := storage.TrySpawn(components...); err != nil {
			errs = append(errs, err)
		}
	}
	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	clear(c.adds)
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
	return errors.Join(errs...)
}
