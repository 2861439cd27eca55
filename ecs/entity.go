package ecs

// EntityId packs the archetype id into the upper 32 bits and the slot index
// inside that archetype into the lower 32 bits.
type EntityId uint64

// NewEntityId builds an EntityId from an archetype id and slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is an id paired with the generation of its slot. It stops
// resolving once the entity is deleted, even after a later spawn reuses the
// slot. A ref does not follow the entity through AddComponent or
// RemoveComponent, since those move it to a new id.
type EntityRef struct {
	Id         EntityId
	Generation uint32
}
