package ecs

// StorageStats is a snapshot of the storage layout for inspectors.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	EntityLimit        int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and summarises it.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount:   len(s.order),
		TotalEntityCount: s.entityCount,
		EntityLimit:      s.entityLimit,
		SingletonCount:   len(s.singletonOrder),
	}

	for _, archetype := range s.order {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    archetype.Len(),
		})
	}
	for _, entry := range s.singletonOrder {
		stats.SingletonTypes = append(stats.SingletonTypes, entry.typ.String())
	}
	return stats
}
