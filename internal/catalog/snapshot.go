package catalog

import (
	"time"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Snapshot is an immutable point-in-time view of one mode's entities.
// Nothing mutates a Snapshot after Refresh publishes it.
type Snapshot struct {
	mode        launcher.Mode
	generation  uint64
	refreshedAt time.Time
	entities    []launcher.Entity
	index       map[string]int
}

func emptySnapshot(mode launcher.Mode) *Snapshot {
	return &Snapshot{mode: mode, index: map[string]int{}}
}

// NewSnapshot builds a standalone snapshot outside any Catalog. Duplicate
// IDs keep their first occurrence. Intended for tests and one-shot ranking.
func NewSnapshot(mode launcher.Mode, entities []launcher.Entity) *Snapshot {
	s := &Snapshot{
		mode:     mode,
		entities: make([]launcher.Entity, 0, len(entities)),
		index:    make(map[string]int, len(entities)),
	}
	for _, e := range entities {
		if _, dup := s.index[e.ID]; dup {
			continue
		}
		e.Mode = mode
		s.index[e.ID] = len(s.entities)
		s.entities = append(s.entities, e)
	}
	return s
}

// Mode returns the mode this snapshot belongs to.
func (s *Snapshot) Mode() launcher.Mode { return s.mode }

// Generation increases with every refresh of the owning catalog.
// Standalone snapshots report 0.
func (s *Snapshot) Generation() uint64 { return s.generation }

// RefreshedAt returns when the snapshot was built.
func (s *Snapshot) RefreshedAt() time.Time { return s.refreshedAt }

// Len returns the number of entities.
func (s *Snapshot) Len() int { return len(s.entities) }

// At returns a pointer to the i-th entity in catalog order. The pointee
// must be treated as read-only.
func (s *Snapshot) At(i int) *launcher.Entity { return &s.entities[i] }

// Entities returns a copy of the entities in catalog order.
func (s *Snapshot) Entities() []launcher.Entity {
	out := make([]launcher.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Lookup returns the entity with id, or nil.
func (s *Snapshot) Lookup(id string) *launcher.Entity {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return &s.entities[i]
}
