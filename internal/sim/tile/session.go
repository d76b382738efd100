package tile

import (
	"fmt"
	"sort"

	"voxelstore.ai/internal/sim/storage"
)

// Session indexes the tile entities of the loaded world by position. It is
// reset when a world loads and closed when it unloads. Like the world loop it
// is single-threaded.
type Session struct {
	protos   *Registry
	entities map[storage.Vec3i]*Entity
	closed   bool
}

func NewSession(protos *Registry) *Session {
	return &Session{
		protos:   protos,
		entities: map[storage.Vec3i]*Entity{},
	}
}

func (s *Session) Prototypes() *Registry { return s.protos }

// Add indexes e. It fails if the position is taken.
func (s *Session) Add(e *Entity) error {
	if _, ok := s.entities[e.pos]; ok {
		return fmt.Errorf("add tile at %v: %w", e.pos.ToArray(), ErrOccupied)
	}
	s.entities[e.pos] = e
	return nil
}

// Remove drops the entity at pos from the index and returns it.
func (s *Session) Remove(pos storage.Vec3i) *Entity {
	e := s.entities[pos]
	delete(s.entities, pos)
	return e
}

func (s *Session) At(pos storage.Vec3i) *Entity { return s.entities[pos] }

func (s *Session) Len() int { return len(s.entities) }

// Each visits entities in position order (x, then y, then z).
func (s *Session) Each(fn func(e *Entity)) {
	for _, p := range s.sortedPositions() {
		if e := s.entities[p]; e != nil {
			fn(e)
		}
	}
}

func (s *Session) sortedPositions() []storage.Vec3i {
	out := make([]storage.Vec3i, 0, len(s.entities))
	for p := range s.entities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// Create builds an entity for blockID at pos, indexes it and runs Init.
func (s *Session) Create(blockID int, pos storage.Vec3i) (*Entity, error) {
	p, ok := s.protos.Prototype(blockID)
	if !ok {
		return nil, fmt.Errorf("create tile %d: %w", blockID, ErrNoPrototype)
	}
	e := NewEntity(p, pos)
	if err := s.Add(e); err != nil {
		return nil, err
	}
	e.behavior.Init(e)
	return e, nil
}

// Destroy removes the entity at pos and runs its Destroy hook. It returns
// false when there was nothing there.
func (s *Session) Destroy(pos storage.Vec3i) bool {
	e := s.Remove(pos)
	if e == nil {
		return false
	}
	e.behavior.Destroy(e)
	return true
}

// Tick runs every entity's behavior once, in position order. Entities removed
// by an earlier behavior in the same pass are skipped.
func (s *Session) Tick(tick uint64) {
	if s.closed {
		return
	}
	for _, p := range s.sortedPositions() {
		if e := s.entities[p]; e != nil {
			e.behavior.Tick(e, tick)
		}
	}
}

// Reset drops every entity without running Destroy hooks and reopens the
// session for a newly loaded world.
func (s *Session) Reset() {
	s.entities = map[storage.Vec3i]*Entity{}
	s.closed = false
}

// Close destroys every entity in position order and stops ticking.
func (s *Session) Close() {
	for _, p := range s.sortedPositions() {
		s.Destroy(p)
	}
	s.closed = true
}
