// Package ecs provides fixed-capacity entity id allocation, per-component
// membership sets, and multi-component queries over parallel-array storage.
//
// All component data lives in column slices sized to the world capacity and
// indexed by entity id. A set only tracks which ids currently hold a
// component; the column slot of an absent entity holds stale data and must
// not be read. Callers restrict reads to query results.
package ecs

import "errors"

// Entity is an opaque identifier, dense in [0, capacity).
type Entity uint32

// None is the sentinel for "no entity" (e.g. a cleared hunt target).
const None Entity = ^Entity(0)

// ErrCapacity is returned by Spawn when every id is in use.
var ErrCapacity = errors.New("ecs: entity capacity exhausted")

// World allocates entity ids and tracks registered component sets.
type World struct {
	capacity int
	alive    []bool
	free     []Entity // recycled ids, LIFO
	next     Entity   // next never-used id
	count    int
	sets     []*Set
}

// NewWorld creates a world with a fixed entity capacity.
func NewWorld(capacity int) *World {
	return &World{
		capacity: capacity,
		alive:    make([]bool, capacity),
		free:     make([]Entity, 0, 64),
	}
}

// Capacity returns the fixed entity capacity.
func (w *World) Capacity() int { return w.capacity }

// Count returns the number of live entities.
func (w *World) Count() int { return w.count }

// Alive reports whether e is a live entity.
func (w *World) Alive(e Entity) bool {
	return e != None && int(e) < w.capacity && w.alive[e]
}

// Spawn allocates an entity id, reusing despawned ids first.
func (w *World) Spawn() (Entity, error) {
	var e Entity
	switch {
	case len(w.free) > 0:
		e = w.free[len(w.free)-1]
		w.free = w.free[:len(w.free)-1]
	case int(w.next) < w.capacity:
		e = w.next
		w.next++
	default:
		return None, ErrCapacity
	}
	w.alive[e] = true
	w.count++
	return e, nil
}

// Despawn removes e from every registered set and recycles its id.
// Component columns are not cleared; their slots become stale.
func (w *World) Despawn(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, s := range w.sets {
		s.Remove(e)
	}
	w.alive[e] = false
	w.count--
	w.free = append(w.free, e)
}

// NewSet registers a component membership set with the world.
func (w *World) NewSet(name string) *Set {
	s := newSet(name, w.capacity)
	w.sets = append(w.sets, s)
	return s
}

// Set tracks which entities hold one component, preserving insertion order.
type Set struct {
	name   string
	sparse []int32  // entity -> index into dense, -1 if absent
	dense  []Entity // members in insertion order
}

func newSet(name string, capacity int) *Set {
	s := &Set{
		name:   name,
		sparse: make([]int32, capacity),
		dense:  make([]Entity, 0, capacity),
	}
	for i := range s.sparse {
		s.sparse[i] = -1
	}
	return s
}

// Name returns the set's registration name.
func (s *Set) Name() string { return s.name }

// Len returns the number of member entities.
func (s *Set) Len() int { return len(s.dense) }

// Has reports whether e holds this component.
func (s *Set) Has(e Entity) bool {
	return int(e) < len(s.sparse) && s.sparse[e] >= 0
}

// Add marks e as holding this component. Adding twice is a no-op.
func (s *Set) Add(e Entity) {
	if s.Has(e) {
		return
	}
	s.sparse[e] = int32(len(s.dense))
	s.dense = append(s.dense, e)
}

// Remove drops e from the set. The insertion order of the remaining
// members is preserved so query iteration stays stable across removals.
func (s *Set) Remove(e Entity) {
	if !s.Has(e) {
		return
	}
	idx := s.sparse[e]
	copy(s.dense[idx:], s.dense[idx+1:])
	s.dense = s.dense[:len(s.dense)-1]
	for i := int(idx); i < len(s.dense); i++ {
		s.sparse[s.dense[i]] = int32(i)
	}
	s.sparse[e] = -1
}

// Entities returns the members in insertion order. The slice is owned by
// the set; callers must not retain it across mutations.
func (s *Set) Entities() []Entity { return s.dense }

// Query returns entities holding a full combination of components, in the
// insertion order of the first set. The result buffer is reused across
// calls, so the steady state allocates nothing.
type Query struct {
	sets []*Set
	out  []Entity
}

// NewQuery creates a query over the given sets. At least one is required;
// the first set drives iteration order.
func NewQuery(sets ...*Set) *Query {
	if len(sets) == 0 {
		panic("ecs: query needs at least one set")
	}
	return &Query{sets: sets}
}

// Entities recomputes and returns the matching ids for this tick. The
// returned slice is invalidated by the next call.
func (q *Query) Entities() []Entity {
	q.out = q.out[:0]
outer:
	for _, e := range q.sets[0].dense {
		for _, s := range q.sets[1:] {
			if !s.Has(e) {
				continue outer
			}
		}
		q.out = append(q.out, e)
	}
	return q.out
}
