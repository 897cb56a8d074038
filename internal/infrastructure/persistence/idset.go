package persistence

import "github.com/google/uuid"

// IDSet is an ordered set of product IDs. Location resolution and the
// derived-filter probes each produce one; the planner combines them with
// plain set algebra instead of ad hoc slice deduplication, so the AND/OR
// semantics of multi-query constraints stay auditable.
type IDSet struct {
	ids   []uuid.UUID
	index map[uuid.UUID]struct{}
}

// NewIDSet creates a set from the given IDs, keeping first-seen order
func NewIDSet(ids ...uuid.UUID) *IDSet {
	s := &IDSet{index: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an ID, ignoring duplicates
func (s *IDSet) Add(id uuid.UUID) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Contains reports whether the ID is in the set
func (s *IDSet) Contains(id uuid.UUID) bool {
	_, ok := s.index[id]
	return ok
}

// Union returns a new set with the members of both, this set's order first
func (s *IDSet) Union(other *IDSet) *IDSet {
	result := NewIDSet(s.ids...)
	for _, id := range other.ids {
		result.Add(id)
	}
	return result
}

// Intersect returns a new set with the members present in both,
// preserving this set's order
func (s *IDSet) Intersect(other *IDSet) *IDSet {
	result := NewIDSet()
	for _, id := range s.ids {
		if other.Contains(id) {
			result.Add(id)
		}
	}
	return result
}

// Values returns the member IDs in set order
func (s *IDSet) Values() []uuid.UUID {
	return s.ids
}

// Len returns the number of members
func (s *IDSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set has no members
func (s *IDSet) IsEmpty() bool {
	return len(s.ids) == 0
}
