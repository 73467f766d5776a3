package ecs

// SparseSet is a cache-friendly storage for components keyed by entity id.
// Values are stored as `any`; the generic helpers cast them back.
type SparseSet struct {
	denseEntities []entityID
	denseValues   []any
	sparse        []int
}

// Has returns true if the entity id exists in the set.
func (s *SparseSet) Has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx] == id
}

// Get returns the component for id, or nil.
func (s *SparseSet) Get(id entityID) any {
	if !s.Has(id) {
		return nil
	}
	return s.denseValues[s.sparse[id-1]]
}

// Set inserts or updates a component for id.
func (s *SparseSet) Set(id entityID, v any) {
	if s == nil || id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseEntities = append(s.denseEntities, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the component for id if present.
func (s *SparseSet) Remove(id entityID) bool {
	if s == nil || !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.denseEntities) - 1
	lastID := s.denseEntities[last]

	s.denseEntities[idx] = s.denseEntities[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
	return true
}

// Len returns the number of stored components.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// ids returns a copy of the dense id list, safe to range over while the set
// is modified.
func (s *SparseSet) ids() []entityID {
	if s == nil {
		return nil
	}
	return append([]entityID(nil), s.denseEntities...)
}
