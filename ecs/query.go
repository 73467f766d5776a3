package ecs

// smallest returns the set with the fewest entries, or nil if any set is
// missing.
func smallest(sets ...*SparseSet) *SparseSet {
	var best *SparseSet
	for _, s := range sets {
		if s == nil {
			return nil
		}
		if best == nil || s.Len() < best.Len() {
			best = s
		}
	}
	return best
}

// intersect returns the ids present in every set, in the order of the
// smallest one.
func intersect(sets ...*SparseSet) []entityID {
	base := smallest(sets...)
	if base == nil {
		return nil
	}
	var out []entityID
outer:
	for _, id := range base.ids() {
		for _, s := range sets {
			if s != base && !s.Has(id) {
				continue outer
			}
		}
		out = append(out, id)
	}
	return out
}
