package ability

// GroupTracker counts running instances per activation group and applies the
// exclusivity policy between groups.
type GroupTracker struct {
	counts   [groupCount]int
	canceler *Canceler
	diag     diagnostics
}

func NewGroupTracker(canceler *Canceler, diag diagnostics) *GroupTracker {
	return &GroupTracker{canceler: canceler, diag: diag}
}

// IsBlocked reports whether an ability in group g may not activate right now.
// Independent abilities are never blocked; exclusive abilities are blocked
// while any ExclusiveBlocking instance runs.
func (t *GroupTracker) IsBlocked(g ActivationGroup) bool {
	switch g {
	case Independent:
		return false
	case ExclusiveReplaceable, ExclusiveBlocking:
		return t.counts[ExclusiveBlocking] > 0
	default:
		t.diag.assertf(false, "IsActivationGroupBlocked", "invalid activation group [%d]", uint8(g))
		return false
	}
}

// Add records inst as running in g. Entering an exclusive group cancels every
// other running ExclusiveReplaceable instance.
func (t *GroupTracker) Add(g ActivationGroup, inst *Instance) {
	const op = "AddAbilityToActivationGroup"
	if !t.diag.assertf(inst != nil, op, "nil instance") {
		return
	}
	if !t.diag.assertf(g.Valid(), op, "invalid activation group [%d]", uint8(g)) {
		return
	}

	t.counts[g]++

	if g.Exclusive() && t.canceler != nil {
		t.canceler.CancelGroup(ExclusiveReplaceable, inst, false)
	}

	if t.ExclusiveCount() > 1 {
		t.diag.errorf(op, "multiple exclusive abilities are running")
	}
}

// Remove records that inst stopped running in g. Every Add must be matched
// by exactly one Remove.
func (t *GroupTracker) Remove(g ActivationGroup, inst *Instance) {
	const op = "RemoveAbilityFromActivationGroup"
	if !t.diag.assertf(inst != nil, op, "nil instance") {
		return
	}
	if !t.diag.assertf(g.Valid(), op, "invalid activation group [%d]", uint8(g)) {
		return
	}
	if !t.diag.assertf(t.counts[g] > 0, op, "group %s has no running instances", g) {
		return
	}
	t.counts[g]--
}

// Count returns the number of running instances in g.
func (t *GroupTracker) Count(g ActivationGroup) int {
	if !g.Valid() {
		return 0
	}
	return t.counts[g]
}

// ExclusiveCount is the number of running instances across both exclusive
// groups.
func (t *GroupTracker) ExclusiveCount() int {
	return t.counts[ExclusiveReplaceable] + t.counts[ExclusiveBlocking]
}
