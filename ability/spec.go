package ability

import "slices"

// Spec is a grant record binding a Definition to an owner. It exists whether
// or not the ability is running.
type Spec struct {
	handle Handle
	def    *Definition
	Level  int
	// DynamicTags carries the input tags the grant is bound to.
	DynamicTags  TagSet
	InputPressed bool

	activeCount int
	shared      *Instance
	instances   []*Instance
}

func (s *Spec) Handle() Handle { return s.handle }

func (s *Spec) Definition() *Definition { return s.def }

// IsActive reports whether any execution of the spec is running.
func (s *Spec) IsActive() bool { return s.activeCount > 0 }

// ActiveCount is the number of running executions.
func (s *Spec) ActiveCount() int { return s.activeCount }

// Instances returns the live instances. The slice is a copy, so callers may
// end or cancel instances while ranging over it. An inactive spec returns
// nil.
func (s *Spec) Instances() []*Instance {
	if s.activeCount == 0 {
		return nil
	}
	if s.def != nil && s.def.InstancingPolicy == InstancedPerActor {
		if s.shared != nil && s.shared.active {
			return []*Instance{s.shared}
		}
		return nil
	}
	return slices.Clone(s.instances)
}

func (s *Spec) acquire(owner *System) *Instance {
	if s.def.InstancingPolicy == InstancedPerActor {
		if s.shared == nil {
			s.shared = &Instance{def: s.def, spec: s, owner: owner}
		}
		return s.shared
	}
	inst := &Instance{def: s.def, spec: s, owner: owner}
	s.instances = append(s.instances, inst)
	return inst
}

func (s *Spec) release(inst *Instance) {
	if s.activeCount > 0 {
		s.activeCount--
	}
	if idx := slices.Index(s.instances, inst); idx >= 0 {
		s.instances = slices.Delete(s.instances, idx, idx+1)
	}
}
