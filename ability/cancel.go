package ability

// ShouldCancelFunc decides whether a running instance of the spec h should be
// cancelled.
type ShouldCancelFunc func(inst *Instance, h Handle) bool

// Canceler applies cancellation predicates across every running instance of
// one owner.
type Canceler struct {
	registry *Registry
	diag     diagnostics
}

func NewCanceler(registry *Registry, diag diagnostics) *Canceler {
	return &Canceler{registry: registry, diag: diag}
}

// CancelByFunc cancels every running instance for which fn holds. Instances
// that refuse cancellation are logged and left running.
func (c *Canceler) CancelByFunc(fn ShouldCancelFunc, replicate bool) {
	const op = "CancelAbilitiesByFunc"
	if fn == nil {
		return
	}

	c.registry.Scan(func(spec *Spec) {
		if !spec.IsActive() {
			return
		}
		def := spec.def
		if def == nil {
			c.diag.errorf(op, "spec %s was granted without a definition, skipping", spec.handle)
			return
		}

		if def.InstancingPolicy != InstancedPerActor {
			for _, inst := range spec.Instances() {
				if !inst.IsActive() || !fn(inst, spec.handle) {
					continue
				}
				if inst.CanBeCanceled() {
					inst.Cancel(replicate)
				} else {
					c.diag.errorf(op, "can't cancel ability [%s] because it is not cancelable", def.Name)
				}
			}
			return
		}

		inst := spec.shared
		if inst == nil || !inst.IsActive() || !fn(inst, spec.handle) {
			return
		}
		// Per-actor abilities are always cancellable.
		c.diag.assertf(inst.CanBeCanceled(), op, "per-actor ability [%s] reports non-cancelable", def.Name)
		inst.Cancel(replicate)
	})
}

// CancelInputActivated cancels every running ability whose activation policy
// is input driven.
func (c *Canceler) CancelInputActivated(replicate bool) {
	c.CancelByFunc(func(inst *Instance, _ Handle) bool {
		return inst.ActivationPolicy().InputActivated()
	}, replicate)
}

// CancelGroup cancels every running ability in group except ignore.
func (c *Canceler) CancelGroup(group ActivationGroup, ignore *Instance, replicate bool) {
	c.CancelByFunc(func(inst *Instance, _ Handle) bool {
		return inst.ActivationGroup() == group && inst != ignore
	}, replicate)
}
