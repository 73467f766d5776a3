package ability

// Instance is one running execution of a Definition.
type Instance struct {
	def    *Definition
	spec   *Spec
	owner  *System
	serial uint64

	active    bool
	canceled  bool
	frames    int
	blockTags TagSet
}

func (i *Instance) Definition() *Definition { return i.def }

// Handle returns the handle of the spec that owns the instance.
func (i *Instance) Handle() Handle { return i.spec.handle }

func (i *Instance) Spec() *Spec { return i.spec }

// Serial is the owner-wide activation number of the current (or last)
// execution. Replication layers use it to pair activations with cancels.
func (i *Instance) Serial() uint64 { return i.serial }

func (i *Instance) IsActive() bool { return i.active }

// WasCanceled reports whether the last execution ended through cancellation.
func (i *Instance) WasCanceled() bool { return i.canceled }

// FramesActive is the number of ticks since activation.
func (i *Instance) FramesActive() int { return i.frames }

func (i *Instance) ActivationPolicy() ActivationPolicy { return i.def.ActivationPolicy }

func (i *Instance) ActivationGroup() ActivationGroup { return i.def.ActivationGroup }

// CanBeCanceled reports whether predicate-driven cancellation may end the
// instance.
func (i *Instance) CanBeCanceled() bool {
	return i.def != nil && !i.def.NonCancelable
}

// Cancel ends the instance immediately. replicate asks the owner's
// Replicator to forward the cancel.
func (i *Instance) Cancel(replicate bool) {
	if i == nil || i.owner == nil {
		return
	}
	i.owner.endInstance(i, true, replicate)
}

// End finishes the instance normally.
func (i *Instance) End() {
	if i == nil || i.owner == nil {
		return
	}
	i.owner.endInstance(i, false, false)
}

func (i *Instance) context() *BehaviorContext {
	s := i.owner
	return &BehaviorContext{
		Instance: i,
		Spec:     i.spec,
		EndSelf:  i.End,
		HasTag:   s.HasMatchingTag,
		Logf: func(format string, args ...any) {
			s.diag.logger.Printf("abilities: %s: "+format, append([]any{i.def.Name}, args...)...)
		},
	}
}
