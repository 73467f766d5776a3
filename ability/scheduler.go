package ability

// Activator starts an ability. It owns cooldown, cost, tag and group checks;
// the scheduler only supplies candidate handles.
type Activator interface {
	TryActivate(h Handle) bool
}

// ActivatorFunc adapts a function to Activator.
type ActivatorFunc func(h Handle) bool

func (f ActivatorFunc) TryActivate(h Handle) bool { return f(h) }

// InputEventSink forwards input edges to specs that are already running.
type InputEventSink interface {
	SpecInputPressed(spec *Spec)
	SpecInputReleased(spec *Spec)
}

// TagQuery reports whether the owner carries a tag.
type TagQuery interface {
	HasMatchingTag(tag Tag) bool
}

// Scheduler turns buffered input into activation attempts and input events,
// once per tick.
type Scheduler struct {
	registry    *Registry
	router      *InputRouter
	activator   Activator
	events      InputEventSink
	tags        TagQuery
	blockingTag Tag

	worklist handleSet
}

// SchedulerDeps bundles the collaborators of a Scheduler.
type SchedulerDeps struct {
	Registry    *Registry
	Router      *InputRouter
	Activator   Activator
	Events      InputEventSink
	Tags        TagQuery
	BlockingTag Tag
}

func NewScheduler(deps SchedulerDeps) *Scheduler {
	blocking := deps.BlockingTag
	if !blocking.Valid() {
		blocking = TagAbilityInputBlocked
	}
	return &Scheduler{
		registry:    deps.Registry,
		router:      deps.Router,
		activator:   deps.Activator,
		events:      deps.Events,
		tags:        deps.Tags,
		blockingTag: blocking,
	}
}

// ProcessInput runs one tick of input handling.
//
// Held and pressed candidates are collected first and activated together, so
// an ability that activates this tick never also receives the press event
// for the same tick.
func (s *Scheduler) ProcessInput() {
	if s.tags != nil && s.tags.HasMatchingTag(s.blockingTag) {
		s.router.Clear()
		return
	}

	s.worklist.reset()

	for _, h := range s.router.HeldHandles() {
		spec, ok := s.registry.Find(h)
		if !ok || spec.def == nil || spec.IsActive() {
			continue
		}
		if spec.def.ActivationPolicy == WhileInputActive {
			s.worklist.add(h)
		}
	}

	for _, h := range s.router.PressedHandles() {
		spec, ok := s.registry.Find(h)
		if !ok || spec.def == nil {
			continue
		}
		spec.InputPressed = true
		if spec.IsActive() {
			s.events.SpecInputPressed(spec)
			continue
		}
		if spec.def.ActivationPolicy == OnInputTriggered {
			s.worklist.add(h)
		}
	}

	for _, h := range s.worklist.snapshot() {
		s.activator.TryActivate(h)
	}

	for _, h := range s.router.ReleasedHandles() {
		spec, ok := s.registry.Find(h)
		if !ok || spec.def == nil {
			continue
		}
		spec.InputPressed = false
		if spec.IsActive() {
			s.events.SpecInputReleased(spec)
		}
	}

	s.router.clearEdges()
}
