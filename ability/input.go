package ability

import "slices"

// handleSet is an insertion-ordered set of handles.
type handleSet struct {
	items []Handle
	index map[Handle]struct{}
}

func (s *handleSet) add(h Handle) bool {
	if s.has(h) {
		return false
	}
	if s.index == nil {
		s.index = make(map[Handle]struct{})
	}
	s.index[h] = struct{}{}
	s.items = append(s.items, h)
	return true
}

func (s *handleSet) remove(h Handle) bool {
	if !s.has(h) {
		return false
	}
	delete(s.index, h)
	s.items = slices.DeleteFunc(s.items, func(v Handle) bool { return v == h })
	return true
}

func (s *handleSet) has(h Handle) bool {
	_, ok := s.index[h]
	return ok
}

func (s *handleSet) len() int {
	return len(s.items)
}

func (s *handleSet) reset() {
	s.items = s.items[:0]
	clear(s.index)
}

func (s *handleSet) snapshot() []Handle {
	return slices.Clone(s.items)
}

// InputRouter buffers press, release and hold state per spec handle between
// ticks. Pressed and Released are edges consumed by each ProcessInput; Held is
// level state kept until the input is released or the spec revoked.
type InputRouter struct {
	registry *Registry
	pressed  handleSet
	released handleSet
	held     handleSet
}

func NewInputRouter(registry *Registry) *InputRouter {
	return &InputRouter{registry: registry}
}

// Pressed records a press of tag for every spec bound to it.
func (r *InputRouter) Pressed(tag Tag) {
	if !tag.Valid() {
		return
	}
	r.registry.Scan(func(spec *Spec) {
		if spec.def != nil && spec.DynamicTags.HasExact(tag) {
			r.pressed.add(spec.handle)
			r.held.add(spec.handle)
		}
	})
}

// Released records a release of tag for every spec bound to it.
func (r *InputRouter) Released(tag Tag) {
	if !tag.Valid() {
		return
	}
	r.registry.Scan(func(spec *Spec) {
		if spec.def != nil && spec.DynamicTags.HasExact(tag) {
			r.released.add(spec.handle)
			r.held.remove(spec.handle)
		}
	})
}

// Apply replays drained queue events in order.
func (r *InputRouter) Apply(events []InputEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case InputPress:
			r.Pressed(ev.Tag)
		case InputRelease:
			r.Released(ev.Tag)
		}
	}
}

// Clear drops every buffered edge and hold.
func (r *InputRouter) Clear() {
	r.pressed.reset()
	r.released.reset()
	r.held.reset()
}

// Forget drops h from every set. Called when a spec is revoked.
func (r *InputRouter) Forget(h Handle) {
	r.pressed.remove(h)
	r.released.remove(h)
	r.held.remove(h)
}

func (r *InputRouter) clearEdges() {
	r.pressed.reset()
	r.released.reset()
}

func (r *InputRouter) PressedHandles() []Handle  { return r.pressed.snapshot() }
func (r *InputRouter) ReleasedHandles() []Handle { return r.released.snapshot() }
func (r *InputRouter) HeldHandles() []Handle     { return r.held.snapshot() }

// IsHeld reports whether h is in the held set.
func (r *InputRouter) IsHeld(h Handle) bool { return r.held.has(h) }
