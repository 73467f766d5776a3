package ability

import "slices"

// Registry holds the granted specs of one owner in grant order.
//
// Full scans run under a re-entrant scope lock. While the lock is held, grants
// and revokes are queued and applied when the outermost holder releases it, so
// a scan never sees the slice change under it. Specs themselves may be
// mutated freely during a scan.
type Registry struct {
	handles  handleStore
	specs    []*Spec
	byHandle map[Handle]*Spec

	lockDepth int
	flushing  bool
	pending   []pendingChange

	onGranted func(spec *Spec)
	// onRevoked runs while the spec is still findable, before it is removed.
	onRevoked func(spec *Spec)
}

type pendingChange struct {
	grant  *Spec
	revoke Handle
}

func NewRegistry() *Registry {
	return &Registry{byHandle: make(map[Handle]*Spec)}
}

// Grant registers def and returns the handle of the new spec. Inside a scan
// the spec becomes visible when the scan ends.
func (r *Registry) Grant(def *Definition, level int, inputTags ...Tag) Handle {
	spec := &Spec{
		handle:      r.handles.create(),
		def:         def,
		Level:       level,
		DynamicTags: NewTagSet(inputTags...),
	}
	if r.deferring() {
		r.pending = append(r.pending, pendingChange{grant: spec})
		return spec.handle
	}
	r.insert(spec)
	return spec.handle
}

// Revoke removes the spec for h. Inside a scan the removal is deferred and
// the spec stays findable until the scan ends.
func (r *Registry) Revoke(h Handle) bool {
	if r.deferring() {
		if _, ok := r.byHandle[h]; !ok && !r.pendingGrant(h) {
			return false
		}
		r.pending = append(r.pending, pendingChange{revoke: h})
		return true
	}
	return r.remove(h)
}

// Find resolves a handle to its spec.
func (r *Registry) Find(h Handle) (*Spec, bool) {
	spec, ok := r.byHandle[h]
	return spec, ok
}

// Specs returns the specs in grant order.
func (r *Registry) Specs() []*Spec {
	return slices.Clone(r.specs)
}

// Len returns the number of visible specs.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Scan calls fn for every spec in grant order while holding the scope lock.
func (r *Registry) Scan(fn func(spec *Spec)) {
	unlock := r.Lock()
	defer unlock()
	for _, spec := range r.specs {
		fn(spec)
	}
}

// Lock acquires the scope lock and returns its release function. Locks nest;
// calling the release function more than once is a no-op.
func (r *Registry) Lock() (unlock func()) {
	r.lockDepth++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		r.lockDepth--
		if r.lockDepth == 0 {
			r.flush()
		}
	}
}

// Locked reports whether a scan is in progress.
func (r *Registry) Locked() bool {
	return r.lockDepth > 0
}

// deferring reports whether grants and revokes must be queued. Changes made
// by grant and revoke hooks while the queue drains are queued too, so they
// apply in call order after the change that triggered them.
func (r *Registry) deferring() bool {
	return r.lockDepth > 0 || r.flushing
}

// flush applies queued changes. Scans started by the hooks release the lock
// without re-entering flush; this loop picks up whatever they queued.
func (r *Registry) flush() {
	if r.flushing {
		return
	}
	r.flushing = true
	defer func() { r.flushing = false }()

	for len(r.pending) > 0 && r.lockDepth == 0 {
		change := r.pending[0]
		r.pending = r.pending[1:]
		if change.grant != nil {
			r.insert(change.grant)
			continue
		}
		r.remove(change.revoke)
	}
	if len(r.pending) == 0 {
		r.pending = nil
	}
}

func (r *Registry) insert(spec *Spec) {
	r.specs = append(r.specs, spec)
	r.byHandle[spec.handle] = spec
	if r.onGranted != nil && !r.pendingRevoke(spec.handle) {
		r.onGranted(spec)
	}
}

func (r *Registry) remove(h Handle) bool {
	spec, ok := r.byHandle[h]
	if !ok {
		return false
	}
	if r.onRevoked != nil {
		r.onRevoked(spec)
	}
	delete(r.byHandle, h)
	r.specs = slices.DeleteFunc(r.specs, func(s *Spec) bool { return s.handle == h })
	r.handles.destroy(h)
	return true
}

func (r *Registry) pendingGrant(h Handle) bool {
	for _, change := range r.pending {
		if change.grant != nil && change.grant.handle == h {
			return true
		}
	}
	return false
}

func (r *Registry) pendingRevoke(h Handle) bool {
	for _, change := range r.pending {
		if change.grant == nil && change.revoke == h {
			return true
		}
	}
	return false
}
