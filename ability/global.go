package ability

import "slices"

// GlobalAbilitySystem applies abilities to every registered owner, including
// owners that register after the ability was applied.
type GlobalAbilitySystem struct {
	systems []*System
	applied []*globalAbility
}

type globalAbility struct {
	def     *Definition
	handles map[*System]Handle
}

func NewGlobalAbilitySystem() *GlobalAbilitySystem {
	return &GlobalAbilitySystem{}
}

// Register adds s and grants it every globally applied ability.
func (g *GlobalAbilitySystem) Register(s *System) {
	if s == nil || slices.Contains(g.systems, s) {
		return
	}
	if s.global != nil && s.global != g {
		s.global.Unregister(s)
	}
	g.systems = append(g.systems, s)
	s.global = g
	for _, ga := range g.applied {
		ga.handles[s] = s.Grant(ga.def, 0)
	}
}

// Unregister revokes the globally applied abilities from s and drops it.
func (g *GlobalAbilitySystem) Unregister(s *System) {
	idx := slices.Index(g.systems, s)
	if idx < 0 {
		return
	}
	g.systems = slices.Delete(g.systems, idx, idx+1)
	for _, ga := range g.applied {
		if h, ok := ga.handles[s]; ok {
			s.Revoke(h)
			delete(ga.handles, s)
		}
	}
	if s.global == g {
		s.global = nil
	}
}

// ApplyAbilityToAll grants def to every registered owner. Applying the same
// definition twice is a no-op.
func (g *GlobalAbilitySystem) ApplyAbilityToAll(def *Definition) {
	if def == nil || g.find(def) >= 0 {
		return
	}
	ga := &globalAbility{def: def, handles: make(map[*System]Handle, len(g.systems))}
	for _, s := range g.systems {
		ga.handles[s] = s.Grant(def, 0)
	}
	g.applied = append(g.applied, ga)
}

// RemoveAbilityFromAll revokes def from every owner it was applied to.
func (g *GlobalAbilitySystem) RemoveAbilityFromAll(def *Definition) {
	idx := g.find(def)
	if idx < 0 {
		return
	}
	ga := g.applied[idx]
	for s, h := range ga.handles {
		s.Revoke(h)
	}
	g.applied = slices.Delete(g.applied, idx, idx+1)
}

// Systems returns the registered owners in registration order.
func (g *GlobalAbilitySystem) Systems() []*System {
	return slices.Clone(g.systems)
}

func (g *GlobalAbilitySystem) find(def *Definition) int {
	return slices.IndexFunc(g.applied, func(ga *globalAbility) bool { return ga.def == def })
}
