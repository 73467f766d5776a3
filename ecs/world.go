package ecs

import "github.com/milk9111/abilitysystem/ecs/component"

// World owns entities, component stores, events and system order.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler Scheduler
	events    EventQueue
	tick      uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

// AddSystem appends a system to PhaseAbilities.
func (w *World) AddSystem(s System) {
	w.AddSystemPhase(PhaseAbilities, s)
}

// AddSystemPhase appends a system to phase.
func (w *World) AddSystemPhase(phase Phase, s System) {
	if w == nil {
		return
	}
	w.scheduler.AddPhase(phase, s)
}

// Systems returns the registered systems in run order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Update runs all systems once and drops undrained events.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.tick++
	w.scheduler.Update(w)
	w.events.flush()
}

// Tick returns the number of completed or running updates.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
