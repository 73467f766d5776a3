package ecs

import (
	"fmt"

	"github.com/milk9111/abilitysystem/ecs/component"
)

// Add stores value as e's component of the given kind, replacing any previous
// value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return fmt.Errorf("add %s: %w", kind.Name(), component.ErrInvalidComponentKind)
	}
	if value == nil {
		return fmt.Errorf("add %s to entity %s: %w", kind.Name(), e, component.ErrNilComponent)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("add %s to entity %s: %w", kind.Name(), e, component.ErrEntityNotAlive)
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && w.store(kind.ID(), false).Has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e.id()).(*T)
	return v, ok
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, id := range w.store(kind.ID(), false).ids() {
		if e, ok := w.entities.current(id); ok {
			return e, true
		}
	}
	return 0, false
}

func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil {
		return
	}
	s := w.store(kind.ID(), false)
	for _, id := range s.ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.Get(id).(*T); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil {
		return
	}
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	for _, id := range intersect(sa, sb) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil {
		return
	}
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	for _, id := range intersect(sa, sb, sc) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		c, okC := sc.Get(id).(*C)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil {
		return
	}
	sa, sb, sc, sd := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false), w.store(kd.ID(), false)
	for _, id := range intersect(sa, sb, sc, sd) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		c, okC := sc.Get(id).(*C)
		d, okD := sd.Get(id).(*D)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}
