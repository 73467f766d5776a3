package system

import (
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
)

// KeySource reports per-frame key edges by binding key name.
type KeySource interface {
	JustPressed(key string) bool
	JustReleased(key string) bool
}

// InputSystem turns key edges into input tag events on the ability input
// queue of every entity with bindings.
type InputSystem struct {
	keys KeySource
}

func NewInputSystem(keys KeySource) *InputSystem {
	return &InputSystem{keys: keys}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.keys == nil {
		return
	}

	ecs.ForEach2(w, component.AbilitySystemComponent.Kind(), component.InputBindingsComponent.Kind(), func(e ecs.Entity, as *component.AbilitySystem, bindings *component.InputBindings) {
		if as.System == nil {
			return
		}
		queue := as.System.Queue()
		for _, b := range bindings.Bindings {
			if i.keys.JustPressed(b.Key) {
				queue.Press(b.Tag)
			}
			if i.keys.JustReleased(b.Key) {
				queue.Release(b.Tag)
			}
		}
	})
}
