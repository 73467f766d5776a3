package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/ecs/entity"
)

// AbilityInputSystem drains each ability system's input queue and runs the
// activation scheduler once per tick.
type AbilityInputSystem struct{}

func NewAbilityInputSystem() *AbilityInputSystem {
	return &AbilityInputSystem{}
}

func (s *AbilityInputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.AbilitySystemComponent.Kind(), func(e ecs.Entity, as *component.AbilitySystem) {
		if as.System != nil {
			as.System.ProcessInput()
		}
	})
}

// AbilityTickSystem advances cooldowns and durations after input has been
// processed.
type AbilityTickSystem struct{}

func NewAbilityTickSystem() *AbilityTickSystem {
	return &AbilityTickSystem{}
}

func (s *AbilityTickSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.AbilitySystemComponent.Kind(), func(e ecs.Entity, as *component.AbilitySystem) {
		if as.System != nil {
			as.System.Tick()
		}
	})
}

// AbilityTraceSystem drains ability lifecycle events into each entity's
// AbilityTrace. Run it last so every event of the tick is recorded.
type AbilityTraceSystem struct {
	// Sink, if set, also receives every formatted line.
	Sink func(e ecs.Entity, line string)
}

func NewAbilityTraceSystem() *AbilityTraceSystem {
	return &AbilityTraceSystem{}
}

func (s *AbilityTraceSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, evt := range w.Events().Drain() {
		ae, ok := evt.Data.(entity.AbilityEvent)
		if !ok {
			continue
		}
		verb := strings.TrimPrefix(strings.TrimPrefix(evt.Type, "ability_"), "prefab_")
		line := fmt.Sprintf("%04d %-9s %s", w.Tick(), verb, ae.Ability)
		if trace, ok := ecs.Get(w, ae.Entity, component.AbilityTraceComponent.Kind()); ok {
			trace.Append(line)
		}
		if s.Sink != nil {
			s.Sink(ae.Entity, line)
		}
	}
}
