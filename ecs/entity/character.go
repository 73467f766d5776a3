package entity

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/prefabs"
)

var ErrNoBehaviorFactory = errors.New("character: ability script needs a behavior factory")

// BehaviorFactory resolves the scripted behaviour of an ability.
type BehaviorFactory func(spec prefabs.AbilitySpec) (ability.Behavior, error)

// AbilityEvent is the payload of the ability events pushed to the world
// event queue.
type AbilityEvent struct {
	Entity   ecs.Entity
	Ability  string
	Handle   ability.Handle
	Canceled bool
}

type CharacterOptions struct {
	Logger     ability.Logger
	Strict     bool
	Global     *ability.GlobalAbilitySystem
	Replicator ability.Replicator
	Behaviors  BehaviorFactory
}

// BuildCharacter loads the character prefab and spawns it.
func BuildCharacter(w *ecs.World, prefab string, opts CharacterOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadCharacterSpec(prefab)
	if err != nil {
		return 0, err
	}
	return BuildCharacterFromSpec(w, spec, prefab, opts)
}

func BuildCharacterFromSpec(w *ecs.World, spec prefabs.CharacterSpec, prefab string, opts CharacterOptions) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("character: nil world")
	}
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	sys, err := newAbilitySystem(w, e, spec, opts)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("character %s: %w", spec.Name, err)
	}

	if err := addCharacterComponents(w, e, spec, prefab, sys); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	if opts.Global != nil {
		opts.Global.Register(sys)
	}
	return e, nil
}

// RebuildCharacter reloads the prefab of e and swaps in a fresh ability
// system. Running abilities of the old system are cancelled; loose tags it
// carried are kept.
func RebuildCharacter(w *ecs.World, e ecs.Entity, opts CharacterOptions) error {
	as, ok := ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	if !ok {
		return fmt.Errorf("character: entity %s has no ability system", e)
	}
	spec, err := prefabs.LoadCharacterSpec(as.Prefab)
	if err != nil {
		return err
	}

	sys, err := newAbilitySystem(w, e, spec, opts)
	if err != nil {
		return fmt.Errorf("character %s: %w", spec.Name, err)
	}

	if old := as.System; old != nil {
		carryTags(old, sys, prefabs.Tags(spec.LooseTags))
		old.CancelAbilitiesByFunc(func(*ability.Instance, ability.Handle) bool { return true }, false)
		old.EndPlay()
	}

	if err := addCharacterComponents(w, e, spec, as.Prefab, sys); err != nil {
		return err
	}
	if opts.Global != nil {
		opts.Global.Register(sys)
	}
	return nil
}

// carryTags copies the owner tags of from into to. Dynamic stacks go back
// through the dynamic tag effect so they can still be removed; loose stacks
// the new prefab starts with are not duplicated.
func carryTags(from, to *ability.System, startTags ability.TagSet) {
	dynamic := from.DynamicTagStacks()
	for _, t := range sortedTags(dynamic) {
		for range dynamic[t] {
			if err := to.AddDynamicTagEffect(t); err != nil {
				break
			}
		}
	}
	loose := from.LooseTagStacks()
	for _, t := range sortedTags(loose) {
		if startTags.HasExact(t) {
			continue
		}
		for range loose[t] {
			to.AddLooseTag(t)
		}
	}
}

func sortedTags(stacks map[ability.Tag]int) []ability.Tag {
	return slices.Sorted(maps.Keys(stacks))
}

func addCharacterComponents(w *ecs.World, e ecs.Entity, spec prefabs.CharacterSpec, prefab string, sys *ability.System) error {
	bindings := &component.InputBindings{}
	for _, b := range spec.Bindings {
		bindings.Bindings = append(bindings.Bindings, component.InputBinding{Key: b.Key, Tag: ability.Tag(b.Tag)})
	}

	trace := &component.AbilityTrace{Max: spec.TraceLines}
	if old, ok := ecs.Get(w, e, component.AbilityTraceComponent.Kind()); ok {
		trace.Lines = slices.Clone(old.Lines)
	}

	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.AbilitySystemComponent.Kind(), &component.AbilitySystem{System: sys, Prefab: prefab}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.InputBindingsComponent.Kind(), bindings); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.AbilityTraceComponent.Kind(), trace); err != nil {
		return err
	}
	if spec.Player {
		return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	}
	_ = ecs.Remove(w, e, component.PlayerTagComponent.Kind())
	return nil
}

func newAbilitySystem(w *ecs.World, e ecs.Entity, spec prefabs.CharacterSpec, opts CharacterOptions) (*ability.System, error) {
	defs := make([]*ability.Definition, 0, len(spec.Abilities))
	for _, as := range spec.Abilities {
		def, err := abilityDefinition(w, e, as, opts)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	sys := ability.NewSystem(ability.Config{
		Logger:           opts.Logger,
		Strict:           opts.Strict || spec.Strict,
		Replicator:       opts.Replicator,
		BlockingTag:      ability.Tag(spec.BlockingTag),
		DynamicTagEffect: spec.DynamicTagEffect,
		Effects:          ability.NewEffectSet(spec.Effects...),
		InputQueueSize:   spec.InputQueueSize,
	})
	sys.SetTagRelationshipMapping(spec.Mapping())
	for _, t := range prefabs.Tags(spec.LooseTags) {
		sys.AddLooseTag(t)
	}
	for i, as := range spec.Abilities {
		sys.Grant(defs[i], as.Level, as.InputTags()...)
	}
	return sys, nil
}

func abilityDefinition(w *ecs.World, e ecs.Entity, as prefabs.AbilitySpec, opts CharacterOptions) (*ability.Definition, error) {
	def := as.Definition()

	var inner ability.Behavior
	switch {
	case as.Script != "":
		if opts.Behaviors == nil {
			return nil, fmt.Errorf("ability %s: %w", as.Name, ErrNoBehaviorFactory)
		}
		b, err := opts.Behaviors(as)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", as.Name, err)
		}
		inner = b
	case as.EndOnRelease:
		inner = ability.EndOnRelease
	}

	def.Behavior = &tracingBehavior{inner: inner, world: w, entity: e}
	return def, nil
}

// tracingBehavior publishes lifecycle events to the world before delegating.
type tracingBehavior struct {
	inner  ability.Behavior
	world  *ecs.World
	entity ecs.Entity
}

func (b *tracingBehavior) Activate(ctx *ability.BehaviorContext) {
	b.push(ecs.EventAbilityActivated, ctx, false)
	if b.inner != nil {
		b.inner.Activate(ctx)
	}
}

func (b *tracingBehavior) InputPressed(ctx *ability.BehaviorContext) {
	if b.inner != nil {
		b.inner.InputPressed(ctx)
	}
}

func (b *tracingBehavior) InputReleased(ctx *ability.BehaviorContext) {
	if b.inner != nil {
		b.inner.InputReleased(ctx)
	}
}

func (b *tracingBehavior) End(ctx *ability.BehaviorContext, canceled bool) {
	if b.inner != nil {
		b.inner.End(ctx, canceled)
	}
	evt := ecs.EventAbilityEnded
	if canceled {
		evt = ecs.EventAbilityCanceled
	}
	b.push(evt, ctx, canceled)
}

func (b *tracingBehavior) push(kind string, ctx *ability.BehaviorContext, canceled bool) {
	if b.world == nil || ctx == nil || ctx.Instance == nil {
		return
	}
	b.world.Events().Push(ecs.Event{Type: kind, Data: AbilityEvent{
		Entity:   b.entity,
		Ability:  ctx.Instance.Definition().Name,
		Handle:   ctx.Instance.Handle(),
		Canceled: canceled,
	}})
}
