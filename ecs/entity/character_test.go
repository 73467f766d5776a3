package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/prefabs"
)

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func stubBehaviors(spec prefabs.AbilitySpec) (ability.Behavior, error) {
	return ability.BehaviorFuncs{}, nil
}

func eventTypes(w *ecs.World) []string {
	var out []string
	for _, evt := range w.Events().Drain() {
		out = append(out, evt.Type)
	}
	return out
}

func TestBuildCharacterFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildCharacter(w, "character.yaml", CharacterOptions{Logger: discardLogger{}, Behaviors: stubBehaviors})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		t.Fatalf("expected player tag")
	}
	name, ok := ecs.Get(w, e, component.NameComponent.Kind())
	if !ok || name.Value != "player" {
		t.Fatalf("unexpected name %+v", name)
	}
	bindings, ok := ecs.Get(w, e, component.InputBindingsComponent.Kind())
	if !ok || len(bindings.Bindings) == 0 {
		t.Fatalf("expected bindings")
	}
	as, ok := ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	if !ok || as.System == nil || as.Prefab != "character.yaml" {
		t.Fatalf("expected ability system component, got %+v", as)
	}

	if got := eventTypes(w); len(got) != 1 || got[0] != ecs.EventAbilityActivated {
		t.Fatalf("expected the on-spawn ability to activate, got %v", got)
	}

	as.System.Queue().Press("Input.Fire")
	as.System.ProcessInput()
	if got := eventTypes(w); len(got) != 1 || got[0] != ecs.EventAbilityActivated {
		t.Fatalf("expected fire to activate, got %v", got)
	}
}

func TestBuildCharacterRequiresBehaviorFactory(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildCharacter(w, "character.yaml", CharacterOptions{Logger: discardLogger{}})
	if !errors.Is(err, ErrNoBehaviorFactory) {
		t.Fatalf("expected ErrNoBehaviorFactory, got %v", err)
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed build must not leave entities, got %d", n)
	}
}

func TestBuildCharacterFromSpec(t *testing.T) {
	spec := prefabs.CharacterSpec{
		Name:      "dummy",
		LooseTags: []string{"State.Armed"},
		Abilities: []prefabs.AbilitySpec{
			{Name: "block", Input: []string{"Input.Block"}, Activation: ability.WhileInputActive, EndOnRelease: true},
		},
		Relationships: []prefabs.RelationshipSpec{
			{AbilityTag: "Ability.Block", Required: []string{"State.Armed"}},
		},
	}

	w := ecs.NewWorld()
	e, err := BuildCharacterFromSpec(w, spec, "", CharacterOptions{Logger: discardLogger{}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		t.Fatalf("non-player must not be tagged")
	}
	as, _ := ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	sys := as.System
	if !sys.HasMatchingTag("State.Armed") {
		t.Fatalf("expected starting loose tag")
	}
	if sys.TagRelationshipMapping() == nil {
		t.Fatalf("expected relationship mapping installed")
	}

	sys.InputTagPressed("Input.Block")
	sys.ProcessInput()
	sys.InputTagReleased("Input.Block")
	sys.ProcessInput()

	got := eventTypes(w)
	want := []string{ecs.EventAbilityActivated, ecs.EventAbilityEnded}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestBuildCharacterRegistersGlobal(t *testing.T) {
	g := ability.NewGlobalAbilitySystem()
	g.ApplyAbilityToAll(&ability.Definition{Name: "respawn_shield"})

	w := ecs.NewWorld()
	spec := prefabs.CharacterSpec{Name: "dummy"}
	e, err := BuildCharacterFromSpec(w, spec, "", CharacterOptions{Logger: discardLogger{}, Global: g})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	as, _ := ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	if as.System.Global() != g || as.System.Registry().Len() != 1 {
		t.Fatalf("expected global ability granted on build")
	}
}

func TestRebuildCharacterCarriesTagStacks(t *testing.T) {
	w := ecs.NewWorld()
	opts := CharacterOptions{Logger: discardLogger{}, Behaviors: stubBehaviors}
	e, err := BuildCharacter(w, "character.yaml", opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	as, _ := ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	old := as.System
	if err := old.AddDynamicTagEffect(ability.TagAbilityInputBlocked); err != nil {
		t.Fatalf("add dynamic tag: %v", err)
	}
	old.AddLooseTag("State.Wet")
	old.AddLooseTag("State.Wet")

	if err := RebuildCharacter(w, e, opts); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	as, _ = ecs.Get(w, e, component.AbilitySystemComponent.Kind())
	sys := as.System
	if sys == old {
		t.Fatalf("expected a fresh ability system")
	}

	if !sys.HasMatchingTag(ability.TagAbilityInputBlocked) {
		t.Fatalf("input block lost on rebuild")
	}
	if err := sys.RemoveDynamicTagEffect(ability.TagAbilityInputBlocked); err != nil {
		t.Fatalf("remove dynamic tag after rebuild: %v", err)
	}
	if sys.HasMatchingTag(ability.TagAbilityInputBlocked) {
		t.Fatalf("input block still set after removing the dynamic tag")
	}

	for i := range 2 {
		if !sys.RemoveLooseTag("State.Wet") {
			t.Fatalf("loose stack %d not carried over", i+1)
		}
	}
	if sys.HasMatchingTag("State.Wet") {
		t.Fatalf("extra loose stack carried over")
	}
}
