package system

import (
	"testing"

	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
)

type fakeKeys struct {
	pressed  map[string]bool
	released map[string]bool
}

func (k *fakeKeys) JustPressed(key string) bool  { return k.pressed[key] }
func (k *fakeKeys) JustReleased(key string) bool { return k.released[key] }

func (k *fakeKeys) set(pressed, released []string) {
	k.pressed = map[string]bool{}
	k.released = map[string]bool{}
	for _, p := range pressed {
		k.pressed[p] = true
	}
	for _, r := range released {
		k.released[r] = true
	}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func newAbilityEntity(t *testing.T, w *ecs.World, bindings ...component.InputBinding) (ecs.Entity, *ability.System) {
	t.Helper()
	sys := ability.NewSystem(ability.Config{Logger: discardLogger{}})
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.AbilitySystemComponent.Kind(), &component.AbilitySystem{System: sys}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.InputBindingsComponent.Kind(), &component.InputBindings{Bindings: bindings}); err != nil {
		t.Fatal(err)
	}
	return e, sys
}

func TestInputSystemQueuesBoundTags(t *testing.T) {
	tests := []struct {
		name     string
		pressed  []string
		released []string
		want     []ability.InputEvent
	}{
		{
			name:    "press",
			pressed: []string{"Space"},
			want:    []ability.InputEvent{{Tag: "Input.Dash", Kind: ability.InputPress}},
		},
		{
			name:     "release",
			released: []string{"MouseRight"},
			want:     []ability.InputEvent{{Tag: "Input.Aim", Kind: ability.InputRelease}},
		},
		{
			name:    "unbound_key",
			pressed: []string{"Q"},
		},
		{
			name:     "binding_order",
			pressed:  []string{"MouseRight"},
			released: []string{"Space"},
			want: []ability.InputEvent{
				{Tag: "Input.Dash", Kind: ability.InputRelease},
				{Tag: "Input.Aim", Kind: ability.InputPress},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, sys := newAbilityEntity(t, w,
				component.InputBinding{Key: "Space", Tag: "Input.Dash"},
				component.InputBinding{Key: "MouseRight", Tag: "Input.Aim"},
			)
			keys := &fakeKeys{}
			keys.set(tc.pressed, tc.released)

			NewInputSystem(keys).Update(w)

			got := sys.Queue().Drain()
			if len(got) != len(tc.want) {
				t.Fatalf("events = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("event %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestInputThroughAbilitySystems(t *testing.T) {
	w := ecs.NewWorld()
	e, sys := newAbilityEntity(t, w, component.InputBinding{Key: "MouseRight", Tag: "Input.Aim"})
	h := sys.Grant(&ability.Definition{Name: "aim", ActivationPolicy: ability.WhileInputActive, Behavior: ability.EndOnRelease}, 0, "Input.Aim")
	if err := ecs.Add(w, e, component.AbilityTraceComponent.Kind(), &component.AbilityTrace{}); err != nil {
		t.Fatal(err)
	}

	keys := &fakeKeys{}
	w.AddSystem(NewInputSystem(keys))
	w.AddSystem(NewAbilityInputSystem())
	w.AddSystem(NewAbilityTickSystem())

	keys.set([]string{"MouseRight"}, nil)
	w.Update()
	spec, _ := sys.FindSpec(h)
	if !spec.IsActive() {
		t.Fatalf("expected aim active after press")
	}

	keys.set(nil, nil)
	w.Update()
	w.Update()
	if got := spec.Instances()[0].FramesActive(); got != 3 {
		t.Fatalf("frames = %d, want 3", got)
	}

	keys.set(nil, []string{"MouseRight"})
	w.Update()
	if spec.IsActive() {
		t.Fatalf("expected aim ended on release")
	}
}
