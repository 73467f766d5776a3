package ability

import "testing"

func TestGlobalAbilitySystem(t *testing.T) {
	g := NewGlobalAbilitySystem()
	a, _ := newTestSystem(t)
	b, _ := newTestSystem(t)
	def := &Definition{Name: "respawn_shield", ActivationPolicy: OnSpawn}

	g.Register(a)
	g.ApplyAbilityToAll(def)
	g.ApplyAbilityToAll(def)
	g.Register(b)

	for i, sys := range []*System{a, b} {
		if got := sys.Registry().Len(); got != 1 {
			t.Fatalf("system %d has %d specs, want 1", i, got)
		}
		if sys.Global() != g {
			t.Fatalf("system %d not attached", i)
		}
	}

	b.EndPlay()
	if b.Registry().Len() != 0 || b.Global() != nil {
		t.Fatalf("EndPlay must revoke global abilities and detach")
	}
	if len(g.Systems()) != 1 {
		t.Fatalf("expected one registered system")
	}

	g.RemoveAbilityFromAll(def)
	if a.Registry().Len() != 0 {
		t.Fatalf("expected ability removed from remaining systems")
	}
}
