package ability

import (
	"errors"
	"testing"
)

func TestTryActivateAbilityErrors(t *testing.T) {
	sys, _ := newTestSystem(t)
	perActor := sys.Grant(&Definition{Name: "dash"}, 0)
	refused := sys.Grant(&Definition{Name: "broke", CanActivate: func(*Spec) bool { return false }}, 0)
	empty := sys.Grant(nil, 0)
	mustActivate(t, sys, perActor)

	tests := []struct {
		name string
		h    Handle
		want error
	}{
		{name: "unknown", h: makeHandle(99, 0), want: ErrUnknownHandle},
		{name: "nil_definition", h: empty, want: ErrNilDefinition},
		{name: "already_active", h: perActor, want: ErrAlreadyActive},
		{name: "can_activate_hook", h: refused, want: ErrCannotActivate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.TryActivateAbility(tt.h)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidGroupActivation(t *testing.T) {
	def := &Definition{Name: "broken", ActivationGroup: groupCount}

	sys, logger := newTestSystem(t)
	h := sys.Grant(def, 0)
	if err := sys.TryActivateAbility(h); !errors.Is(err, ErrInvalidGroup) {
		t.Fatalf("err = %v, want ErrInvalidGroup", err)
	}
	if mustSpec(t, sys, h).IsActive() {
		t.Fatalf("invalid group must not activate")
	}
	if !logger.contains("invalid activation group") {
		t.Fatalf("expected diagnostic, got %v", logger.lines)
	}

	strict := NewSystem(Config{Logger: &recordingLogger{}, Strict: true})
	sh := strict.Grant(def, 0)
	expectPanic(t, func() { _ = strict.TryActivateAbility(sh) })
}

func TestCooldownAndTick(t *testing.T) {
	sys, _ := newTestSystem(t)
	h := sys.Grant(&Definition{Name: "blink", CooldownFrames: 2, DurationFrames: 1}, 0)
	mustActivate(t, sys, h)

	sys.Tick()
	if mustSpec(t, sys, h).IsActive() {
		t.Fatalf("expected duration to end the instance")
	}
	if got := sys.CooldownRemaining(h); got != 1 {
		t.Fatalf("cooldown = %d, want 1", got)
	}
	if err := sys.TryActivateAbility(h); !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("err = %v, want ErrOnCooldown", err)
	}

	sys.Tick()
	if got := sys.CooldownRemaining(h); got != 0 {
		t.Fatalf("cooldown = %d, want 0", got)
	}
	mustActivate(t, sys, h)
}

func TestDurationEndsNormally(t *testing.T) {
	sys, _ := newTestSystem(t)
	var counts behaviorCounts
	h := sys.Grant(&Definition{Name: "roll", DurationFrames: 3, Behavior: counts.behavior()}, 0)
	mustActivate(t, sys, h)

	for i := 1; i <= 2; i++ {
		sys.Tick()
		spec := mustSpec(t, sys, h)
		if !spec.IsActive() {
			t.Fatalf("ended early at tick %d", i)
		}
		if got := spec.Instances()[0].FramesActive(); got != i {
			t.Fatalf("frames = %d, want %d", got, i)
		}
	}
	sys.Tick()

	if mustSpec(t, sys, h).IsActive() {
		t.Fatalf("expected instance ended after 3 ticks")
	}
	if counts.activated != 1 || counts.ended != 1 || counts.canceled != 0 {
		t.Fatalf("unexpected callbacks %+v", counts)
	}
}

func TestPerExecutionInstances(t *testing.T) {
	sys, _ := newTestSystem(t)
	h := sys.Grant(&Definition{Name: "shot", InstancingPolicy: InstancedPerExecution}, 0)
	mustActivate(t, sys, h)
	mustActivate(t, sys, h)
	mustActivate(t, sys, h)

	spec := mustSpec(t, sys, h)
	insts := spec.Instances()
	if spec.ActiveCount() != 3 || len(insts) != 3 {
		t.Fatalf("active=%d instances=%d, want 3", spec.ActiveCount(), len(insts))
	}
	if insts[0].Serial() >= insts[1].Serial() || insts[1].Serial() >= insts[2].Serial() {
		t.Fatalf("serials must increase in activation order")
	}

	insts[1].End()
	if spec.ActiveCount() != 2 || len(spec.Instances()) != 2 {
		t.Fatalf("expected one instance ended")
	}
	for _, inst := range spec.Instances() {
		inst.Cancel(false)
	}
	if spec.IsActive() || spec.Instances() != nil {
		t.Fatalf("inactive spec must report no instances")
	}
}

func TestTagRelationshipMapping(t *testing.T) {
	sys, _ := newTestSystem(t)
	sys.SetTagRelationshipMapping(&TagRelationshipMapping{Relationships: []TagRelationship{
		{AbilityTag: "Ability.Dash", BlockTags: NewTagSet("Ability.Fire"), CancelTags: NewTagSet("Ability.Reload")},
		{AbilityTag: "Ability.Fire", ActivationRequiredTags: NewTagSet("State.Armed"), ActivationBlockedTags: NewTagSet("State.Stunned")},
	}})

	dash := sys.Grant(&Definition{Name: "dash", Tags: NewTagSet("Ability.Dash")}, 0)
	fire := sys.Grant(&Definition{Name: "fire", Tags: NewTagSet("Ability.Fire"), InstancingPolicy: InstancedPerExecution}, 0)
	reload := sys.Grant(&Definition{Name: "reload", Tags: NewTagSet("Ability.Reload")}, 0)

	if err := sys.TryActivateAbility(fire); !errors.Is(err, ErrTagRequired) {
		t.Fatalf("err = %v, want ErrTagRequired", err)
	}
	sys.AddLooseTag("State.Armed")
	sys.AddLooseTag("State.Stunned")
	if err := sys.TryActivateAbility(fire); !errors.Is(err, ErrTagBlocked) {
		t.Fatalf("err = %v, want ErrTagBlocked", err)
	}
	sys.RemoveLooseTag("State.Stunned")
	mustActivate(t, sys, fire)

	mustActivate(t, sys, reload)
	mustActivate(t, sys, dash)
	if mustSpec(t, sys, reload).IsActive() {
		t.Fatalf("dash must cancel reload")
	}
	if !mustSpec(t, sys, fire).IsActive() {
		t.Fatalf("dash blocks fire but must not cancel it")
	}
	if err := sys.TryActivateAbility(fire); !errors.Is(err, ErrTagBlocked) {
		t.Fatalf("err = %v, want ErrTagBlocked while dash runs", err)
	}

	mustSpec(t, sys, dash).Instances()[0].End()
	mustActivate(t, sys, fire)
}

func TestDefinitionTagRequirements(t *testing.T) {
	sys, _ := newTestSystem(t)
	h := sys.Grant(&Definition{
		Name:                   "glide",
		ActivationRequiredTags: NewTagSet("State.Airborne"),
		ActivationBlockedTags:  NewTagSet("State.Rooted"),
	}, 0)

	if err := sys.TryActivateAbility(h); !errors.Is(err, ErrTagRequired) {
		t.Fatalf("err = %v, want ErrTagRequired", err)
	}
	sys.AddLooseTag("State.Airborne")
	sys.AddLooseTag("State.Rooted")
	if err := sys.TryActivateAbility(h); !errors.Is(err, ErrTagBlocked) {
		t.Fatalf("err = %v, want ErrTagBlocked", err)
	}
	sys.RemoveLooseTag("State.Rooted")
	mustActivate(t, sys, h)
}

func TestDynamicTagEffect(t *testing.T) {
	t.Run("missing_effect", func(t *testing.T) {
		sys, logger := newTestSystem(t)
		if err := sys.AddDynamicTagEffect("State.Slowed"); !errors.Is(err, ErrUnknownEffect) {
			t.Fatalf("err = %v, want ErrUnknownEffect", err)
		}
		if !logger.contains("unable to find dynamic tag effect") {
			t.Fatalf("expected warning, got %v", logger.lines)
		}
		if sys.HasMatchingTag("State.Slowed") {
			t.Fatalf("tag must not be applied")
		}
	})

	t.Run("add_and_remove", func(t *testing.T) {
		sys := NewSystem(Config{
			Logger:           &recordingLogger{},
			DynamicTagEffect: "GE_DynamicTag",
			Effects:          NewEffectSet("GE_DynamicTag"),
		})
		sys.AddLooseTag("State.Slowed")
		for i := 0; i < 2; i++ {
			if err := sys.AddDynamicTagEffect("State.Slowed"); err != nil {
				t.Fatalf("add: %v", err)
			}
		}
		if err := sys.RemoveDynamicTagEffect("State.Slowed"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if !sys.HasMatchingTag("State.Slowed") {
			t.Fatalf("loose stack must survive effect removal")
		}
		if err := sys.RemoveDynamicTagEffect("State.Slowed"); !errors.Is(err, ErrEffectNotActive) {
			t.Fatalf("err = %v, want ErrEffectNotActive", err)
		}
	})
}

func TestActiveAbilitiesWithTags(t *testing.T) {
	sys, _ := newTestSystem(t)
	melee := sys.Grant(&Definition{Name: "slash", Tags: NewTagSet("Ability.Attack", "Ability.Melee")}, 0)
	ranged := sys.Grant(&Definition{Name: "shot", Tags: NewTagSet("Ability.Attack"), InstancingPolicy: InstancedPerExecution}, 0)
	sys.Grant(&Definition{Name: "idle", Tags: NewTagSet("Ability.Attack")}, 0)
	mustActivate(t, sys, melee)
	mustActivate(t, sys, ranged)
	mustActivate(t, sys, ranged)

	tests := []struct {
		name string
		tags TagSet
		want int
	}{
		{name: "attack", tags: NewTagSet("Ability.Attack"), want: 3},
		{name: "melee", tags: NewTagSet("Ability.Attack", "Ability.Melee"), want: 1},
		{name: "none", tags: NewTagSet("Ability.Heal"), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(sys.ActiveAbilitiesWithTags(tt.tags)); got != tt.want {
				t.Fatalf("got %d instances, want %d", got, tt.want)
			}
		})
	}
}

func TestRevokeCancelsRunningAbility(t *testing.T) {
	sys, _ := newTestSystem(t)
	var counts behaviorCounts
	h := sys.Grant(&Definition{Name: "guard", ActivationGroup: ExclusiveBlocking, Behavior: counts.behavior()}, 0, "Input.Guard")
	sys.InputTagPressed("Input.Guard")
	sys.ProcessInput()
	if !mustSpec(t, sys, h).IsActive() {
		t.Fatalf("expected guard active")
	}

	if !sys.Revoke(h) {
		t.Fatalf("revoke failed")
	}
	if counts.canceled != 1 {
		t.Fatalf("expected cancel callback, got %+v", counts)
	}
	if sys.IsActivationGroupBlocked(ExclusiveReplaceable) {
		t.Fatalf("revoked exclusive ability must release its group")
	}
	if sys.Router().IsHeld(h) {
		t.Fatalf("revoked handle must not stay held")
	}
	if _, ok := sys.FindSpec(h); ok {
		t.Fatalf("revoked spec still findable")
	}
}

func TestOnSpawnActivatesOnGrant(t *testing.T) {
	sys, attempts := countingSystem(t, Config{})
	h := sys.Grant(&Definition{Name: "aura", ActivationPolicy: OnSpawn}, 0)
	if len(*attempts) != 1 || (*attempts)[0] != h {
		t.Fatalf("attempts = %v, want [%s]", *attempts, h)
	}
	if !mustSpec(t, sys, h).IsActive() {
		t.Fatalf("on-spawn ability must be running")
	}
	if spec := mustSpec(t, sys, h); spec.Level != sys.DefaultAbilityLevel() {
		t.Fatalf("level = %d, want default", spec.Level)
	}
}

func TestRevokeDuringScanReleasesGroups(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, sys *System) Handle
	}{
		{
			name: "on spawn grant revoked in same scan",
			setup: func(t *testing.T, sys *System) Handle {
				unlock := sys.Registry().Lock()
				h := sys.Grant(&Definition{Name: "aura", ActivationPolicy: OnSpawn, ActivationGroup: ExclusiveBlocking}, 0)
				sys.Revoke(h)
				unlock()
				return h
			},
		},
		{
			name: "activated after revoke in same scan",
			setup: func(t *testing.T, sys *System) Handle {
				h := sys.Grant(&Definition{Name: "guard", ActivationGroup: ExclusiveBlocking}, 0)
				sys.Registry().Scan(func(spec *Spec) {
					if spec.Handle() != h {
						return
					}
					if !sys.Revoke(h) {
						t.Fatalf("revoke during scan rejected")
					}
					mustActivate(t, sys, h)
				})
				return h
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			sys := NewSystem(Config{Logger: logger, Strict: true})
			h := tt.setup(t, sys)

			if _, ok := sys.FindSpec(h); ok {
				t.Fatalf("revoked spec still findable")
			}
			if got := sys.Tracker().Count(ExclusiveBlocking); got != 0 {
				t.Fatalf("blocking count = %d after revoke, want 0", got)
			}
			if sys.IsActivationGroupBlocked(ExclusiveReplaceable) {
				t.Fatalf("exclusive groups still blocked after revoke")
			}
			if sys.CooldownRemaining(h) != 0 {
				t.Fatalf("cooldown kept for revoked spec")
			}
		})
	}
}

func TestOnSpawnGrantFromActivateBehavior(t *testing.T) {
	sys, _ := newTestSystem(t)
	var late Handle
	sys.Grant(&Definition{
		Name:             "spawner",
		ActivationPolicy: OnSpawn,
		Behavior: BehaviorFuncs{OnActivate: func(*BehaviorContext) {
			late = sys.Grant(&Definition{Name: "summon", ActivationPolicy: OnSpawn}, 0)
		}},
	}, 0)

	if !late.Valid() {
		t.Fatalf("nested grant returned no handle")
	}
	if !mustSpec(t, sys, late).IsActive() {
		t.Fatalf("nested on-spawn grant must activate once applied")
	}
	if sys.Registry().Len() != 2 {
		t.Fatalf("len = %d, want 2", sys.Registry().Len())
	}
}
