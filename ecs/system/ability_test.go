package system

import (
	"fmt"
	"strings"
	"testing"

	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/ecs/entity"
)

func TestAbilityTraceSystemRecordsLifecycle(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	trace := &component.AbilityTrace{Max: 2}
	if err := ecs.Add(w, e, component.AbilityTraceComponent.Kind(), trace); err != nil {
		t.Fatal(err)
	}

	var sunk []string
	traceSys := NewAbilityTraceSystem()
	traceSys.Sink = func(_ ecs.Entity, line string) { sunk = append(sunk, line) }
	w.AddSystem(traceSys)

	w.Events().Push(ecs.Event{Type: ecs.EventAbilityActivated, Data: entity.AbilityEvent{Entity: e, Ability: "fire"}})
	w.Events().Push(ecs.Event{Type: "unrelated"})
	w.Events().Push(ecs.Event{Type: ecs.EventAbilityCanceled, Data: entity.AbilityEvent{Entity: e, Ability: "fire", Canceled: true}})
	w.Events().Push(ecs.Event{Type: ecs.EventAbilityActivated, Data: entity.AbilityEvent{Entity: e, Ability: "aim"}})
	w.Update()

	if len(sunk) != 3 {
		t.Fatalf("sink lines = %v", sunk)
	}
	if len(trace.Lines) != 2 {
		t.Fatalf("trace must keep the last 2 lines, got %v", trace.Lines)
	}
	if !strings.Contains(trace.Lines[0], "canceled") || !strings.Contains(trace.Lines[0], "fire") {
		t.Fatalf("unexpected line %q", trace.Lines[0])
	}
	if !strings.HasPrefix(trace.Lines[1], "0001 activated") {
		t.Fatalf("unexpected line %q", trace.Lines[1])
	}
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) contains(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

func TestScriptBehaviorLifecycle(t *testing.T) {
	logger := &recordingLogger{}
	sys := ability.NewSystem(ability.Config{Logger: logger})
	b, err := NewScriptBehavior("charge.tengo")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	h := sys.Grant(&ability.Definition{Name: "charge", Behavior: b}, 0, "Input.Charge")

	sys.InputTagPressed("Input.Charge")
	sys.ProcessInput()
	for i := 0; i < 3; i++ {
		sys.Tick()
	}
	sys.InputTagReleased("Input.Charge")
	sys.ProcessInput()

	spec, _ := sys.FindSpec(h)
	if spec.IsActive() {
		t.Fatalf("script must end the ability on release")
	}
	for _, want := range []string{"charge: charging", "charge: released at 3"} {
		if !logger.contains(want) {
			t.Fatalf("missing log %q in %v", want, logger.lines)
		}
	}
	if logger.contains("charge lost") {
		t.Fatalf("normal end must not report a cancel")
	}
	if len(b.state) != 0 {
		t.Fatalf("instance state must be dropped on end")
	}
}

func TestScriptBehaviorMissingScript(t *testing.T) {
	if _, err := NewScriptBehavior("does_not_exist.tengo"); err == nil {
		t.Fatalf("expected load error")
	}
	if _, err := NewScriptBehavior(""); err == nil {
		t.Fatalf("expected empty path error")
	}
}

func TestScriptCancelPredicate(t *testing.T) {
	sys := ability.NewSystem(ability.Config{Logger: discardLogger{}})
	fire := sys.Grant(&ability.Definition{Name: "fire", Tags: ability.NewTagSet("Ability.Fire")}, 0)
	dash := sys.Grant(&ability.Definition{Name: "dash", Tags: ability.NewTagSet("Ability.Dash", "Ability.Movement")}, 0)
	for _, h := range []ability.Handle{fire, dash} {
		if err := sys.TryActivateAbility(h); err != nil {
			t.Fatal(err)
		}
	}

	pred, err := ScriptCancelPredicate("cancel_stunned.tengo", sys)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	sys.CancelAbilitiesByFunc(pred, false)
	if spec, _ := sys.FindSpec(fire); !spec.IsActive() {
		t.Fatalf("nothing is cancelled while not stunned")
	}

	sys.AddLooseTag("State.Stunned")
	sys.CancelAbilitiesByFunc(pred, false)
	if spec, _ := sys.FindSpec(fire); spec.IsActive() {
		t.Fatalf("expected fire cancelled by stun")
	}
	if spec, _ := sys.FindSpec(dash); !spec.IsActive() {
		t.Fatalf("movement must survive stun")
	}
}
