package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/ecs"
	"github.com/milk9111/abilitysystem/ecs/component"
	"github.com/milk9111/abilitysystem/ecs/entity"
	"github.com/milk9111/abilitysystem/ecs/system"
	"github.com/milk9111/abilitysystem/prefabs"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

// runReport is the outcome of one replay.
type runReport struct {
	RunID      string   `yaml:"run_id"`
	Character  string   `yaml:"character"`
	Ticks      int      `yaml:"ticks"`
	Lines      []string `yaml:"lines"`
	Active     []string `yaml:"active"`
	Replicated []string `yaml:"replicated,omitempty"`
}

// logReplicator records cancels flagged for replication.
type logReplicator struct {
	lines []string
}

func (r *logReplicator) AbilityCanceled(h ability.Handle, inst *ability.Instance) {
	r.lines = append(r.lines, fmt.Sprintf("cancel %s handle=%s serial=%d", inst.Definition().Name, h, inst.Serial()))
}

// traceStepSystem applies the trace step scheduled for the current tick.
type traceStepSystem struct {
	steps  map[int][]prefabs.TraceStep
	target ecs.Entity
}

func newTraceStepSystem(trace prefabs.TraceSpec, target ecs.Entity) *traceStepSystem {
	steps := make(map[int][]prefabs.TraceStep, len(trace.Steps))
	for _, s := range trace.Steps {
		steps[s.Tick] = append(steps[s.Tick], s)
	}
	return &traceStepSystem{steps: steps, target: target}
}

func (s *traceStepSystem) Update(w *ecs.World) {
	as, ok := ecs.Get(w, s.target, component.AbilitySystemComponent.Kind())
	if !ok || as.System == nil {
		return
	}
	sys := as.System
	for _, step := range s.steps[int(w.Tick())-1] {
		for _, t := range prefabs.Tags(step.AddTags) {
			sys.AddLooseTag(t)
		}
		for _, t := range prefabs.Tags(step.RemoveTags) {
			sys.RemoveLooseTag(t)
		}
		for _, t := range prefabs.Tags(step.Release) {
			sys.Queue().Release(t)
		}
		for _, t := range prefabs.Tags(step.Press) {
			sys.Queue().Press(t)
		}
		if err := applyCancel(sys, step); err != nil {
			log.Printf("abilitysim: tick %d: %v", step.Tick, err)
		}
	}
}

func applyCancel(sys *ability.System, step prefabs.TraceStep) error {
	switch c := strings.TrimSpace(step.Cancel); c {
	case "":
	case "input":
		sys.CancelInputActivatedAbilities(step.Replicate)
	case "all":
		sys.CancelAbilitiesByFunc(func(*ability.Instance, ability.Handle) bool { return true }, step.Replicate)
	default:
		var g ability.ActivationGroup
		if err := g.UnmarshalText([]byte(c)); err != nil {
			return fmt.Errorf("cancel %q: %w", c, err)
		}
		sys.CancelActivationGroupAbilities(g, nil, step.Replicate)
	}

	if step.CancelScript != "" {
		pred, err := system.ScriptCancelPredicate(step.CancelScript, sys)
		if err != nil {
			return err
		}
		sys.CancelAbilitiesByFunc(pred, step.Replicate)
	}
	return nil
}

// runTrace replays trace against the character prefab and returns the
// report. Each formatted trace line is also written to out when non-nil.
func runTrace(cfg simConfig, trace prefabs.TraceSpec, character string, out io.Writer) (*runReport, error) {
	if character == "" {
		character = trace.Character
	}
	if character == "" {
		character = cfg.Character
	}

	var logger ability.Logger = log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.Default()
	}
	rep := &logReplicator{}
	report := &runReport{RunID: uuid.NewString(), Ticks: trace.LastTick()}

	w := ecs.NewWorld()
	e, err := entity.BuildCharacter(w, character, entity.CharacterOptions{
		Logger:     logger,
		Strict:     cfg.Strict,
		Replicator: rep,
		Behaviors:  system.ScriptBehaviors(),
	})
	if err != nil {
		return nil, err
	}
	if name, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		report.Character = name.Value
	}
	if tr, ok := ecs.Get(w, e, component.AbilityTraceComponent.Kind()); ok {
		tr.Max = cfg.TraceLines
	}

	traceSys := system.NewAbilityTraceSystem()
	traceSys.Sink = func(_ ecs.Entity, line string) {
		report.Lines = append(report.Lines, line)
		if out != nil {
			fmt.Fprintln(out, line)
		}
	}

	w.AddSystemPhase(ecs.PhaseReport, traceSys)
	w.AddSystemPhase(ecs.PhaseAbilities, system.NewAbilityInputSystem())
	w.AddSystemPhase(ecs.PhaseAbilities, system.NewAbilityTickSystem())
	w.AddSystemPhase(ecs.PhaseInput, newTraceStepSystem(trace, e))

	for i := 0; i < report.Ticks; i++ {
		w.Update()
	}

	if as, ok := ecs.Get(w, e, component.AbilitySystemComponent.Kind()); ok {
		for _, spec := range as.System.Registry().Specs() {
			if spec.IsActive() {
				report.Active = append(report.Active, spec.Definition().Name)
			}
		}
	}
	report.Replicated = rep.lines
	return report, nil
}

func replay(ctx *cli.Context, cfg simConfig) error {
	if tracePath == "" {
		tracePath = ctx.Args().First()
	}
	if tracePath == "" {
		return cli.NewExitError("replay: a trace file is required (--trace)", 1)
	}
	if strictMode {
		cfg.Strict = true
	}

	trace, err := prefabs.LoadTraceSpec(tracePath)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if yamlReport {
		out = nil
	}
	report, err := runTrace(cfg, trace, characterPath, out)
	if err != nil {
		return err
	}

	if yamlReport {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(report)
	}
	fmt.Printf("run %s: %s, %d ticks, active at end: %s\n", report.RunID, report.Character, report.Ticks, strings.Join(report.Active, ", "))
	for _, line := range report.Replicated {
		fmt.Printf("replicated %s\n", line)
	}
	return nil
}

func validate(ctx *cli.Context, cfg simConfig) error {
	character := characterPath
	if character == "" {
		character = ctx.Args().First()
	}
	if character == "" {
		character = cfg.Character
	}

	spec, err := prefabs.LoadCharacterSpec(character)
	if err != nil {
		return err
	}
	w := ecs.NewWorld()
	if _, err := entity.BuildCharacterFromSpec(w, spec, character, entity.CharacterOptions{
		Logger:    log.Default(),
		Strict:    true,
		Behaviors: system.ScriptBehaviors(),
	}); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d abilities, %d bindings)\n", character, len(spec.Abilities), len(spec.Bindings))
	return nil
}
