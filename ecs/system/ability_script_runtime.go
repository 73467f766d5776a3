package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/abilitysystem/ability"
	"github.com/milk9111/abilitysystem/prefabs"
)

const abilityLifecycleDispatchScript = `
if __phase == "activate" {
	on_activate(__ability, __state)
} else if __phase == "pressed" {
	on_input_pressed(__ability, __state)
} else if __phase == "released" {
	on_input_released(__ability, __state)
} else if __phase == "end" {
	on_end(__ability, __state, __canceled)
}
`

const cancelPredicateDispatchScript = `
if __phase == "check" {
	__result = should_cancel(__ability)
}
`

// ScriptBehavior runs an ability's lifecycle through a tengo script defining
// on_activate, on_input_pressed, on_input_released and on_end.
type ScriptBehavior struct {
	scriptPath string
	compiled   *tengo.Compiled
	// per-instance script state, dropped when the instance ends
	state map[*ability.Instance]*tengo.Map
}

// NewScriptBehavior loads and compiles the behaviour script at path.
func NewScriptBehavior(path string) (*ScriptBehavior, error) {
	compiled, err := compileScript(path, abilityLifecycleDispatchScript, map[string]any{
		"__phase":    "",
		"__ability":  map[string]any{},
		"__state":    map[string]any{},
		"__canceled": false,
	})
	if err != nil {
		return nil, err
	}
	return &ScriptBehavior{
		scriptPath: path,
		compiled:   compiled,
		state:      make(map[*ability.Instance]*tengo.Map),
	}, nil
}

// ScriptBehaviors returns a behaviour factory resolving AbilitySpec.Script.
// Each ability gets its own compiled script.
func ScriptBehaviors() func(spec prefabs.AbilitySpec) (ability.Behavior, error) {
	return func(spec prefabs.AbilitySpec) (ability.Behavior, error) {
		return NewScriptBehavior(spec.Script)
	}
}

func (b *ScriptBehavior) Activate(ctx *ability.BehaviorContext) {
	b.run("activate", ctx, false)
}

func (b *ScriptBehavior) InputPressed(ctx *ability.BehaviorContext) {
	b.run("pressed", ctx, false)
}

func (b *ScriptBehavior) InputReleased(ctx *ability.BehaviorContext) {
	b.run("released", ctx, false)
}

func (b *ScriptBehavior) End(ctx *ability.BehaviorContext, canceled bool) {
	b.run("end", ctx, canceled)
	delete(b.state, ctx.Instance)
}

func (b *ScriptBehavior) run(phase string, ctx *ability.BehaviorContext, canceled bool) {
	if b == nil || b.compiled == nil || ctx == nil {
		return
	}
	st, ok := b.state[ctx.Instance]
	if !ok {
		st = &tengo.Map{Value: map[string]tengo.Object{}}
		b.state[ctx.Instance] = st
	}

	// EndSelf may be requested by the script; run it after the script
	// returns so End does not re-enter the compiled script.
	endRequested := false
	engine := buildAbilityScriptEngine(ctx, func() { endRequested = true })

	vars := map[string]any{
		"__phase":    phase,
		"__ability":  engine,
		"__state":    st,
		"__canceled": canceled,
	}
	for name, v := range vars {
		if err := b.compiled.Set(name, v); err != nil {
			ctx.Logf("script %s: set %s: %v", b.scriptPath, name, err)
			return
		}
	}
	if err := b.compiled.Run(); err != nil {
		ctx.Logf("script %s: %s error: %v", b.scriptPath, phase, err)
		return
	}
	if endRequested && phase != "end" && ctx.EndSelf != nil {
		ctx.EndSelf()
	}
}

// ScriptCancelPredicate compiles a script defining should_cancel(ability) and
// returns it as a cancellation predicate. Script errors never cancel.
func ScriptCancelPredicate(path string, owner *ability.System) (ability.ShouldCancelFunc, error) {
	compiled, err := compileScript(path, cancelPredicateDispatchScript, map[string]any{
		"__phase":   "",
		"__ability": map[string]any{},
		"__result":  false,
	})
	if err != nil {
		return nil, err
	}
	// noop run to resolve top-level definitions before the first check
	if err := compiled.Run(); err != nil {
		return nil, err
	}

	return func(inst *ability.Instance, h ability.Handle) bool {
		engine := buildCancelScriptEngine(inst, h, owner)
		if err := compiled.Set("__phase", "check"); err != nil {
			return false
		}
		if err := compiled.Set("__ability", engine); err != nil {
			return false
		}
		if err := compiled.Set("__result", false); err != nil {
			return false
		}
		if err := compiled.Run(); err != nil {
			return false
		}
		return compiled.Get("__result").Bool()
	}, nil
}

func compileScript(path, dispatch string, globals map[string]any) (*tengo.Compiled, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ability script: empty path")
	}
	scriptBytes, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("ability script %s: %w", path, err)
	}

	src := string(scriptBytes) + "\n" + dispatch
	script := tengo.NewScript([]byte(src))
	for name, v := range globals {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("ability script %s: %w", path, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ability script %s: %w", path, err)
	}
	return compiled, nil
}

func buildAbilityScriptEngine(ctx *ability.BehaviorContext, requestEnd func()) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	inst := ctx.Instance
	if inst != nil && inst.Definition() != nil {
		values["name"] = &tengo.String{Value: inst.Definition().Name}
	}

	values["frames"] = &tengo.UserFunction{Name: "frames", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if inst == nil {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(inst.FramesActive())}, nil
	}}

	values["end"] = &tengo.UserFunction{Name: "end", Value: func(args ...tengo.Object) (tengo.Object, error) {
		requestEnd()
		return tengo.TrueValue, nil
	}}

	values["has_tag"] = &tengo.UserFunction{Name: "has_tag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.HasTag == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if ctx.HasTag(ability.Tag(objectAsString(args[0]))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Logf == nil || len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		ctx.Logf("%s", objectAsString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func buildCancelScriptEngine(inst *ability.Instance, h ability.Handle, owner *ability.System) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"handle": &tengo.Int{Value: int64(h)},
	}
	if def := inst.Definition(); def != nil {
		tags := make([]tengo.Object, 0, len(def.Tags))
		for _, t := range def.Tags {
			tags = append(tags, &tengo.String{Value: string(t)})
		}
		values["name"] = &tengo.String{Value: def.Name}
		values["group"] = &tengo.String{Value: def.ActivationGroup.String()}
		values["policy"] = &tengo.String{Value: def.ActivationPolicy.String()}
		values["tags"] = &tengo.ImmutableArray{Value: tags}
	}
	values["frames"] = &tengo.Int{Value: int64(inst.FramesActive())}
	values["has_tag"] = &tengo.UserFunction{Name: "has_tag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if owner == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if owner.HasMatchingTag(ability.Tag(objectAsString(args[0]))) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
