package ability

// Definition is the static description of an ability shared by every spec
// that grants it.
type Definition struct {
	Name             string
	Tags             TagSet
	ActivationPolicy ActivationPolicy
	ActivationGroup  ActivationGroup
	InstancingPolicy InstancingPolicy
	// NonCancelable instances ignore predicate-driven cancellation. Per-actor
	// definitions must leave this false.
	NonCancelable bool
	// CooldownFrames is armed on every successful activation.
	CooldownFrames int
	// DurationFrames ends the instance after that many ticks; zero runs until
	// the behaviour ends it or it is cancelled.
	DurationFrames         int
	ActivationRequiredTags TagSet
	ActivationBlockedTags  TagSet
	// CanActivate is the cost hook. A nil hook always allows activation.
	CanActivate func(spec *Spec) bool
	Behavior    Behavior
}

// Behavior is the runtime logic of an ability. Every method is invoked on the
// tick goroutine.
type Behavior interface {
	Activate(ctx *BehaviorContext)
	InputPressed(ctx *BehaviorContext)
	InputReleased(ctx *BehaviorContext)
	End(ctx *BehaviorContext, canceled bool)
}

// BehaviorContext gives a behaviour controlled access to its instance and
// owner without exposing the System.
type BehaviorContext struct {
	Instance *Instance
	Spec     *Spec
	EndSelf  func()
	HasTag   func(tag Tag) bool
	Logf     func(format string, args ...any)
}

// BehaviorFuncs adapts optional functions to Behavior.
type BehaviorFuncs struct {
	OnActivate      func(ctx *BehaviorContext)
	OnInputPressed  func(ctx *BehaviorContext)
	OnInputReleased func(ctx *BehaviorContext)
	OnEnd           func(ctx *BehaviorContext, canceled bool)
}

func (b BehaviorFuncs) Activate(ctx *BehaviorContext) {
	if b.OnActivate != nil {
		b.OnActivate(ctx)
	}
}

func (b BehaviorFuncs) InputPressed(ctx *BehaviorContext) {
	if b.OnInputPressed != nil {
		b.OnInputPressed(ctx)
	}
}

func (b BehaviorFuncs) InputReleased(ctx *BehaviorContext) {
	if b.OnInputReleased != nil {
		b.OnInputReleased(ctx)
	}
}

func (b BehaviorFuncs) End(ctx *BehaviorContext, canceled bool) {
	if b.OnEnd != nil {
		b.OnEnd(ctx, canceled)
	}
}

// EndOnRelease ends the instance when its input is released. It is the usual
// behaviour for WhileInputActive abilities.
var EndOnRelease Behavior = BehaviorFuncs{
	OnInputReleased: func(ctx *BehaviorContext) { ctx.EndSelf() },
}
