package ability

import "fmt"

// Replicator forwards cancellations flagged for replication to the network
// layer.
type Replicator interface {
	AbilityCanceled(h Handle, inst *Instance)
}

// EffectCatalog resolves effect names configured on a System.
type EffectCatalog interface {
	HasEffect(name string) bool
}

// EffectSet is an EffectCatalog backed by a set of names.
type EffectSet map[string]struct{}

// NewEffectSet builds an EffectSet from names.
func NewEffectSet(names ...string) EffectSet {
	set := make(EffectSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s EffectSet) HasEffect(name string) bool {
	_, ok := s[name]
	return ok
}

// Config tunes a System. The zero value is usable.
type Config struct {
	Logger Logger
	// Strict turns precondition violations into panics. Builds tagged
	// abilitydebug are always strict.
	Strict bool
	// Activator overrides the standard activation checks.
	Activator  Activator
	Replicator Replicator
	// BlockingTag suspends input processing while the owner carries it.
	// Defaults to TagAbilityInputBlocked.
	BlockingTag Tag
	// DynamicTagEffect names the effect used by AddDynamicTagEffect; it must
	// resolve in Effects.
	DynamicTagEffect string
	Effects          EffectCatalog
	InputQueueSize   int
}

// System is the ability component of one owner. It composes the registry,
// group tracker, input router, scheduler and canceler, and implements the
// standard activation path.
type System struct {
	diag       diagnostics
	cfg        Config
	replicator Replicator

	registry  *Registry
	canceler  *Canceler
	tracker   *GroupTracker
	router    *InputRouter
	queue     *InputQueue
	scheduler *Scheduler
	activator Activator

	tags               TagCounts
	dynamicTags        TagCounts
	blockedAbilityTags TagCounts
	cooldowns          map[Handle]int
	mapping            *TagRelationshipMapping

	global *GlobalAbilitySystem
	serial uint64
}

func NewSystem(cfg Config) *System {
	diag := newDiagnostics(cfg.Logger, cfg.Strict)
	if cfg.InputQueueSize <= 0 {
		cfg.InputQueueSize = DefaultInputQueueCapacity
	}

	s := &System{
		diag:       diag,
		cfg:        cfg,
		replicator: cfg.Replicator,
		registry:   NewRegistry(),
		queue:      NewInputQueue(cfg.InputQueueSize),
		cooldowns:  make(map[Handle]int),
	}
	s.canceler = NewCanceler(s.registry, diag)
	s.tracker = NewGroupTracker(s.canceler, diag)
	s.router = NewInputRouter(s.registry)
	s.activator = cfg.Activator
	if s.activator == nil {
		s.activator = s
	}
	s.scheduler = NewScheduler(SchedulerDeps{
		Registry:    s.registry,
		Router:      s.router,
		Activator:   s.activator,
		Events:      s,
		Tags:        s,
		BlockingTag: cfg.BlockingTag,
	})
	s.registry.onGranted = s.specGranted
	s.registry.onRevoked = s.specRevoked
	return s
}

func (s *System) Registry() *Registry          { return s.registry }
func (s *System) Tracker() *GroupTracker       { return s.tracker }
func (s *System) Router() *InputRouter         { return s.router }
func (s *System) Canceler() *Canceler          { return s.canceler }
func (s *System) Queue() *InputQueue           { return s.queue }
func (s *System) Scheduler() *Scheduler        { return s.scheduler }
func (s *System) Global() *GlobalAbilitySystem { return s.global }

// DefaultAbilityLevel is the level used when a grant does not name one.
func (s *System) DefaultAbilityLevel() int {
	return 1
}

// Grant gives the owner def bound to inputTags and returns its handle.
// level <= 0 uses DefaultAbilityLevel.
func (s *System) Grant(def *Definition, level int, inputTags ...Tag) Handle {
	if level <= 0 {
		level = s.DefaultAbilityLevel()
	}
	return s.registry.Grant(def, level, inputTags...)
}

// Revoke cancels every running instance of h, drops its buffered input and
// removes the spec. Inside a scan the running instances are cancelled now and
// again when the removal applies, in case the spec was activated meanwhile.
func (s *System) Revoke(h Handle) bool {
	if spec, ok := s.registry.Find(h); ok {
		s.specRevoked(spec)
	}
	return s.registry.Revoke(h)
}

func (s *System) specRevoked(spec *Spec) {
	for _, inst := range spec.Instances() {
		inst.Cancel(false)
	}
	s.router.Forget(spec.handle)
	delete(s.cooldowns, spec.handle)
}

func (s *System) specGranted(spec *Spec) {
	if spec.def != nil && spec.def.ActivationPolicy == OnSpawn {
		s.activator.TryActivate(spec.handle)
	}
}

// FindSpec resolves a handle to its spec.
func (s *System) FindSpec(h Handle) (*Spec, bool) {
	return s.registry.Find(h)
}

// InputTagPressed buffers a press of tag for this tick.
func (s *System) InputTagPressed(tag Tag) {
	s.router.Pressed(tag)
}

// InputTagReleased buffers a release of tag for this tick.
func (s *System) InputTagReleased(tag Tag) {
	s.router.Released(tag)
}

// ProcessInput drains the input queue into the router and runs the
// scheduler. Call it once per tick.
func (s *System) ProcessInput() {
	s.router.Apply(s.queue.Drain())
	s.scheduler.ProcessInput()
}

// ClearAbilityInput drops every buffered edge and hold.
func (s *System) ClearAbilityInput() {
	s.router.Clear()
}

// Tick advances cooldowns and ends instances whose duration elapsed.
func (s *System) Tick() {
	for h, frames := range s.cooldowns {
		if frames <= 1 {
			delete(s.cooldowns, h)
			continue
		}
		s.cooldowns[h] = frames - 1
	}

	s.registry.Scan(func(spec *Spec) {
		for _, inst := range spec.Instances() {
			if !inst.active {
				continue
			}
			inst.frames++
			if d := inst.def.DurationFrames; d > 0 && inst.frames >= d {
				inst.End()
			}
		}
	})
}

// CooldownRemaining returns the frames left before h may activate again.
func (s *System) CooldownRemaining(h Handle) int {
	return s.cooldowns[h]
}

// SpecInputPressed forwards a press to every live instance of spec.
func (s *System) SpecInputPressed(spec *Spec) {
	for _, inst := range spec.Instances() {
		if inst.active && inst.def.Behavior != nil {
			inst.def.Behavior.InputPressed(inst.context())
		}
	}
}

// SpecInputReleased forwards a release to every live instance of spec.
func (s *System) SpecInputReleased(spec *Spec) {
	for _, inst := range spec.Instances() {
		if inst.active && inst.def.Behavior != nil {
			inst.def.Behavior.InputReleased(inst.context())
		}
	}
}

// IsActivationGroupBlocked reports whether abilities in g may not activate.
func (s *System) IsActivationGroupBlocked(g ActivationGroup) bool {
	return s.tracker.IsBlocked(g)
}

// CancelAbilitiesByFunc cancels every running instance matching fn.
func (s *System) CancelAbilitiesByFunc(fn ShouldCancelFunc, replicate bool) {
	s.canceler.CancelByFunc(fn, replicate)
}

// CancelInputActivatedAbilities cancels every input-driven running ability.
func (s *System) CancelInputActivatedAbilities(replicate bool) {
	s.canceler.CancelInputActivated(replicate)
}

// CancelActivationGroupAbilities cancels every running ability in g except
// ignore.
func (s *System) CancelActivationGroupAbilities(g ActivationGroup, ignore *Instance, replicate bool) {
	s.canceler.CancelGroup(g, ignore, replicate)
}

// ActiveAbilitiesWithTags returns the live instances of every spec whose
// definition carries all of tags.
func (s *System) ActiveAbilitiesWithTags(tags TagSet) []*Instance {
	var out []*Instance
	s.registry.Scan(func(spec *Spec) {
		if spec.def == nil || !spec.def.Tags.HasAll(tags) {
			return
		}
		out = append(out, spec.Instances()...)
	})
	return out
}

// HasMatchingTag reports whether the owner carries tag.
func (s *System) HasMatchingTag(tag Tag) bool {
	return s.tags.Has(tag)
}

// OwnedTags returns the owner's loose tags.
func (s *System) OwnedTags() TagSet {
	return s.tags.Set()
}

// LooseTagStacks returns the stack count of every owner tag that was not
// granted through the dynamic tag effect.
func (s *System) LooseTagStacks() map[Tag]int {
	out := s.tags.Counts()
	for t, n := range s.dynamicTags.Counts() {
		if out[t] -= n; out[t] <= 0 {
			delete(out, t)
		}
	}
	return out
}

// DynamicTagStacks returns the stack count of every tag granted through the
// dynamic tag effect.
func (s *System) DynamicTagStacks() map[Tag]int {
	return s.dynamicTags.Counts()
}

// AddLooseTag adds one stack of tag to the owner.
func (s *System) AddLooseTag(tag Tag) {
	s.tags.Add(tag)
}

// RemoveLooseTag removes one stack of tag from the owner.
func (s *System) RemoveLooseTag(tag Tag) bool {
	return s.tags.Remove(tag)
}

// AddDynamicTagEffect grants tag through the configured dynamic tag effect.
func (s *System) AddDynamicTagEffect(tag Tag) error {
	const op = "AddDynamicTagGameplayEffect"
	if err := s.resolveDynamicTagEffect(op); err != nil {
		return err
	}
	if !tag.Valid() {
		return nil
	}
	s.dynamicTags.Add(tag)
	s.tags.Add(tag)
	return nil
}

// RemoveDynamicTagEffect removes every stack of tag granted through the
// dynamic tag effect. Stacks added with AddLooseTag are kept.
func (s *System) RemoveDynamicTagEffect(tag Tag) error {
	const op = "RemoveDynamicTagGameplayEffect"
	if err := s.resolveDynamicTagEffect(op); err != nil {
		return err
	}
	if s.dynamicTags.Count(tag) == 0 {
		return fmt.Errorf("%s %s: %w", op, tag, ErrEffectNotActive)
	}
	for s.dynamicTags.Remove(tag) {
		s.tags.Remove(tag)
	}
	return nil
}

func (s *System) resolveDynamicTagEffect(op string) error {
	name := s.cfg.DynamicTagEffect
	if name == "" || s.cfg.Effects == nil || !s.cfg.Effects.HasEffect(name) {
		s.diag.warnf(op, "unable to find dynamic tag effect [%s]", name)
		return fmt.Errorf("%s %q: %w", op, name, ErrUnknownEffect)
	}
	return nil
}

// SetTagRelationshipMapping installs the policy consulted by activation.
func (s *System) SetTagRelationshipMapping(m *TagRelationshipMapping) {
	s.mapping = m
}

func (s *System) TagRelationshipMapping() *TagRelationshipMapping {
	return s.mapping
}

// EndPlay detaches the owner from its global ability system.
func (s *System) EndPlay() {
	if s.global != nil {
		s.global.Unregister(s)
	}
}
