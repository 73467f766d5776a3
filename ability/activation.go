package ability

import "fmt"

// TryActivate implements Activator with the standard checks.
func (s *System) TryActivate(h Handle) bool {
	return s.TryActivateAbility(h) == nil
}

// TryActivateAbility starts the ability granted as h, or returns why it
// could not.
func (s *System) TryActivateAbility(h Handle) error {
	spec, ok := s.registry.Find(h)
	if !ok {
		return fmt.Errorf("try activate %s: %w", h, ErrUnknownHandle)
	}
	def := spec.def
	if def == nil {
		return fmt.Errorf("try activate %s: %w", h, ErrNilDefinition)
	}
	if !s.diag.assertf(def.ActivationGroup.Valid(), "TryActivateAbility", "ability [%s] has invalid activation group [%d]", def.Name, uint8(def.ActivationGroup)) {
		return fmt.Errorf("try activate %s: %w", def.Name, ErrInvalidGroup)
	}
	if def.InstancingPolicy == InstancedPerActor && spec.IsActive() {
		return fmt.Errorf("try activate %s: %w", def.Name, ErrAlreadyActive)
	}
	if s.tracker.IsBlocked(def.ActivationGroup) {
		return fmt.Errorf("try activate %s: %w", def.Name, ErrGroupBlocked)
	}
	if s.cooldowns[h] > 0 {
		return fmt.Errorf("try activate %s: %w", def.Name, ErrOnCooldown)
	}

	required, blocked := s.mapping.RequiredAndBlockedActivationTags(def.Tags)
	required = required.Union(def.ActivationRequiredTags)
	blocked = blocked.Union(def.ActivationBlockedTags)
	for _, t := range required {
		if !s.tags.Has(t) {
			return fmt.Errorf("try activate %s: %w: %s", def.Name, ErrTagRequired, t)
		}
	}
	for _, t := range blocked {
		if s.tags.Has(t) {
			return fmt.Errorf("try activate %s: %w: %s", def.Name, ErrTagBlocked, t)
		}
	}
	for _, t := range def.Tags {
		if s.blockedAbilityTags.Has(t) {
			return fmt.Errorf("try activate %s: %w: %s", def.Name, ErrTagBlocked, t)
		}
	}
	if def.CanActivate != nil && !def.CanActivate(spec) {
		return fmt.Errorf("try activate %s: %w", def.Name, ErrCannotActivate)
	}

	s.activate(spec)
	return nil
}

func (s *System) activate(spec *Spec) {
	def := spec.def
	inst := spec.acquire(s)
	s.serial++
	inst.serial = s.serial
	inst.active = true
	inst.canceled = false
	inst.frames = 0
	spec.activeCount++

	if def.CooldownFrames > 0 {
		s.cooldowns[spec.handle] = def.CooldownFrames
	}

	block, cancel := s.mapping.AbilityTagsToBlockAndCancel(def.Tags)
	inst.blockTags = block
	for _, t := range block {
		s.blockedAbilityTags.Add(t)
	}
	if len(cancel) > 0 {
		s.canceler.CancelByFunc(func(other *Instance, _ Handle) bool {
			return other != inst && other.def.Tags.HasAny(cancel)
		}, false)
	}

	s.tracker.Add(def.ActivationGroup, inst)

	if def.Behavior != nil && inst.active {
		def.Behavior.Activate(inst.context())
	}
}

func (s *System) endInstance(inst *Instance, canceled, replicate bool) {
	if inst == nil || !inst.active {
		return
	}
	inst.active = false
	inst.canceled = canceled
	def := inst.def

	if def.Behavior != nil {
		def.Behavior.End(inst.context(), canceled)
	}
	for _, t := range inst.blockTags {
		s.blockedAbilityTags.Remove(t)
	}
	inst.blockTags = nil

	s.tracker.Remove(def.ActivationGroup, inst)
	inst.spec.release(inst)

	if canceled && replicate && s.replicator != nil {
		s.replicator.AbilityCanceled(inst.spec.handle, inst)
	}
}
