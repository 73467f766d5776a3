package ability

// TagRelationship describes how abilities carrying AbilityTag interact with
// other abilities and with owner tags.
type TagRelationship struct {
	AbilityTag Tag
	// BlockTags stop abilities carrying any of them from activating while an
	// ability with AbilityTag runs.
	BlockTags TagSet
	// CancelTags cancel running abilities carrying any of them when an
	// ability with AbilityTag activates.
	CancelTags             TagSet
	ActivationRequiredTags TagSet
	ActivationBlockedTags  TagSet
}

// TagRelationshipMapping is the optional policy object consulted by the
// activation path.
type TagRelationshipMapping struct {
	Relationships []TagRelationship
}

// AbilityTagsToBlockAndCancel returns the block and cancel tags for an
// ability carrying abilityTags.
func (m *TagRelationshipMapping) AbilityTagsToBlockAndCancel(abilityTags TagSet) (block, cancel TagSet) {
	if m == nil {
		return nil, nil
	}
	for _, rel := range m.Relationships {
		if !abilityTags.HasExact(rel.AbilityTag) {
			continue
		}
		block = block.Union(rel.BlockTags)
		cancel = cancel.Union(rel.CancelTags)
	}
	return block, cancel
}

// RequiredAndBlockedActivationTags returns the owner tags an ability carrying
// abilityTags requires, and the owner tags that prevent it.
func (m *TagRelationshipMapping) RequiredAndBlockedActivationTags(abilityTags TagSet) (required, blocked TagSet) {
	if m == nil {
		return nil, nil
	}
	for _, rel := range m.Relationships {
		if !abilityTags.HasExact(rel.AbilityTag) {
			continue
		}
		required = required.Union(rel.ActivationRequiredTags)
		blocked = blocked.Union(rel.ActivationBlockedTags)
	}
	return required, blocked
}
