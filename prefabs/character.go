package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/abilitysystem/ability"
)

var ErrInvalidCharacter = errors.New("prefabs: invalid character spec")

// CharacterSpec describes an ability-bearing character: its abilities, key
// bindings, tag relationships and starting tags.
type CharacterSpec struct {
	Name             string             `yaml:"name"`
	Player           bool               `yaml:"player"`
	BlockingTag      string             `yaml:"blocking_tag"`
	DynamicTagEffect string             `yaml:"dynamic_tag_effect"`
	Effects          []string           `yaml:"effects"`
	Strict           bool               `yaml:"strict"`
	InputQueueSize   int                `yaml:"input_queue_size"`
	TraceLines       int                `yaml:"trace_lines"`
	LooseTags        []string           `yaml:"loose_tags"`
	Abilities        []AbilitySpec      `yaml:"abilities"`
	Bindings         []BindingSpec      `yaml:"bindings"`
	Relationships    []RelationshipSpec `yaml:"relationships"`
}

type AbilitySpec struct {
	Name          string                   `yaml:"name"`
	Tags          []string                 `yaml:"tags"`
	Input         []string                 `yaml:"input"`
	Level         int                      `yaml:"level"`
	Activation    ability.ActivationPolicy `yaml:"activation"`
	Group         ability.ActivationGroup  `yaml:"group"`
	Instancing    ability.InstancingPolicy `yaml:"instancing"`
	NonCancelable bool                     `yaml:"non_cancelable"`
	Cooldown      int                      `yaml:"cooldown_frames"`
	Duration      int                      `yaml:"duration_frames"`
	RequiredTags  []string                 `yaml:"required_tags"`
	BlockedTags   []string                 `yaml:"blocked_tags"`
	EndOnRelease  bool                     `yaml:"end_on_release"`
	Script        string                   `yaml:"script"`
	Color         *YAMLColor               `yaml:"color"`
}

type BindingSpec struct {
	Key string `yaml:"key"`
	Tag string `yaml:"tag"`
}

type RelationshipSpec struct {
	AbilityTag string   `yaml:"ability_tag"`
	Block      []string `yaml:"block"`
	Cancel     []string `yaml:"cancel"`
	Required   []string `yaml:"required"`
	Blocked    []string `yaml:"blocked"`
}

func LoadCharacterSpec(name string) (CharacterSpec, error) {
	spec, err := LoadSpec[CharacterSpec](name)
	if err != nil {
		return spec, err
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

// Validate reports the first structural problem: unnamed or duplicate
// abilities, per-actor abilities marked non-cancelable, bindings without a
// key or tag, and relationships without an ability tag.
func (c CharacterSpec) Validate() error {
	seen := make(map[string]bool, len(c.Abilities))
	for i, a := range c.Abilities {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("%w: ability %d has no name", ErrInvalidCharacter, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate ability %q", ErrInvalidCharacter, name)
		}
		seen[name] = true
		if a.NonCancelable && a.Instancing == ability.InstancedPerActor {
			return fmt.Errorf("%w: per-actor ability %q cannot be non_cancelable", ErrInvalidCharacter, name)
		}
		if a.Cooldown < 0 || a.Duration < 0 {
			return fmt.Errorf("%w: ability %q has negative frames", ErrInvalidCharacter, name)
		}
	}
	for i, b := range c.Bindings {
		if strings.TrimSpace(b.Key) == "" || strings.TrimSpace(b.Tag) == "" {
			return fmt.Errorf("%w: binding %d needs key and tag", ErrInvalidCharacter, i)
		}
	}
	for i, r := range c.Relationships {
		if strings.TrimSpace(r.AbilityTag) == "" {
			return fmt.Errorf("%w: relationship %d has no ability_tag", ErrInvalidCharacter, i)
		}
	}
	return nil
}

// Definition converts the spec to an ability definition without behaviour.
func (a AbilitySpec) Definition() *ability.Definition {
	return &ability.Definition{
		Name:                   a.Name,
		Tags:                   Tags(a.Tags),
		ActivationPolicy:       a.Activation,
		ActivationGroup:        a.Group,
		InstancingPolicy:       a.Instancing,
		NonCancelable:          a.NonCancelable,
		CooldownFrames:         a.Cooldown,
		DurationFrames:         a.Duration,
		ActivationRequiredTags: Tags(a.RequiredTags),
		ActivationBlockedTags:  Tags(a.BlockedTags),
	}
}

// InputTags returns the input tags the ability is bound to.
func (a AbilitySpec) InputTags() []ability.Tag {
	return Tags(a.Input)
}

// Mapping builds the tag relationship mapping, or nil when none is declared.
func (c CharacterSpec) Mapping() *ability.TagRelationshipMapping {
	if len(c.Relationships) == 0 {
		return nil
	}
	m := &ability.TagRelationshipMapping{}
	for _, r := range c.Relationships {
		m.Relationships = append(m.Relationships, ability.TagRelationship{
			AbilityTag:             ability.Tag(r.AbilityTag),
			BlockTags:              Tags(r.Block),
			CancelTags:             Tags(r.Cancel),
			ActivationRequiredTags: Tags(r.Required),
			ActivationBlockedTags:  Tags(r.Blocked),
		})
	}
	return m
}

func Tags(names []string) ability.TagSet {
	var out ability.TagSet
	for _, n := range names {
		out = out.With(ability.Tag(strings.TrimSpace(n)))
	}
	return out
}
