package ability

import (
	"fmt"
	"strings"
)

// ActivationPolicy decides when input may start an ability.
type ActivationPolicy uint8

const (
	// OnInputTriggered activates on the press edge of a bound input.
	OnInputTriggered ActivationPolicy = iota
	// WhileInputActive activates on any tick the bound input is held and the
	// ability is not already running.
	WhileInputActive
	// OnSpawn activates as soon as the ability is granted.
	OnSpawn
)

var activationPolicyNames = [...]string{
	OnInputTriggered: "on_input_triggered",
	WhileInputActive: "while_input_active",
	OnSpawn:          "on_spawn",
}

func (p ActivationPolicy) String() string {
	if int(p) < len(activationPolicyNames) {
		return activationPolicyNames[p]
	}
	return fmt.Sprintf("ActivationPolicy(%d)", uint8(p))
}

// InputActivated reports whether the policy is driven by bound input.
func (p ActivationPolicy) InputActivated() bool {
	return p == OnInputTriggered || p == WhileInputActive
}

func (p *ActivationPolicy) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), activationPolicyNames[:])
	if err != nil {
		return fmt.Errorf("activation policy: %w", err)
	}
	*p = ActivationPolicy(v)
	return nil
}

func (p ActivationPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ActivationGroup is the mutual-exclusion category of an ability.
type ActivationGroup uint8

const (
	// Independent abilities run alongside anything.
	Independent ActivationGroup = iota
	// ExclusiveReplaceable abilities are cancelled when another exclusive
	// ability activates.
	ExclusiveReplaceable
	// ExclusiveBlocking abilities block every other exclusive ability until
	// they end.
	ExclusiveBlocking

	groupCount
)

var activationGroupNames = [...]string{
	Independent:          "independent",
	ExclusiveReplaceable: "exclusive_replaceable",
	ExclusiveBlocking:    "exclusive_blocking",
}

func (g ActivationGroup) String() string {
	if g < groupCount {
		return activationGroupNames[g]
	}
	return fmt.Sprintf("ActivationGroup(%d)", uint8(g))
}

// Valid reports whether g is one of the declared groups.
func (g ActivationGroup) Valid() bool {
	return g < groupCount
}

// Exclusive reports whether g is one of the exclusive groups.
func (g ActivationGroup) Exclusive() bool {
	return g == ExclusiveReplaceable || g == ExclusiveBlocking
}

func (g *ActivationGroup) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), activationGroupNames[:])
	if err != nil {
		return fmt.Errorf("activation group: %w", err)
	}
	*g = ActivationGroup(v)
	return nil
}

func (g ActivationGroup) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// InstancingPolicy selects how many executions of one spec may exist.
type InstancingPolicy uint8

const (
	// InstancedPerActor shares one instance per spec, reused across
	// activations.
	InstancedPerActor InstancingPolicy = iota
	// InstancedPerExecution creates a fresh instance for every activation.
	InstancedPerExecution
)

var instancingPolicyNames = [...]string{
	InstancedPerActor:     "per_actor",
	InstancedPerExecution: "per_execution",
}

func (p InstancingPolicy) String() string {
	if int(p) < len(instancingPolicyNames) {
		return instancingPolicyNames[p]
	}
	return fmt.Sprintf("InstancingPolicy(%d)", uint8(p))
}

func (p *InstancingPolicy) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), instancingPolicyNames[:])
	if err != nil {
		return fmt.Errorf("instancing policy: %w", err)
	}
	*p = InstancingPolicy(v)
	return nil
}

func (p InstancingPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func parseEnum(s string, names []string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == key || strings.ReplaceAll(name, "_", "") == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}
