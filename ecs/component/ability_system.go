package component

import "github.com/milk9111/abilitysystem/ability"

// AbilitySystem attaches an ability system to an entity. Prefab is the
// character prefab it was built from, used to match hot reloads.
type AbilitySystem struct {
	System *ability.System
	Prefab string
}

var AbilitySystemComponent = NewComponent[AbilitySystem]()
