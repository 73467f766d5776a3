package component

import "github.com/milk9111/abilitysystem/ability"

// InputBinding maps a device key name (e.g. "Space", "MouseLeft") to an input
// tag.
type InputBinding struct {
	Key string
	Tag ability.Tag
}

// InputBindings stores the key to input tag bindings of an entity.
type InputBindings struct {
	Bindings []InputBinding
}

var InputBindingsComponent = NewComponent[InputBindings]()
