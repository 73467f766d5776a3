package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies a component store in a world. Zero is never issued.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key of one component store.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind issues a fresh kind for T. Two kinds of the same type are
// distinct stores.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(nextComponentID.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Name is the Go type name of T, for diagnostics.
func (k ComponentKind[T]) Name() string {
	if k.name == "" {
		return reflect.TypeFor[T]().String()
	}
	return k.name
}

// ComponentHandle is the package-level declaration of a component, e.g.
// AbilitySystemComponent.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
