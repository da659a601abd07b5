// Package archion implements an archetype-based Entity-Component-System
// storage and query engine: packed identities, wildcard type expressions,
// columnar archetype storage, and a deferred-mutation world registry.
package archion

import (
	"fmt"
	"reflect"
)

// ComponentID is a unique identifier for a component type, assigned on first
// registration and stable for the lifetime of the process.
type ComponentID uint32

const (
	bitsPerWord            = 64
	maskWords              = 4
	maxComponentTypes      = maskWords * bitsPerWord
	defaultInitialCapacity = 1024
)

var (
	nextComponentID ComponentID
	typeToID        = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType        = make(map[ComponentID]reflect.Type, maxComponentTypes)
)

// ResetGlobalRegistry resets the global component registry. Useful for tests
// that need a clean slate between independent worlds.
func ResetGlobalRegistry() {
	nextComponentID = 0
	typeToID = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType = make(map[ComponentID]reflect.Type, maxComponentTypes)
}

// RegisterComponent registers a component type and returns its unique ID. If
// the type is already registered, it returns the existing ID. It panics if
// the maximum number of component types is exceeded, since this is a static
// schema-construction error rather than a recoverable runtime condition.
func RegisterComponent[T any]() ComponentID {
	typ := reflect.TypeFor[T]()
	if id, ok := typeToID[typ]; ok {
		return id
	}
	if int(nextComponentID) >= maxComponentTypes {
		panic(fmt.Sprintf("%s: cannot register component %s: maximum of %d component types reached", ErrTooManyComponentTypes, typ.Name(), maxComponentTypes))
	}
	id := nextComponentID
	typeToID[typ] = id
	idToType[id] = typ
	nextComponentID++
	return id
}

// GetID returns the ComponentID for T. Panics if T has not been registered.
func GetID[T any]() ComponentID {
	typ := reflect.TypeFor[T]()
	id, ok := typeToID[typ]
	if !ok {
		panic(fmt.Sprintf("archion: component type %s not registered", typ))
	}
	return id
}

// TryGetID returns the ComponentID for T and whether it was found, without panicking.
func TryGetID[T any]() (ComponentID, bool) {
	typ := reflect.TypeFor[T]()
	id, ok := typeToID[typ]
	return id, ok
}
