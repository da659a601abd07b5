package archion

import (
	"errors"
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// Sentinel errors returned by World and Archetype operations. Callers should
// compare with errors.Is, since some are wrapped with entity/component context.
var (
	// ErrEntityNotAlive is returned when an operation targets a despawned or
	// otherwise invalid Identity.
	ErrEntityNotAlive = errors.New("archion: entity not alive")

	// ErrComponentAlreadyPresent is returned by AddComponent when the target
	// TypeExpression is already part of the entity's signature.
	ErrComponentAlreadyPresent = errors.New("archion: component already present")

	// ErrComponentNotPresent is returned by RemoveComponent and GetComponent
	// when the target TypeExpression is absent from the entity's signature.
	ErrComponentNotPresent = errors.New("archion: component not present")

	// ErrNullComponentValue is returned when a caller attempts to write a nil
	// value through a component API that requires a concrete value.
	ErrNullComponentValue = errors.New("archion: null component value")

	// ErrStructurallyModifiedDuringIteration is returned when an Archetype's
	// version counter changes between steps of an in-progress iteration.
	ErrStructurallyModifiedDuringIteration = errors.New("archion: archetype structurally modified during iteration")

	// ErrInvalidIdentityKind is returned by operations that require a specific
	// Identity kind (e.g. Successor requires an Entity) and receive another.
	ErrInvalidIdentityKind = errors.New("archion: invalid identity kind for operation")

	// ErrTooManyComponentTypes names the panic RegisterComponent raises when
	// registration would exceed the maximum number of distinct component
	// types the bitmask can track; it is not returned by any function.
	ErrTooManyComponentTypes = errors.New("archion: too many registered component types")

	// errInvariantViolation backs panics raised by invariantPanic: a
	// signature/column desync or an unregistered component type reaching
	// storage, neither of which a caller can recover from.
	errInvariantViolation = errors.New("archion: internal invariant violation")
)

// invariantPanic panics with a stack-traced internal invariant violation.
// Reserved for states the core itself guarantees cannot happen rather than
// for caller-triggerable usage errors, which are returned, not panicked.
func invariantPanic(msg string) {
	panic(bark.AddTrace(fmt.Errorf("%s: %w", msg, errInvariantViolation)))
}

// EntityError wraps a sentinel error with the offending Identity for context.
type EntityError struct {
	Op  string
	ID  Identity
	Err error
}

func (e *EntityError) Error() string {
	return e.Op + ": " + e.ID.String() + ": " + e.Err.Error()
}

func (e *EntityError) Unwrap() error { return e.Err }

// ComponentError wraps a sentinel error with the offending entity and
// TypeExpression for context.
type ComponentError struct {
	Op   string
	ID   Identity
	Expr TypeExpression
	Err  error
}

func (e *ComponentError) Error() string {
	return e.Op + ": " + e.ID.String() + ": " + e.Expr.String() + ": " + e.Err.Error()
}

func (e *ComponentError) Unwrap() error { return e.Err }
