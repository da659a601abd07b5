package archion

import "fmt"

// TypeExpression pairs a component type with an optional secondary key,
// identifying one column-slot in an archetype, or a query-side match
// predicate when Target carries a wildcard Identity.
type TypeExpression struct {
	Component ComponentID
	Target    Identity
}

// Plain builds a TypeExpression with no secondary key.
func Plain(c ComponentID) TypeExpression {
	return TypeExpression{Component: c, Target: NoneIdentity}
}

// WithEntity builds a TypeExpression keyed by a specific entity relation target.
func WithEntity(c ComponentID, target Identity) TypeExpression {
	return TypeExpression{Component: c, Target: target}
}

// WithObject builds a TypeExpression keyed by a specific object-link target.
func WithObject(c ComponentID, target Identity) TypeExpression {
	return TypeExpression{Component: c, Target: target}
}

// WithHash builds a TypeExpression keyed by a specific hash-key target.
func WithHash(c ComponentID, target Identity) TypeExpression {
	return TypeExpression{Component: c, Target: target}
}

// WithWildcard builds a query-only TypeExpression matching multiple concrete
// secondary keys, per the kind of wildcard requested.
func WithWildcard(c ComponentID, kind WildcardKind) TypeExpression {
	return TypeExpression{Component: c, Target: NewWildcard(kind)}
}

// IsPlain reports whether e carries no secondary key.
func (e TypeExpression) IsPlain() bool {
	return e.Target.IsNone()
}

// Matches reports whether e, used as a query expression, matches stored,
// a concrete TypeExpression found in an archetype's signature. The relation
// is non-commutative: e is the query side, stored is the data side.
//
// Matching table (query key form -> matches stored key):
//
//	Plain              -> Plain only
//	specific Entity E  -> same Entity E
//	specific Object h  -> same h
//	specific Hash h    -> same h
//	AnyTarget          -> any non-plain key
//	AnyEntity          -> any entity-relation key
//	AnyObject          -> any object-link key
//	Any                -> any key including plain
func (e TypeExpression) Matches(stored TypeExpression) bool {
	if e.Component != stored.Component {
		return false
	}
	if !e.Target.IsWildcard() {
		// Concrete query key: exact bit-equality required, including Plain.
		return e.Target == stored.Target
	}
	switch e.Target.WildcardKind() {
	case WildcardPlain:
		return stored.Target.IsNone()
	case WildcardAny:
		return true
	case WildcardAnyTarget:
		return !stored.Target.IsNone()
	case WildcardAnyEntity:
		return stored.Target.Kind() == KindEntity
	case WildcardAnyObject:
		return stored.Target.Kind() == KindObjectLink
	default:
		return false
	}
}

// String renders a debug representation of e.
func (e TypeExpression) String() string {
	if e.Target.IsNone() {
		return fmt.Sprintf("TypeExpr(%d, plain)", e.Component)
	}
	return fmt.Sprintf("TypeExpr(%d, %s)", e.Component, e.Target.String())
}

// compareTypeExpression gives the total order used by Signature: primary by
// ComponentTypeId, secondary by key-kind, tertiary by key payload.
func compareTypeExpression(a, b TypeExpression) int {
	if a.Component != b.Component {
		if a.Component < b.Component {
			return -1
		}
		return 1
	}
	ak, bk := a.Target.Kind(), b.Target.Kind()
	if ak != bk {
		if ak < bk {
			return -1
		}
		return 1
	}
	if a.Target == b.Target {
		return 0
	}
	if a.Target < b.Target {
		return -1
	}
	return 1
}
