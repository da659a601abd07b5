package archion

import "reflect"

// AddComponent adds a T value under key (NoneIdentity for a plain component)
// to id, migrating it into the archetype for signature+expr and backfilling
// the new column. Returns ErrComponentAlreadyPresent if expr is already part
// of id's signature.
func AddComponent[T any](w *World, id Identity, key Identity, value T) error {
	expr := TypeExpression{Component: GetID[T](), Target: key}
	return w.addComponent(id, expr, reflect.ValueOf(value))
}

// SpawnNWith creates count new entities that already carry a T component
// initialized to value, bulk-backfilling the destination archetype's column
// in a single pass rather than one AddComponent call per entity.
func SpawnNWith[T any](w *World, count int, value T) []Identity {
	expr := TypeExpression{Component: GetID[T](), Target: NoneIdentity}
	return w.spawnNWith(count, expr, reflect.ValueOf(value))
}

// RemoveComponent removes the T component under key from id, migrating it
// into the archetype for signature-expr. Returns ErrComponentNotPresent if
// expr is not part of id's signature.
func RemoveComponent[T any](w *World, id Identity, key Identity) error {
	expr := TypeExpression{Component: GetID[T](), Target: key}
	return w.removeComponent(id, expr)
}

// GetComponent returns a pointer to the T component under key for id.
func GetComponent[T any](w *World, id Identity, key Identity) (*T, error) {
	if !w.IsAlive(id) {
		return nil, &EntityError{Op: "GetComponent", ID: id, Err: ErrEntityNotAlive}
	}
	expr := TypeExpression{Component: GetID[T](), Target: key}
	meta := w.slots[id.Index()]
	slot := meta.archetype.slotOf(expr)
	if slot < 0 {
		return nil, &ComponentError{Op: "GetComponent", ID: id, Expr: expr, Err: ErrComponentNotPresent}
	}
	tc := typedColumn[T]{meta.archetype.columns[slot]}
	return tc.GetPtr(meta.row), nil
}

// HasComponent reports whether id currently carries a T component under key.
func HasComponent[T any](w *World, id Identity, key Identity) bool {
	if !w.IsAlive(id) {
		return false
	}
	expr := TypeExpression{Component: GetID[T](), Target: key}
	return w.slots[id.Index()].archetype.slotOf(expr) >= 0
}

// GetAll returns a pointer to every T value on id whose secondary key
// matches match (a wildcard expression to fan across multiple relation
// targets, or a concrete key to fetch exactly one).
func GetAll[T any](w *World, id Identity, match TypeExpression) []*T {
	if !w.IsAlive(id) {
		return nil
	}
	meta := w.slots[id.Index()]
	cols := meta.archetype.Match(match)
	if len(cols) == 0 {
		return nil
	}
	out := make([]*T, 0, len(cols))
	for _, c := range cols {
		tc := typedColumn[T]{meta.archetype.columns[c]}
		out = append(out, tc.GetPtr(meta.row))
	}
	return out
}
