package archion

import (
	"reflect"
	"sync/atomic"
)

// Archetype groups every entity sharing a Signature, with one typed column
// per TypeExpression plus an implicit identity column. All columns and the
// identity column share the same length, the archetype's row count.
type Archetype struct {
	signature Signature
	compMask  maskType // coarse component-id pre-filter, not secondary-key aware
	columns   []*column
	exprs     []TypeExpression // parallel to columns, same order
	entities  []Identity
	version   atomic.Uint64 // bumped on every structural mutation

	// addTransitions/removeTransitions cache archetype-graph edges keyed by
	// the TypeExpression that was added or removed to reach the neighbor,
	// mirroring the reference implementation's transition cache but keyed by
	// TypeExpression instead of a bitmask, since secondary keys matter here.
	addTransitions    map[TypeExpression]*Archetype
	removeTransitions map[TypeExpression]*Archetype
}

func newArchetype(sig Signature, capacity int) *Archetype {
	a := &Archetype{
		signature:         sig,
		compMask:          sig.componentMask(),
		columns:           make([]*column, sig.Len()),
		exprs:             append([]TypeExpression(nil), sig.Slice()...),
		entities:          make([]Identity, 0, capacity),
		addTransitions:    make(map[TypeExpression]*Archetype),
		removeTransitions: make(map[TypeExpression]*Archetype),
	}
	for i, e := range a.exprs {
		typ, ok := idToType[e.Component]
		if !ok {
			invariantPanic("component id used in signature before registration")
		}
		a.columns[i] = newColumn(typ, capacity)
	}
	return a
}

// Signature returns the archetype's identifying Signature.
func (a *Archetype) Signature() Signature { return a.signature }

// Len reports the current row count.
func (a *Archetype) Len() int { return len(a.entities) }

// IsEmpty reports whether the archetype has zero rows.
func (a *Archetype) IsEmpty() bool { return len(a.entities) == 0 }

// Version returns the current structural version counter.
func (a *Archetype) Version() uint64 { return a.version.Load() }

func (a *Archetype) bumpVersion() { a.version.Add(1) }

// IterEntities returns the archetype's identity column. Callers must not
// mutate the returned slice; it is shared with the archetype.
func (a *Archetype) IterEntities() []Identity { return a.entities }

func (a *Archetype) slotOf(expr TypeExpression) int {
	for i, e := range a.exprs {
		if e == expr {
			return i
		}
	}
	return -1
}

// Match returns the indices of every column whose TypeExpression matches the
// query expression expr (exact match for concrete keys, multi-match for
// wildcards per TypeExpression.Matches).
func (a *Archetype) Match(expr TypeExpression) []int {
	if !a.compMask.has(expr.Component) {
		return nil
	}
	var out []int
	for i, e := range a.exprs {
		if expr.Matches(e) {
			out = append(out, i)
		}
	}
	return out
}

// MatchesMask reports whether a satisfies the given Has/Not/Any mask. A
// coarse bitmask pre-filter rejects obviously-non-matching archetypes before
// falling back to the exact, secondary-key-aware per-expression scan.
func (a *Archetype) MatchesMask(m Mask) bool {
	if !includesAll(a.compMask, exprsMask(m.Has)) {
		return false
	}
	if len(m.Any) > 0 && !intersects(a.compMask, exprsMask(m.Any)) {
		return false
	}
	for _, t := range m.Has {
		if len(a.Match(t)) == 0 {
			return false
		}
	}
	for _, t := range m.Not {
		if len(a.Match(t)) != 0 {
			return false
		}
	}
	if len(m.Any) > 0 {
		found := false
		for _, t := range m.Any {
			if len(a.Match(t)) != 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AddRow appends a new row for identity with zero-valued components, and
// returns the row index.
func (a *Archetype) AddRow(id Identity) int {
	row := len(a.entities)
	a.entities = append(a.entities, id)
	for _, c := range a.columns {
		c.AppendZero()
	}
	a.bumpVersion()
	return row
}

// RemoveRow removes row via swap-with-last across the identity column and
// every component column, and reports the Identity that now occupies row (or
// NoneIdentity if row was the last row).
func (a *Archetype) RemoveRow(row int) (moved Identity) {
	last := len(a.entities) - 1
	for _, c := range a.columns {
		c.DeleteSwap(row)
	}
	if row != last {
		a.entities[row] = a.entities[last]
		moved = a.entities[row]
	}
	a.entities = a.entities[:last]
	a.bumpVersion()
	return moved
}

// Truncate removes rows [maxCount:Len()) from the tail, returning the
// Identities removed so the caller (World) can recycle their slots.
func (a *Archetype) Truncate(maxCount int) []Identity {
	if maxCount >= len(a.entities) {
		return nil
	}
	removed := append([]Identity(nil), a.entities[maxCount:]...)
	a.entities = a.entities[:maxCount]
	for _, c := range a.columns {
		c.truncate(maxCount)
	}
	a.bumpVersion()
	return removed
}

func (c *column) truncate(n int) {
	c.value.SetLen(n)
}

// AddRowsN appends len(ids) new rows in bulk: expr's column is filled with
// value via a single AppendValueN rather than one Set per row, and every
// other column is zero-filled. expr must already be part of a's signature.
func (a *Archetype) AddRowsN(ids []Identity, expr TypeExpression, value reflect.Value) {
	slot := a.slotOf(expr)
	if slot < 0 {
		invariantPanic("AddRowsN: expr not part of archetype signature")
	}
	a.entities = append(a.entities, ids...)
	for i, c := range a.columns {
		if i == slot {
			c.AppendValueN(value, len(ids))
			continue
		}
		for range ids {
			c.AppendZero()
		}
	}
	a.bumpVersion()
}

// MigrateRow moves the entity at row in a to dst, copying every column shared
// between both signatures by exact TypeExpression match and dropping columns
// only a has. Columns only dst has are left at their zero value; callers such
// as World.doAddComponent backfill the newly added column explicitly after the
// call. Returns the destination row index and, mirroring RemoveRow, the
// Identity now occupying the vacated row in a (NoneIdentity if none).
func (a *Archetype) MigrateRow(row int, dst *Archetype) (newRow int, displaced Identity) {
	id := a.entities[row]
	newRow = dst.AddRow(id)
	for i, c := range a.columns {
		if dstSlot := dst.slotOf(a.exprs[i]); dstSlot >= 0 {
			dst.columns[dstSlot].Set(newRow, c.Get(row))
		}
	}
	displaced = a.RemoveRow(row)
	return newRow, displaced
}
