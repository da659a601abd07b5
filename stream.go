package archion

import (
	"unsafe"

	"golang.org/x/sync/errgroup"
)

// Mask selects archetypes by structural predicate:
//
//	matches(sig) ≡ (∀ t ∈ Has. ∃ e ∈ sig. t matches e)
//	             ∧ (∄ t ∈ Not. ∃ e ∈ sig. t matches e)
//	             ∧ (Any empty ∨ ∃ t ∈ Any. ∃ e ∈ sig. t matches e)
type Mask struct {
	Has []TypeExpression
	Not []TypeExpression
	Any []TypeExpression
}

// registeredQuery is a Mask together with its currently matched archetypes.
// Once registered with a World (registerQuery), it is incrementally
// maintained by World.getOrCreateArchetype as new archetypes are created
// (the pull path); rebuild performs a full on-demand rescan instead (the
// rebuild path), satisfying both refresh mechanisms every Stream relies on.
type registeredQuery struct {
	mask       Mask
	archetypes []*Archetype
}

// rebuild rescans every archetype currently known to w, replacing q's
// matched set from scratch rather than relying on incremental pull updates.
func (q *registeredQuery) rebuild(w *World) {
	q.archetypes = q.archetypes[:0]
	for _, a := range w.archetypesList {
		if a.MatchesMask(q.mask) {
			q.archetypes = append(q.archetypes, a)
		}
	}
}

// registerQuery registers m against w's archetype index, returning a
// registeredQuery whose archetypes field is kept live: getOrCreateArchetype
// appends newly created matching archetypes to it as they appear, and
// rebuild lets a caller force a full rescan on demand. Every CreateStream*
// constructor registers its Mask this way rather than taking a one-time
// archetype snapshot.
func (w *World) registerQuery(m Mask) *registeredQuery {
	q := &registeredQuery{mask: m}
	q.rebuild(w)
	w.queries = append(w.queries, q)
	return q
}

// QueryBuilder fluently collects a Mask before compiling it into a
// registeredQuery against a World's archetype index.
type QueryBuilder struct {
	world *World
	mask  Mask
}

// NewQueryBuilder starts a QueryBuilder over w.
func NewQueryBuilder(w *World) *QueryBuilder {
	return &QueryBuilder{world: w}
}

// Has requires every listed TypeExpression to match some column in the signature.
func (b *QueryBuilder) Has(exprs ...TypeExpression) *QueryBuilder {
	b.mask.Has = append(b.mask.Has, exprs...)
	return b
}

// Not excludes archetypes where any listed TypeExpression matches some column.
func (b *QueryBuilder) Not(exprs ...TypeExpression) *QueryBuilder {
	b.mask.Not = append(b.mask.Not, exprs...)
	return b
}

// Any requires at least one listed TypeExpression to match, when the list is non-empty.
func (b *QueryBuilder) Any(exprs ...TypeExpression) *QueryBuilder {
	b.mask.Any = append(b.mask.Any, exprs...)
	return b
}

// Compile registers the built Mask with the World's archetype index and
// returns the live, incrementally-refreshed registeredQuery.
func (b *QueryBuilder) Compile() *registeredQuery {
	return b.world.registerQuery(b.mask)
}

const maxStreamArity = 5

// joinCursor implements the cross-join algorithm shared by every Stream
// arity: for each matched archetype, for each row, enumerate the Cartesian
// product of per-slot matching columns, visiting exactly
// (Π per-slot column counts) * row_count tuples for that archetype.
type joinCursor struct {
	world     *World
	archs     []*Archetype
	archIdx   int
	cur       *Archetype
	curVer    uint64
	slots     [maxStreamArity]TypeExpression
	arity     int
	cols      [maxStreamArity][]int
	combo     [maxStreamArity]int
	row       int
	rowCount  int
}

func newJoinCursor(world *World, archs []*Archetype, slots []TypeExpression) *joinCursor {
	j := &joinCursor{world: world, archs: archs, arity: len(slots)}
	copy(j.slots[:], slots)
	return j
}

func (j *joinCursor) reset() {
	j.archIdx = 0
	j.cur = nil
	j.row = 0
}

func (j *joinCursor) zeroCombo() {
	for i := 0; i < j.arity; i++ {
		j.combo[i] = 0
	}
}

func (j *joinCursor) advanceCombo() bool {
	for i := j.arity - 1; i >= 0; i-- {
		j.combo[i]++
		if j.combo[i] < len(j.cols[i]) {
			return true
		}
		j.combo[i] = 0
	}
	return false
}

// next advances the cursor to the next yieldable tuple. Returns false when
// exhausted. When checkVersion is set, returns
// ErrStructurallyModifiedDuringIteration if the current archetype's version
// changed since it was snapshotted. Under a world-lock, World defers
// structural changes, so the version does not change during iteration.
func (j *joinCursor) next(checkVersion bool) (bool, error) {
	for {
		if j.cur != nil {
			if checkVersion && j.cur.Version() != j.curVer {
				return false, ErrStructurallyModifiedDuringIteration
			}
			if j.advanceCombo() {
				return true, nil
			}
			j.row++
			if j.row < j.rowCount {
				j.zeroCombo()
				return true, nil
			}
			j.cur = nil
		}
		for j.archIdx < len(j.archs) {
			a := j.archs[j.archIdx]
			j.archIdx++
			if a.IsEmpty() {
				continue
			}
			ok := true
			for i := 0; i < j.arity; i++ {
				j.cols[i] = a.Match(j.slots[i])
				if len(j.cols[i]) == 0 {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			j.cur = a
			j.curVer = a.Version()
			j.rowCount = a.Len()
			j.row = 0
			j.zeroCombo()
			return true, nil
		}
		return false, nil
	}
}

func (j *joinCursor) entity() Identity {
	return j.cur.entities[j.row]
}

func (j *joinCursor) columnPtr(slot int) unsafe.Pointer {
	col := j.cur.columns[j.cols[slot][j.combo[slot]]]
	base := col.Base()
	if base == nil {
		return nil
	}
	return unsafe.Pointer(uintptr(base) + uintptr(j.row)*col.Stride())
}

// splitChunks partitions [0, rows) into chunks of at most chunkSize rows
// each, for the parallel Stream variants.
func splitChunks(rows, chunkSize int) [][2]int {
	if chunkSize <= 0 {
		chunkSize = rows
	}
	if chunkSize <= 0 {
		return nil
	}
	var chunks [][2]int
	for start := 0; start < rows; start += chunkSize {
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		chunks = append(chunks, [2]int{start, end})
	}
	return chunks
}

// runParallel fans work out across an errgroup, one goroutine per chunk.
// Work items carry only the supplied thunk and never mutate structural
// state; the caller is responsible for giving each goroutine a disjoint row
// range. The first error from any worker is returned after every worker has
// either completed or observed cancellation.
func runParallel(chunks [][2]int, work func(lo, hi int) error) error {
	var g errgroup.Group
	for _, c := range chunks {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			return work(lo, hi)
		})
	}
	return g.Wait()
}
