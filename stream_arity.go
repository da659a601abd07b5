package archion

import (
	"reflect"
	"unsafe"
)

func columnSlice[T any](c *column) []T {
	if c.Len() == 0 {
		return nil
	}
	return c.value.Slice(0, c.Len()).Interface().([]T)
}

// Stream is a typed view over a registered Query exposing ordered per-row
// access to one selected component slot. Its matched-archetype set is not a
// one-time snapshot: it is the same live registeredQuery the World keeps
// refreshed as new archetypes are created, and Refresh forces a full rescan
// on demand.
type Stream[T1 any] struct {
	world *World
	mask  Mask
	slot1 TypeExpression
	query *registeredQuery
}

// CreateStream builds a Stream over every entity whose signature matches key1
// for T1's component type, excluding any archetype matching an entry in excludes.
func CreateStream[T1 any](w *World, key1 Identity, excludes ...TypeExpression) *Stream[T1] {
	e1 := TypeExpression{Component: GetID[T1](), Target: key1}
	m := Mask{Has: []TypeExpression{e1}, Not: excludes}
	return &Stream[T1]{world: w, mask: m, slot1: e1, query: w.registerQuery(m)}
}

// Refresh forces a full rescan of the world's current archetypes rather than
// relying on the incremental pull update getOrCreateArchetype performs.
func (s *Stream[T1]) Refresh() { s.query.rebuild(s.world) }

// ForEach visits every matching (entity, component) tuple sequentially.
func (s *Stream[T1]) ForEach(fn func(Identity, *T1)) error {
	cur := newJoinCursor(s.world, s.query.archetypes, []TypeExpression{s.slot1})
	for {
		ok, err := cur.next(true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(cur.entity(), (*T1)(cur.columnPtr(0)))
	}
}

// ForEachUniform1 visits every matching tuple with an extra by-value parameter.
func ForEachUniform1[T1 any, U any](s *Stream[T1], u U, fn func(Identity, *T1, U)) error {
	return s.ForEach(func(e Identity, c1 *T1) { fn(e, c1, u) })
}

// Parallel fans chunks of each matched column out across a worker pool.
func (s *Stream[T1]) Parallel(chunkSize int, fn func(Identity, *T1)) error {
	for _, a := range s.query.archetypes {
		if a.IsEmpty() {
			continue
		}
		for _, c0 := range a.Match(s.slot1) {
			col := a.columns[c0]
			base, stride, rows := col.Base(), col.Stride(), a.Len()
			ents := a.entities
			if err := runParallel(splitChunks(rows, chunkSize), func(lo, hi int) error {
				for r := lo; r < hi; r++ {
					fn(ents[r], (*T1)(unsafe.Pointer(uintptr(base)+uintptr(r)*stride)))
				}
				return nil
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParallelUniform is Parallel with an extra by-value parameter.
func (s *Stream[T1]) ParallelUniform(chunkSize int, u any, fn func(Identity, *T1, any)) error {
	return s.Parallel(chunkSize, func(e Identity, c1 *T1) { fn(e, c1, u) })
}

// Raw yields the whole backing slice per archetype per matched column.
func (s *Stream[T1]) Raw(fn func(entities []Identity, c1 []T1)) {
	for _, a := range s.query.archetypes {
		if a.IsEmpty() {
			continue
		}
		for _, c0 := range a.Match(s.slot1) {
			fn(a.entities, columnSlice[T1](a.columns[c0]))
		}
	}
}

// Blit overwrites every row of every column matching key across every
// matched archetype with value.
func (s *Stream[T1]) Blit(value T1, key Identity) {
	expr := TypeExpression{Component: s.slot1.Component, Target: key}
	rv := reflect.ValueOf(value)
	for _, a := range s.query.archetypes {
		for _, c := range a.Match(expr) {
			a.columns[c].Blit(rv)
		}
	}
}

// Stream2 is a typed view over two selected component slots, backed by the
// same live registeredQuery mechanism as Stream (see its doc comment).
type Stream2[T1, T2 any] struct {
	world *World
	mask  Mask
	slots [2]TypeExpression
	query *registeredQuery
}

// CreateStream2 builds a Stream2 keyed by key1/key2 for T1/T2.
func CreateStream2[T1, T2 any](w *World, key1, key2 Identity, excludes ...TypeExpression) *Stream2[T1, T2] {
	e1 := TypeExpression{Component: GetID[T1](), Target: key1}
	e2 := TypeExpression{Component: GetID[T2](), Target: key2}
	m := Mask{Has: []TypeExpression{e1, e2}, Not: excludes}
	return &Stream2[T1, T2]{world: w, mask: m, slots: [2]TypeExpression{e1, e2}, query: w.registerQuery(m)}
}

// Refresh forces a full rescan of the world's current archetypes.
func (s *Stream2[T1, T2]) Refresh() { s.query.rebuild(s.world) }

func (s *Stream2[T1, T2]) ForEach(fn func(Identity, *T1, *T2)) error {
	cur := newJoinCursor(s.world, s.query.archetypes, s.slots[:])
	for {
		ok, err := cur.next(true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(cur.entity(), (*T1)(cur.columnPtr(0)), (*T2)(cur.columnPtr(1)))
	}
}

// ForEachUniform2 visits every matching tuple with an extra by-value parameter.
func ForEachUniform2[T1, T2 any, U any](s *Stream2[T1, T2], u U, fn func(Identity, *T1, *T2, U)) error {
	return s.ForEach(func(e Identity, c1 *T1, c2 *T2) { fn(e, c1, c2, u) })
}

func (s *Stream2[T1, T2]) Parallel(chunkSize int, fn func(Identity, *T1, *T2)) error {
	for _, a := range s.query.archetypes {
		if a.IsEmpty() {
			continue
		}
		for _, c0 := range a.Match(s.slots[0]) {
			for _, c1 := range a.Match(s.slots[1]) {
				col0, col1 := a.columns[c0], a.columns[c1]
				b0, st0 := col0.Base(), col0.Stride()
				b1, st1 := col1.Base(), col1.Stride()
				rows := a.Len()
				ents := a.entities
				if err := runParallel(splitChunks(rows, chunkSize), func(lo, hi int) error {
					for r := lo; r < hi; r++ {
						fn(ents[r],
							(*T1)(unsafe.Pointer(uintptr(b0)+uintptr(r)*st0)),
							(*T2)(unsafe.Pointer(uintptr(b1)+uintptr(r)*st1)))
					}
					return nil
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ParallelUniform is Parallel with an extra by-value parameter.
func (s *Stream2[T1, T2]) ParallelUniform(chunkSize int, u any, fn func(Identity, *T1, *T2, any)) error {
	return s.Parallel(chunkSize, func(e Identity, c1 *T1, c2 *T2) { fn(e, c1, c2, u) })
}

func (s *Stream2[T1, T2]) Raw(fn func(entities []Identity, c1 []T1, c2 []T2)) {
	for _, a := range s.query.archetypes {
		if a.IsEmpty() {
			continue
		}
		for _, c0 := range a.Match(s.slots[0]) {
			for _, c1 := range a.Match(s.slots[1]) {
				fn(a.entities, columnSlice[T1](a.columns[c0]), columnSlice[T2](a.columns[c1]))
			}
		}
	}
}

// Blit overwrites every row of every column matching key, for each selected
// component slot independently, across every matched archetype.
func (s *Stream2[T1, T2]) Blit(v1 T1, v2 T2, key Identity) {
	e1 := TypeExpression{Component: s.slots[0].Component, Target: key}
	e2 := TypeExpression{Component: s.slots[1].Component, Target: key}
	rv1, rv2 := reflect.ValueOf(v1), reflect.ValueOf(v2)
	for _, a := range s.query.archetypes {
		for _, c := range a.Match(e1) {
			a.columns[c].Blit(rv1)
		}
		for _, c := range a.Match(e2) {
			a.columns[c].Blit(rv2)
		}
	}
}

// Stream3 is a typed view over three selected component slots.
type Stream3[T1, T2, T3 any] struct {
	world *World
	mask  Mask
	slots [3]TypeExpression
	query *registeredQuery
}

func CreateStream3[T1, T2, T3 any](w *World, key1, key2, key3 Identity, excludes ...TypeExpression) *Stream3[T1, T2, T3] {
	e1 := TypeExpression{Component: GetID[T1](), Target: key1}
	e2 := TypeExpression{Component: GetID[T2](), Target: key2}
	e3 := TypeExpression{Component: GetID[T3](), Target: key3}
	m := Mask{Has: []TypeExpression{e1, e2, e3}, Not: excludes}
	return &Stream3[T1, T2, T3]{world: w, mask: m, slots: [3]TypeExpression{e1, e2, e3}, query: w.registerQuery(m)}
}

// Refresh forces a full rescan of the world's current archetypes.
func (s *Stream3[T1, T2, T3]) Refresh() { s.query.rebuild(s.world) }

func (s *Stream3[T1, T2, T3]) ForEach(fn func(Identity, *T1, *T2, *T3)) error {
	cur := newJoinCursor(s.world, s.query.archetypes, s.slots[:])
	for {
		ok, err := cur.next(true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(cur.entity(), (*T1)(cur.columnPtr(0)), (*T2)(cur.columnPtr(1)), (*T3)(cur.columnPtr(2)))
	}
}

func (s *Stream3[T1, T2, T3]) Raw(fn func(entities []Identity, c1 []T1, c2 []T2, c3 []T3)) {
	for _, a := range s.query.archetypes {
		if a.IsEmpty() {
			continue
		}
		for _, c0 := range a.Match(s.slots[0]) {
			for _, c1 := range a.Match(s.slots[1]) {
				for _, c2 := range a.Match(s.slots[2]) {
					fn(a.entities, columnSlice[T1](a.columns[c0]), columnSlice[T2](a.columns[c1]), columnSlice[T3](a.columns[c2]))
				}
			}
		}
	}
}

// Stream4 is a typed view over four selected component slots.
type Stream4[T1, T2, T3, T4 any] struct {
	world *World
	mask  Mask
	slots [4]TypeExpression
	query *registeredQuery
}

func CreateStream4[T1, T2, T3, T4 any](w *World, key1, key2, key3, key4 Identity, excludes ...TypeExpression) *Stream4[T1, T2, T3, T4] {
	e1 := TypeExpression{Component: GetID[T1](), Target: key1}
	e2 := TypeExpression{Component: GetID[T2](), Target: key2}
	e3 := TypeExpression{Component: GetID[T3](), Target: key3}
	e4 := TypeExpression{Component: GetID[T4](), Target: key4}
	m := Mask{Has: []TypeExpression{e1, e2, e3, e4}, Not: excludes}
	return &Stream4[T1, T2, T3, T4]{world: w, mask: m, slots: [4]TypeExpression{e1, e2, e3, e4}, query: w.registerQuery(m)}
}

// Refresh forces a full rescan of the world's current archetypes.
func (s *Stream4[T1, T2, T3, T4]) Refresh() { s.query.rebuild(s.world) }

func (s *Stream4[T1, T2, T3, T4]) ForEach(fn func(Identity, *T1, *T2, *T3, *T4)) error {
	cur := newJoinCursor(s.world, s.query.archetypes, s.slots[:])
	for {
		ok, err := cur.next(true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(cur.entity(), (*T1)(cur.columnPtr(0)), (*T2)(cur.columnPtr(1)), (*T3)(cur.columnPtr(2)), (*T4)(cur.columnPtr(3)))
	}
}

// Stream5 is a typed view over five selected component slots.
type Stream5[T1, T2, T3, T4, T5 any] struct {
	world *World
	mask  Mask
	slots [5]TypeExpression
	query *registeredQuery
}

func CreateStream5[T1, T2, T3, T4, T5 any](w *World, key1, key2, key3, key4, key5 Identity, excludes ...TypeExpression) *Stream5[T1, T2, T3, T4, T5] {
	e1 := TypeExpression{Component: GetID[T1](), Target: key1}
	e2 := TypeExpression{Component: GetID[T2](), Target: key2}
	e3 := TypeExpression{Component: GetID[T3](), Target: key3}
	e4 := TypeExpression{Component: GetID[T4](), Target: key4}
	e5 := TypeExpression{Component: GetID[T5](), Target: key5}
	m := Mask{Has: []TypeExpression{e1, e2, e3, e4, e5}, Not: excludes}
	return &Stream5[T1, T2, T3, T4, T5]{world: w, mask: m, slots: [5]TypeExpression{e1, e2, e3, e4, e5}, query: w.registerQuery(m)}
}

// Refresh forces a full rescan of the world's current archetypes.
func (s *Stream5[T1, T2, T3, T4, T5]) Refresh() { s.query.rebuild(s.world) }

func (s *Stream5[T1, T2, T3, T4, T5]) ForEach(fn func(Identity, *T1, *T2, *T3, *T4, *T5)) error {
	cur := newJoinCursor(s.world, s.query.archetypes, s.slots[:])
	for {
		ok, err := cur.next(true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fn(cur.entity(),
			(*T1)(cur.columnPtr(0)), (*T2)(cur.columnPtr(1)), (*T3)(cur.columnPtr(2)),
			(*T4)(cur.columnPtr(3)), (*T5)(cur.columnPtr(4)))
	}
}
