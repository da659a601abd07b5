package archion

import (
	"errors"
	"testing"
)

type hp struct{ Value int }

func TestSpawnDespawnGenerationRecycling(t *testing.T) {
	// scenario S5: generation recycling.
	ResetGlobalRegistry()
	w := NewWorld()
	e1 := w.Spawn()
	if err := w.Despawn(e1); err != nil {
		t.Fatalf("Despawn(e1): %v", err)
	}
	e2 := w.Spawn()
	if e2.Index() == e1.Index() {
		if e2.Generation() != e1.Generation()+1 {
			t.Fatalf("recycled slot generation = %d, want %d", e2.Generation(), e1.Generation()+1)
		}
	}
	if e1 == e2 {
		t.Fatal("e1 and e2 must not be equal after despawn/respawn (invariant 2)")
	}
	if w.IsAlive(e1) {
		t.Fatal("e1 must not be alive after despawn")
	}
	if !w.IsAlive(e2) {
		t.Fatal("e2 must be alive after spawn")
	}
}

func TestGenerationAdvancesAcrossMultipleRecycles(t *testing.T) {
	// A slot recycled more than once must keep advancing its generation —
	// regression test for losing the last-assigned generation on despawn.
	ResetGlobalRegistry()
	w := NewWorld()
	var last Identity
	var sameSlotCount int
	for i := 0; i < 8; i++ {
		e := w.Spawn()
		if i > 0 && e.Index() == last.Index() {
			sameSlotCount++
			if e.Generation() <= last.Generation() {
				t.Fatalf("round %d: generation did not advance on slot reuse: %d -> %d", i, last.Generation(), e.Generation())
			}
		}
		last = e
		if err := w.Despawn(e); err != nil {
			t.Fatalf("Despawn: %v", err)
		}
	}
	if sameSlotCount == 0 {
		t.Skip("allocator never reused the same slot across iterations; generation advance not exercised")
	}
}

func TestAddComponentMigratesAndBackfills(t *testing.T) {
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()
	e := w.Spawn()

	if err := AddComponent(w, e, NoneIdentity, hp{Value: 10}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	got, err := GetComponent[hp](w, e, NoneIdentity)
	if err != nil {
		t.Fatalf("GetComponent: %v", err)
	}
	if got.Value != 10 {
		t.Fatalf("GetComponent value = %d, want 10", got.Value)
	}

	if err := AddComponent(w, e, NoneIdentity, hp{Value: 20}); !errors.Is(err, ErrComponentAlreadyPresent) {
		t.Fatalf("double AddComponent error = %v, want wrapping ErrComponentAlreadyPresent", err)
	}
}

type tagPtr struct{ Name string }

func TestAddComponentRejectsNilPointerValue(t *testing.T) {
	ResetGlobalRegistry()
	RegisterComponent[*tagPtr]()
	w := NewWorld()
	e := w.Spawn()

	err := AddComponent[*tagPtr](w, e, NoneIdentity, nil)
	if !errors.Is(err, ErrNullComponentValue) {
		t.Fatalf("AddComponent(nil *tagPtr) error = %v, want wrapping ErrNullComponentValue", err)
	}
	if HasComponent[*tagPtr](w, e, NoneIdentity) {
		t.Fatal("a rejected nil component value must not be migrated into storage")
	}
}

func TestRemoveComponentRoundTripLeavesNoResidualColumn(t *testing.T) {
	// invariant 7: idempotent add -> remove.
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()
	e := w.Spawn()
	startSig, _ := w.SignatureOf(e)

	if err := AddComponent(w, e, NoneIdentity, hp{Value: 1}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if err := RemoveComponent[hp](w, e, NoneIdentity); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	endSig, _ := w.SignatureOf(e)
	if !startSig.Equal(endSig) {
		t.Fatal("signature after add+remove must equal the original signature")
	}
	if HasComponent[hp](w, e, NoneIdentity) {
		t.Fatal("component must not be present after RemoveComponent")
	}
}

func TestMetaCoherenceAfterMigration(t *testing.T) {
	// invariant 5: archetype(e).column_identity[row(e)] == e, after a migration.
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()
	ids := w.SpawnN(10)
	for _, e := range ids {
		if err := AddComponent(w, e, NoneIdentity, hp{Value: int(e.Index())}); err != nil {
			t.Fatalf("AddComponent: %v", err)
		}
	}
	for _, e := range ids {
		a, err := w.ArchetypeOf(e)
		if err != nil {
			t.Fatalf("ArchetypeOf: %v", err)
		}
		idx := e.Index()
		row := w.slots[idx].row
		if a.entities[row] != e {
			t.Fatalf("meta desync for %v: archetype identity column at row %d = %v", e, row, a.entities[row])
		}
	}
}

func TestDeferredModeQueuesAndDrainsOnUnlock(t *testing.T) {
	// scenario S4: a despawn issued during iteration under a lock is queued
	// and applied when the lock is released.
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()
	e := w.Spawn()
	if err := AddComponent(w, e, NoneIdentity, hp{Value: 1}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	unlock := w.Lock()
	stream := CreateStream[hp](w, NoneIdentity)
	var visited int
	err := stream.ForEach(func(id Identity, c *hp) {
		visited++
		if err := w.Despawn(id); err != nil {
			t.Fatalf("Despawn during iteration: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("ForEach under lock returned error: %v", err)
	}
	if visited != 1 {
		t.Fatalf("visited = %d, want 1", visited)
	}
	if !w.IsAlive(e) {
		t.Fatal("entity must still be alive while the lock is held (despawn deferred)")
	}
	unlock()
	if w.IsAlive(e) {
		t.Fatal("entity must be despawned once the lock is released and the queue drains")
	}

	stream2 := CreateStream[hp](w, NoneIdentity)
	var second int
	if err := stream2.ForEach(func(Identity, *hp) { second++ }); err != nil {
		t.Fatalf("ForEach after drain returned error: %v", err)
	}
	if second != 0 {
		t.Fatalf("second query visited = %d, want 0", second)
	}
}

func TestReentrantLockDrainsOnlyOnLastRelease(t *testing.T) {
	ResetGlobalRegistry()
	w := NewWorld()
	e := w.Spawn()

	unlockOuter := w.Lock()
	unlockInner := w.Lock()
	if err := w.Despawn(e); err != nil {
		t.Fatalf("Despawn: %v", err)
	}
	unlockInner()
	if !w.IsAlive(e) {
		t.Fatal("releasing the inner lock reference must not drain the deferred queue")
	}
	unlockOuter()
	if w.IsAlive(e) {
		t.Fatal("releasing the last lock reference must drain the deferred queue")
	}
}

func TestSpawnNWithBulkBackfillsSingleColumn(t *testing.T) {
	// exercises the append_n bulk-fill primitive (column.go AppendValueN) via
	// Archetype.AddRowsN, rather than one AddComponent call per entity.
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()

	ids := SpawnNWith(w, 5, hp{Value: 7})
	if len(ids) != 5 {
		t.Fatalf("SpawnNWith returned %d identities, want 5", len(ids))
	}
	seen := map[Identity]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("SpawnNWith returned duplicate identity %v", id)
		}
		seen[id] = true
		if !w.IsAlive(id) {
			t.Fatalf("entity %v not alive after SpawnNWith", id)
		}
		got, err := GetComponent[hp](w, id, NoneIdentity)
		if err != nil {
			t.Fatalf("GetComponent: %v", err)
		}
		if got.Value != 7 {
			t.Fatalf("component value = %d, want 7", got.Value)
		}
	}
}

func TestQueryBuilderCompileTracksLiveArchetypeSet(t *testing.T) {
	// QueryBuilder and registeredQuery share the same registration mechanism
	// as CreateStream*: Compile must see newly created matching archetypes
	// without being recompiled.
	ResetGlobalRegistry()
	RegisterComponent[hp]()
	w := NewWorld()
	hpID := GetID[hp]()

	q := NewQueryBuilder(w).Has(Plain(hpID)).Compile()
	if len(q.archetypes) != 0 {
		t.Fatalf("Compile before any hp entity exists matched %d archetypes, want 0", len(q.archetypes))
	}

	e := w.Spawn()
	if err := AddComponent(w, e, NoneIdentity, hp{Value: 1}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if len(q.archetypes) != 1 {
		t.Fatalf("registeredQuery after a new matching archetype is created = %d archetypes, want 1", len(q.archetypes))
	}
}

func TestSignatureOfUnknownEntityErrors(t *testing.T) {
	ResetGlobalRegistry()
	w := NewWorld()
	e := w.Spawn()
	_ = w.Despawn(e)
	if _, err := w.SignatureOf(e); err == nil {
		t.Fatal("SignatureOf on a despawned entity should error")
	}
}
