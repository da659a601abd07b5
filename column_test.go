package archion

import (
	"reflect"
	"testing"
)

type colTestComp struct {
	X, Y int64
}

func TestColumnAppendGetSet(t *testing.T) {
	c := newColumn(reflect.TypeFor[colTestComp](), 4)
	row := c.AppendZero()
	if row != 0 {
		t.Fatalf("first AppendZero row = %d, want 0", row)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	c.Set(0, reflect.ValueOf(colTestComp{X: 1, Y: 2}))
	got := c.Get(0).Interface().(colTestComp)
	if got != (colTestComp{X: 1, Y: 2}) {
		t.Fatalf("Get(0) = %+v, want {1 2}", got)
	}
}

func TestColumnGrowsBeyondInitialCapacity(t *testing.T) {
	c := newColumn(reflect.TypeFor[colTestComp](), 2)
	for i := 0; i < 10; i++ {
		row := c.AppendZero()
		c.Set(row, reflect.ValueOf(colTestComp{X: int64(i)}))
	}
	if c.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", c.Len())
	}
	for i := 0; i < 10; i++ {
		if got := c.Get(i).Interface().(colTestComp).X; got != int64(i) {
			t.Fatalf("row %d: X = %d, want %d", i, got, i)
		}
	}
}

func TestColumnDeleteSwap(t *testing.T) {
	c := newColumn(reflect.TypeFor[colTestComp](), 4)
	for i := 0; i < 3; i++ {
		row := c.AppendZero()
		c.Set(row, reflect.ValueOf(colTestComp{X: int64(i)}))
	}
	c.DeleteSwap(0)
	if c.Len() != 2 {
		t.Fatalf("Len() after DeleteSwap = %d, want 2", c.Len())
	}
	if got := c.Get(0).Interface().(colTestComp).X; got != 2 {
		t.Fatalf("row 0 after DeleteSwap(0) = %d, want 2 (last swapped in)", got)
	}
}

func TestColumnDeleteSwapLastRowJustShrinks(t *testing.T) {
	c := newColumn(reflect.TypeFor[colTestComp](), 4)
	c.AppendZero()
	c.DeleteSwap(0)
	if c.Len() != 0 {
		t.Fatalf("Len() after deleting the only row = %d, want 0", c.Len())
	}
}

func TestColumnBlitOverwritesEveryRow(t *testing.T) {
	c := newColumn(reflect.TypeFor[colTestComp](), 4)
	for i := 0; i < 3; i++ {
		c.AppendZero()
	}
	c.Blit(reflect.ValueOf(colTestComp{X: 9, Y: 9}))
	for i := 0; i < 3; i++ {
		if got := c.Get(i).Interface().(colTestComp); got != (colTestComp{X: 9, Y: 9}) {
			t.Fatalf("row %d after Blit = %+v, want {9 9}", i, got)
		}
	}
}

func TestColumnMigrateRowTo(t *testing.T) {
	src := newColumn(reflect.TypeFor[colTestComp](), 4)
	dst := newColumn(reflect.TypeFor[colTestComp](), 4)
	row := src.AppendZero()
	src.Set(row, reflect.ValueOf(colTestComp{X: 42}))
	src.MigrateRowTo(dst, row)
	if src.Len() != 0 {
		t.Fatalf("src.Len() after migrate = %d, want 0", src.Len())
	}
	if dst.Len() != 1 {
		t.Fatalf("dst.Len() after migrate = %d, want 1", dst.Len())
	}
	if got := dst.Get(0).Interface().(colTestComp).X; got != 42 {
		t.Fatalf("dst row 0 X = %d, want 42", got)
	}
}

func TestColumnHoldsPointerContainingTypesSafely(t *testing.T) {
	type withSlice struct {
		Tags []string
	}
	c := newColumn(reflect.TypeFor[withSlice](), 2)
	row := c.AppendZero()
	c.Set(row, reflect.ValueOf(withSlice{Tags: []string{"a", "b"}}))
	got := c.Get(row).Interface().(withSlice)
	if len(got.Tags) != 2 || got.Tags[0] != "a" {
		t.Fatalf("pointer-containing component value corrupted: %+v", got)
	}
}
