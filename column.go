package archion

import (
	"reflect"
	"unsafe"
)

// column is a typed, dense, growable vector of component values for one
// TypeExpression in one archetype. Storage is a reflect.MakeSlice-backed
// typed slice rather than a raw []byte buffer: component types may contain
// pointers (strings, slices, interfaces, pointer fields), and writing into a
// raw byte buffer via unsafe.Pointer arithmetic bypasses the Go runtime's
// write barriers, which corrupts the garbage collector's view of live
// pointers. Keeping the backing slice typed means normal slice-index writes
// go through the compiler-inserted write barriers, and unsafe.Pointer is
// used only for read-side fast paths (Base/stride), never for writes of
// pointer-containing values.
type column struct {
	typ   reflect.Type
	value reflect.Value // the backing []T, addressable via SetLen/Index
	size  uintptr
}

func newColumn(typ reflect.Type, capacity int) *column {
	v := reflect.New(reflect.SliceOf(typ)).Elem()
	v.Set(reflect.MakeSlice(reflect.SliceOf(typ), 0, capacity))
	return &column{typ: typ, value: v, size: typ.Size()}
}

// Len reports the number of populated rows.
func (c *column) Len() int { return c.value.Len() }

// Cap reports the current backing capacity.
func (c *column) Cap() int { return c.value.Cap() }

// Base returns an unsafe pointer to row 0, or nil if empty. Used for
// read-mostly hot loops; callers must not write through it for
// pointer-containing component types (use Set instead).
func (c *column) Base() unsafe.Pointer {
	if c.value.Len() == 0 {
		return nil
	}
	return c.value.UnsafePointer()
}

// Stride returns the byte size of one element.
func (c *column) Stride() uintptr { return c.size }

// AppendZero appends one zero-valued row and returns its index.
func (c *column) AppendZero() int {
	row := c.value.Len()
	c.growTo(row + 1)
	c.value.Index(row).SetZero()
	return row
}

// AppendValueN appends count copies of value.
func (c *column) AppendValueN(value reflect.Value, count int) {
	start := c.value.Len()
	c.growTo(start + count)
	for i := 0; i < count; i++ {
		c.value.Index(start + i).Set(value)
	}
}

func (c *column) growTo(newLen int) {
	if newLen <= c.value.Cap() {
		c.value.SetLen(newLen)
		return
	}
	newCap := c.value.Cap() * 2
	if newCap < newLen {
		newCap = newLen
	}
	if newCap < 1 {
		newCap = 1
	}
	next := reflect.MakeSlice(c.value.Type(), newLen, newCap)
	reflect.Copy(next, c.value)
	c.value.Set(next)
}

// Get returns the row-th value as a reflect.Value (addressable view into the
// backing slice, not a copy).
func (c *column) Get(row int) reflect.Value {
	return c.value.Index(row)
}

// Set overwrites row with value, going through the typed slice's write
// barrier-safe assignment path.
func (c *column) Set(row int, value reflect.Value) {
	c.value.Index(row).Set(value)
}

// DeleteSwap removes row by swapping the last element into its place and
// shrinking by one, preserving O(1) removal at the cost of row order.
func (c *column) DeleteSwap(row int) {
	last := c.value.Len() - 1
	if row != last {
		c.value.Index(row).Set(c.value.Index(last))
	}
	c.value.SetLen(last)
}

// MigrateRowTo appends self[row]'s value onto dst, then deletes row from self
// via swap-removal.
func (c *column) MigrateRowTo(dst *column, row int) {
	v := c.value.Index(row)
	dst.growTo(dst.value.Len() + 1)
	dst.value.Index(dst.value.Len() - 1).Set(v)
	c.DeleteSwap(row)
}

// Blit overwrites every populated row with a copy of value.
func (c *column) Blit(value reflect.Value) {
	n := c.value.Len()
	for i := 0; i < n; i++ {
		c.value.Index(i).Set(value)
	}
}

// typedColumn is a generic, type-safe accessor over a *column for T, used by
// the typed World API (GetComponent/GetAll) once the caller's static T has
// already resolved which column slot to read.
type typedColumn[T any] struct {
	*column
}

func (c typedColumn[T]) GetPtr(row int) *T {
	return (*T)(unsafe.Pointer(uintptr(c.Base()) + uintptr(row)*c.Stride()))
}
