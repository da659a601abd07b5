package archion

import "reflect"

// isNullComponentValue reports whether value is a nil pointer, interface,
// slice, map, chan or func being written through a component API that
// requires a concrete value. Ordinary struct/scalar component types can
// never be null and always report false here.
func isNullComponentValue(value reflect.Value) bool {
	if !value.IsValid() {
		// reflect.ValueOf on a nil interface yields the invalid zero Value.
		return true
	}
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return value.IsNil()
	default:
		return false
	}
}

// extendSlice extends a slice by n elements, reallocating if necessary.
func extendSlice[T any](s []T, n int) []T {
	newLen := len(s) + n
	if cap(s) >= newLen {
		return s[:newLen]
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]T, newLen, newCap)
	copy(ns, s)
	return ns
}
