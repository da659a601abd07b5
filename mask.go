package archion

import "fmt"

// maskType is a coarse bitmask over ComponentID, used as a cheap pre-filter
// before the exact, secondary-key-aware TypeExpression scan in
// Archetype.Match. It cannot represent secondary keys, so it only ever
// prunes on component-type membership.
type maskType [maskWords]uint64

// has checks if the mask has a specific component ID.
func (self maskType) has(id ComponentID) bool {
	word := int(id / bitsPerWord)
	if word >= maskWords {
		return false
	}
	bit := id % bitsPerWord
	return (self[word] & (1 << bit)) != 0
}

// setMask adds a component ID to the mask.
func setMask(m maskType, id ComponentID) maskType {
	word := int(id / bitsPerWord)
	if word >= maskWords {
		panic(fmt.Sprintf("component ID %d exceeds maximum (%d)", id, maxComponentTypes))
	}
	bit := id % bitsPerWord
	nm := m
	nm[word] |= (1 << bit)
	return nm
}

// includesAll checks if a mask contains all the bits of another mask.
func includesAll(m, include maskType) bool {
	for i := 0; i < maskWords; i++ {
		if (m[i] & include[i]) != include[i] {
			return false
		}
	}
	return true
}

// intersects checks if a mask has any bits in common with another mask.
func intersects(m, other maskType) bool {
	for i := 0; i < maskWords; i++ {
		if (m[i] & other[i]) != 0 {
			return true
		}
	}
	return false
}

// exprsMask builds the coarse component mask for a slice of TypeExpressions,
// used to fast-reject archetypes before the exact per-expression scan.
func exprsMask(exprs []TypeExpression) maskType {
	var m maskType
	for _, e := range exprs {
		m = setMask(m, e.Component)
	}
	return m
}
