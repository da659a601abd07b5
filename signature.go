package archion

import (
	"sort"
	"strings"
)

// Signature is an immutable, sorted, deduplicated sequence of TypeExpressions
// identifying an archetype. Two archetypes with structurally equal Signatures
// are the same archetype (invariant enforced by World's intern table).
type Signature struct {
	exprs []TypeExpression
}

// NewSignature builds a Signature from an unordered, possibly duplicate set
// of TypeExpressions, establishing the canonical sort order.
func NewSignature(exprs ...TypeExpression) Signature {
	cp := append([]TypeExpression(nil), exprs...)
	sort.Slice(cp, func(i, j int) bool { return compareTypeExpression(cp[i], cp[j]) < 0 })
	cp = dedupSorted(cp)
	return Signature{exprs: cp}
}

func dedupSorted(sorted []TypeExpression) []TypeExpression {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, e := range sorted[1:] {
		if compareTypeExpression(out[len(out)-1], e) != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of TypeExpressions in the Signature.
func (s Signature) Len() int { return len(s.exprs) }

// At returns the i-th TypeExpression in canonical order.
func (s Signature) At(i int) TypeExpression { return s.exprs[i] }

// Slice returns the underlying expressions. Callers must not mutate it.
func (s Signature) Slice() []TypeExpression { return s.exprs }

// Contains reports whether s contains expr by exact structural equality
// (not wildcard matching — see TypeExpression.Matches for that).
func (s Signature) Contains(expr TypeExpression) bool {
	_, ok := s.find(expr)
	return ok
}

func (s Signature) find(expr TypeExpression) (int, bool) {
	i := sort.Search(len(s.exprs), func(i int) bool {
		return compareTypeExpression(s.exprs[i], expr) >= 0
	})
	if i < len(s.exprs) && compareTypeExpression(s.exprs[i], expr) == 0 {
		return i, true
	}
	return i, false
}

// Add returns a new Signature with expr inserted, or s unchanged (same
// underlying array) if expr is already present.
func (s Signature) Add(expr TypeExpression) Signature {
	i, ok := s.find(expr)
	if ok {
		return s
	}
	out := make([]TypeExpression, len(s.exprs)+1)
	copy(out, s.exprs[:i])
	out[i] = expr
	copy(out[i+1:], s.exprs[i:])
	return Signature{exprs: out}
}

// Remove returns a new Signature without expr, or s unchanged if expr was
// not present.
func (s Signature) Remove(expr TypeExpression) Signature {
	i, ok := s.find(expr)
	if !ok {
		return s
	}
	out := make([]TypeExpression, len(s.exprs)-1)
	copy(out, s.exprs[:i])
	copy(out[i:], s.exprs[i+1:])
	return Signature{exprs: out}
}

// Union returns a new Signature containing every TypeExpression from s or other.
func (s Signature) Union(other Signature) Signature {
	merged := make([]TypeExpression, 0, len(s.exprs)+len(other.exprs))
	merged = append(merged, s.exprs...)
	merged = append(merged, other.exprs...)
	return NewSignature(merged...)
}

// Intersects reports whether s and other share at least one structurally
// equal TypeExpression.
func (s Signature) Intersects(other Signature) bool {
	i, j := 0, 0
	for i < len(s.exprs) && j < len(other.exprs) {
		c := compareTypeExpression(s.exprs[i], other.exprs[j])
		switch {
		case c == 0:
			return true
		case c < 0:
			i++
		default:
			j++
		}
	}
	return false
}

// Equal reports structural equality between s and other.
func (s Signature) Equal(other Signature) bool {
	if len(s.exprs) != len(other.exprs) {
		return false
	}
	for i := range s.exprs {
		if s.exprs[i] != other.exprs[i] {
			return false
		}
	}
	return true
}

// internKey returns a canonical comparable string for use as a map key,
// since Go cannot key maps by slices directly. Grounded on the same
// fixed-bitmask-as-map-key idiom the reference archetype lookup uses, but
// generalized because TypeExpression carries a 64-bit secondary key that a
// small fixed-width bitmask cannot represent losslessly.
func (s Signature) internKey() string {
	var b strings.Builder
	b.Grow(len(s.exprs) * 16)
	for _, e := range s.exprs {
		writeUint64(&b, uint64(e.Component))
		b.WriteByte('|')
		writeUint64(&b, uint64(e.Target))
		b.WriteByte(';')
	}
	return b.String()
}

func writeUint64(b *strings.Builder, v uint64) {
	var buf [20]byte
	i := len(buf)
	if v == 0 {
		b.WriteByte('0')
		return
	}
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	b.Write(buf[i:])
}

// componentMask returns the coarse bitmask over ComponentID used as a cheap
// pre-filter before the exact wildcard-aware scan. Secondary keys are not
// representable in this mask; it only prunes on component type membership.
func (s Signature) componentMask() maskType {
	var m maskType
	for _, e := range s.exprs {
		m = setMask(m, e.Component)
	}
	return m
}
