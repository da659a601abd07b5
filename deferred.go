package archion

import "reflect"

// deferredOpKind tags the variant of a queued structural mutation.
type deferredOpKind uint8

const (
	opAdd deferredOpKind = iota
	opRemove
	opDespawn
	opTruncate
)

// deferredOp is one entry in the World's FIFO deferred-mutation queue,
// populated while a world-lock is held and replayed on last unlock.
type deferredOp struct {
	kind      deferredOpKind
	id        Identity
	expr      TypeExpression
	value     reflect.Value
	archetype *Archetype
	maxCount  int
}
