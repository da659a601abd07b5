package archion

// worldMeta is the World's per-slot bookkeeping row: for each entity index,
// the triple (Archetype, Row, Identity) the data model calls for. World owns
// these slots; entities may move rows/archetypes but keep their external
// Identity.
type worldMeta struct {
	archetype *Archetype
	row       int
	identity  Identity
}

func (m worldMeta) alive(id Identity) bool {
	return m.identity != NoneIdentity && m.identity == id
}
