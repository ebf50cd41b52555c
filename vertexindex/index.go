package vertexindex

import "github.com/katalvlaran/txgraph/core"

// Reader is the capability shared by every vertex-index variant: lookup,
// iteration, and GC. Insertion differs enough between Vector (auto-id,
// append-only) and Cow (explicit id, functional update) that it is not
// folded into this interface — callers that know their concurrency
// policy hold the concrete type and call its own InsertVertex (spec.md
// §4.4).
type Reader interface {
	// HasVertex reports whether id names a live vertex.
	HasVertex(id core.DestID) bool

	// GetEntry returns the vertex entry for id, and whether it exists.
	GetEntry(id core.DestID) (*core.VertexEntry, bool)

	// GetNeighbor returns the neighbor container (an edgeindex.Index) for
	// id, and whether the vertex exists.
	GetNeighbor(id core.DestID) (any, bool)

	// Scan visits every vertex entry in the index's native order,
	// stopping early if cb returns false.
	Scan(cb func(id core.DestID, entry *core.VertexEntry) bool)

	// VertexCount reports the number of vertices in the index.
	VertexCount() int

	// GC trims every vertex entry's degree chain to the fragment still
	// reachable from safeT.
	GC(safeT core.Timestamp)
}
