// File: graph.go
// Role: the Graph capability both container variants satisfy (spec.md
// §4.5's public contract) plus EdgePair, the wire-agnostic shape a
// batched edge insert groups by source.
package container

import "github.com/katalvlaran/txgraph/core"

// EdgePair is one (source, destination, weight) triple awaiting
// insertion as part of a batch. Ordering within a batch is not
// significant to callers; InsertEdgeBatch groups by Src internally.
type EdgePair struct {
	Src, Dest core.DestID
	Weight    float64
}

// Graph is the capability every container variant satisfies.
type Graph interface {
	// HasVertex reports whether v names a live vertex.
	HasVertex(v core.DestID) bool

	// HasEdge reports whether an edge src->dest is visible at t.
	HasEdge(src, dest core.DestID, t core.Timestamp) bool

	// Intersect counts destinations visible at t in both a's and b's
	// neighbor lists.
	Intersect(a, b core.DestID, t core.Timestamp) (int, error)

	// GetDegree returns v's degree at t, and whether v exists.
	GetDegree(v core.DestID, t core.Timestamp) (uint64, bool)

	// VertexCount reports the (advisory) number of vertices.
	VertexCount() int

	// EdgeCount reports the (advisory) number of logical edges.
	EdgeCount() int

	// InsertEdge inserts or revises src->dest, returning true iff this
	// created a brand-new logical edge. Fails with core.ErrVertexMissing
	// if src does not exist.
	InsertEdge(src, dest core.DestID, weight float64, t core.Timestamp) (bool, error)

	// InsertEdgeBatch groups pairs by source and applies them, returning
	// the total count of genuinely new logical edges.
	InsertEdgeBatch(pairs []EdgePair, t core.Timestamp) (int, error)

	// Edges forwards to src's neighbor container, invoking cb for every
	// visible destination. Fails with core.ErrVertexMissing if src does
	// not exist.
	Edges(src core.DestID, t core.Timestamp, cb func(dest core.DestID, weight float64) bool) (int, error)

	// GCAll walks every vertex, trimming degree and edge version chains
	// using safeT.
	GCAll(safeT core.Timestamp)

	// RemoveEdge deletes src->dest if the underlying neighbor variant
	// supports deletion, reporting core.ErrFunctionNotImplemented
	// otherwise (spec.md §9 Open Questions).
	RemoveEdge(src, dest core.DestID, t core.Timestamp) error

	// ForEachVertex visits every live vertex id, stopping early if cb
	// returns false. Used by snapshot flattening (ENABLE_FLAT_SNAPSHOT)
	// and by kernels that must enumerate all vertices (WCC, PageRank).
	ForEachVertex(cb func(v core.DestID) bool)
}
