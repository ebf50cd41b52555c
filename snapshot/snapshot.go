// File: snapshot.go
// Role: the read-only view every graph kernel and microbenchmark/query
// driver workload consumes (spec.md §4.7 "graph kernels consume only the
// snapshot API"). A Snapshot pins a timestamp and the vertex/edge counts
// observed at open time; under the COW container it also pins the
// persistent root itself via container.Cow.Snapshot so a later writer's
// node replacements never reach it (spec.md §5). ENABLE_FLAT_SNAPSHOT
// additionally materializes the whole adjacency into a plain map, trading
// memory for kernel iteration speed on graphs that fit comfortably in
// RAM (spec.md §6 configuration flags).
package snapshot

import (
	"sort"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
)

// FlatEdge is one destination/weight pair in a flattened adjacency.
type FlatEdge struct {
	Dest   core.DestID
	Weight float64
}

// Snapshot is a read-only, timestamp-bound view over a container.Graph.
type Snapshot struct {
	graph container.Graph
	ts    core.Timestamp

	vertexCountAtOpen int
	edgeCountAtOpen   int

	flat map[core.DestID][]FlatEdge // nil until Flatten is called
}

// Open binds a snapshot to graph at timestamp ts, capturing the advisory
// vertex/edge counts at this instant. A *container.Cow graph is pinned
// through its Snapshot method first.
func Open(graph container.Graph, ts core.Timestamp) *Snapshot {
	if cow, ok := graph.(*container.Cow); ok {
		graph = cow.Snapshot()
	}
	return &Snapshot{
		graph:             graph,
		ts:                ts,
		vertexCountAtOpen: graph.VertexCount(),
		edgeCountAtOpen:   graph.EdgeCount(),
	}
}

// Timestamp returns the bound snapshot timestamp.
func (s *Snapshot) Timestamp() core.Timestamp { return s.ts }

// VertexCount reports the advisory vertex count at open time.
func (s *Snapshot) VertexCount() int { return s.vertexCountAtOpen }

// EdgeCount reports the advisory edge count at open time.
func (s *Snapshot) EdgeCount() int { return s.edgeCountAtOpen }

// HasVertex implements the read primitive GET_VERTEX uses.
func (s *Snapshot) HasVertex(v core.DestID) bool { return s.graph.HasVertex(v) }

// HasEdge implements the read primitive GET_EDGE uses.
func (s *Snapshot) HasEdge(src, dest core.DestID) bool { return s.graph.HasEdge(src, dest, s.ts) }

// GetDegree implements the read primitive GET_WEIGHT/degree queries use.
func (s *Snapshot) GetDegree(v core.DestID) (uint64, bool) { return s.graph.GetDegree(v, s.ts) }

// Intersect counts the common destinations of a and b at this snapshot.
func (s *Snapshot) Intersect(a, b core.DestID) (int, error) { return s.graph.Intersect(a, b, s.ts) }

// Edges implements GET_NEIGHBOR/SCAN_NEIGHBOR: if the snapshot has been
// flattened, it iterates the materialized slice; otherwise it forwards
// to the underlying graph.
func (s *Snapshot) Edges(src core.DestID, cb func(dest core.DestID, weight float64) bool) (int, error) {
	if s.flat != nil {
		edges, ok := s.flat[src]
		if !ok {
			if !s.graph.HasVertex(src) {
				return 0, core.ErrVertexMissing
			}
			return 0, nil
		}
		n := 0
		for _, e := range edges {
			n++
			if !cb(e.Dest, e.Weight) {
				break
			}
		}
		return n, nil
	}
	return s.graph.Edges(src, s.ts, cb)
}

// ForEachVertex visits every vertex id of the bound graph: the root
// pinned at open time under COW, the live vertex index under 2PL.
func (s *Snapshot) ForEachVertex(cb func(v core.DestID) bool) { s.graph.ForEachVertex(cb) }

// Clone returns an independent snapshot bound to the same timestamp and
// counts; for a COW-backed graph it takes a fresh persistent-root pin
// (container.Cow.Snapshot), for a 2PL-backed graph it shares the live
// graph reference since 2PL visibility is enforced entirely by the
// timestamp parameter threaded through every read (spec.md §4.7
// "microbenchmark: each thread opens a snapshot, clones it once").
func (s *Snapshot) Clone() *Snapshot {
	graph := s.graph
	if cow, ok := graph.(*container.Cow); ok {
		graph = cow.Snapshot()
	}
	clone := &Snapshot{
		graph:             graph,
		ts:                s.ts,
		vertexCountAtOpen: s.vertexCountAtOpen,
		edgeCountAtOpen:   s.edgeCountAtOpen,
	}
	if s.flat != nil {
		clone.flat = s.flat // flattened adjacency is immutable once built, safe to share
	}
	return clone
}

// Flatten materializes the whole adjacency reachable from every vertex
// ForEachVertex visits into a plain map, sorted by destination within
// each vertex's slice (ENABLE_FLAT_SNAPSHOT, spec.md §6). Idempotent.
func (s *Snapshot) Flatten() {
	if s.flat != nil {
		return
	}
	flat := make(map[core.DestID][]FlatEdge)
	s.graph.ForEachVertex(func(v core.DestID) bool {
		var edges []FlatEdge
		_, _ = s.graph.Edges(v, s.ts, func(dest core.DestID, weight float64) bool {
			edges = append(edges, FlatEdge{Dest: dest, Weight: weight})
			return true
		})
		sort.Slice(edges, func(i, j int) bool { return edges[i].Dest < edges[j].Dest })
		flat[v] = edges
		return true
	})
	s.flat = flat
}
