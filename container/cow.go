// File: cow.go
// Role: the container variant backing the copy-on-write concurrency
// policy (spec.md §4.5, §9). Every vertex's neighbor is always a
// *edgeindex.PAM: the one edge-index variant offering a cheap Clone(),
// satisfying the "neighbor must be value-typed and cheaply cloneable"
// design note. A batched edge insert CSR-packs its pairs by source and
// applies them via vertexindex.Cow.MultiUpdateSorted, cloning each
// target neighbor before mutating it so readers holding the old root
// keep observing the pre-batch adjacency.
package container

import (
	"sort"
	"sync/atomic"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/katalvlaran/txgraph/vertexindex"
)

// Cow is a Graph backed by a persistent vertexindex.Cow.
type Cow struct {
	vi       *vertexindex.Cow
	Directed bool
	Weighted bool
	edgeCfg  edgeindex.Config

	vertexCount int64
	edgeCount   int64
}

var _ Graph = (*Cow)(nil)

// NewCow constructs an empty COW container.
func NewCow(directed, weighted bool, edgeCfg edgeindex.Config) *Cow {
	return &Cow{vi: vertexindex.NewCow(), Directed: directed, Weighted: weighted, edgeCfg: edgeCfg}
}

// ForEachVertex implements Graph, visiting ids in ascending order.
func (c *Cow) ForEachVertex(cb func(v core.DestID) bool) {
	c.vi.Scan(func(id core.DestID, _ *core.VertexEntry) bool { return cb(id) })
}

// Snapshot returns a point-in-time view sharing the current persistent
// root: subsequent writes to c replace nodes via copy-on-write and never
// mutate anything the snapshot's root still references (spec.md §5
// "reader snapshots keep the old root alive until they are dropped").
func (c *Cow) Snapshot() *Cow {
	return &Cow{
		vi:          c.vi.Clone(),
		Directed:    c.Directed,
		Weighted:    c.Weighted,
		edgeCfg:     c.edgeCfg,
		vertexCount: atomic.LoadInt64(&c.vertexCount),
		edgeCount:   atomic.LoadInt64(&c.edgeCount),
	}
}

// InsertVertex registers vertex id v with a fresh, empty PAM neighbor.
// Fails with core.ErrVertexExists if v is already present.
func (c *Cow) InsertVertex(v core.DestID, t core.Timestamp) error {
	if err := c.vi.InsertVertex(v, edgeindex.NewPAM(c.edgeCfg), t); err != nil {
		return err
	}
	atomic.AddInt64(&c.vertexCount, 1)
	return nil
}

// HasVertex implements Graph.
func (c *Cow) HasVertex(v core.DestID) bool { return c.vi.HasVertex(v) }

// HasEdge implements Graph.
func (c *Cow) HasEdge(src, dest core.DestID, t core.Timestamp) bool {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return false
	}
	return entry.Neighbor.(*edgeindex.PAM).HasEdge(dest, t)
}

// Intersect implements Graph.
func (c *Cow) Intersect(a, b core.DestID, t core.Timestamp) (int, error) {
	ea, ok := c.vi.GetEntry(a)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	eb, ok := c.vi.GetEntry(b)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	return ea.Neighbor.(*edgeindex.PAM).Intersect(eb.Neighbor.(*edgeindex.PAM), t), nil
}

// GetDegree implements Graph.
func (c *Cow) GetDegree(v core.DestID, t core.Timestamp) (uint64, bool) {
	entry, ok := c.vi.GetEntry(v)
	if !ok {
		return 0, false
	}
	return entry.Degree(t), true
}

// VertexCount implements Graph.
func (c *Cow) VertexCount() int { return int(atomic.LoadInt64(&c.vertexCount)) }

// EdgeCount implements Graph.
func (c *Cow) EdgeCount() int { return int(atomic.LoadInt64(&c.edgeCount)) }

// InsertEdge implements Graph: clones src's neighbor, mutates the
// clone, then publishes it via a single-key MultiUpdateSorted call so
// the replacement is visible atomically to subsequent readers of the
// vertex-index root.
func (c *Cow) InsertEdge(src, dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	if !c.vi.HasVertex(src) {
		return false, core.ErrVertexMissing
	}
	inserted := false
	c.vi.MultiUpdateSorted([]core.DestID{src}, t, func(_ core.DestID, neighbor any) (any, int) {
		clone := neighbor.(*edgeindex.PAM).Clone()
		ok, err := clone.InsertEdge(dest, weight, t)
		inserted = ok && err == nil
		added := 0
		if inserted {
			added = 1
		}
		return clone, added
	})
	if inserted {
		atomic.AddInt64(&c.edgeCount, 1)
	}
	return inserted, nil
}

// InsertEdgeBatch implements Graph per spec.md §4.5's COW path: CSR-pack
// pairs into per-source destination lists, sort the source keys, and
// apply the whole batch in one MultiUpdateSorted pass.
func (c *Cow) InsertEdgeBatch(pairs []EdgePair, t core.Timestamp) (int, error) {
	sorted := append([]EdgePair(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Src != sorted[j].Src {
			return sorted[i].Src < sorted[j].Src
		}
		return sorted[i].Dest < sorted[j].Dest
	})

	byDest := make(map[core.DestID][]core.DestID)
	weights := make(map[core.DestID]float64)
	var srcOrder []core.DestID
	for i, p := range sorted {
		if i == 0 || sorted[i-1].Src != p.Src {
			srcOrder = append(srcOrder, p.Src)
		}
		byDest[p.Src] = append(byDest[p.Src], p.Dest)
		weights[p.Src] = p.Weight
	}

	missing := false
	for _, src := range srcOrder {
		if !c.vi.HasVertex(src) {
			missing = true
		}
	}
	if missing {
		return 0, core.ErrVertexMissing
	}

	total := 0
	c.vi.MultiUpdateSorted(srcOrder, t, func(src core.DestID, neighbor any) (any, int) {
		clone := neighbor.(*edgeindex.PAM).Clone()
		n, err := clone.InsertEdgeBatch(byDest[src], weights[src], t)
		if err != nil {
			return clone, 0
		}
		total += n
		return clone, n
	})
	if total > 0 {
		atomic.AddInt64(&c.edgeCount, int64(total))
	}
	return total, nil
}

// RemoveEdge implements Graph. PAM, the only neighbor variant COW uses,
// reports core.ErrFunctionNotImplemented (spec.md §9 Open Questions):
// this always fails the same way, surfaced here rather than silently
// swallowed so the driver's Update workload can log and skip it.
func (c *Cow) RemoveEdge(src, dest core.DestID, t core.Timestamp) error {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return core.ErrVertexMissing
	}
	return entry.Neighbor.(*edgeindex.PAM).RemoveEdge(dest, t)
}

// Edges implements Graph.
func (c *Cow) Edges(src core.DestID, t core.Timestamp, cb func(core.DestID, float64) bool) (int, error) {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	return entry.Neighbor.(*edgeindex.PAM).Edges(t, cb), nil
}

// GCAll implements Graph.
func (c *Cow) GCAll(safeT core.Timestamp) {
	c.vi.Scan(func(_ core.DestID, entry *core.VertexEntry) bool {
		entry.Lock()
		entry.GC(safeT)
		entry.Neighbor.(*edgeindex.PAM).GC(safeT)
		entry.Unlock()
		return true
	})
}
