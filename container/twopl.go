// File: twopl.go
// Role: the container variant backing the 2PL concurrency policy
// (spec.md §4.5). Mutation serialization is the caller's
// responsibility (the txn package's write-transaction commit acquires
// each target vertex's lock before calling into this type); TwoPL
// itself only guards its own atomic counters and the vertex index's
// table lock for structural growth.
package container

import (
	"sort"
	"sync/atomic"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/katalvlaran/txgraph/vertexindex"
)

// TwoPL is a Graph backed by a dense vertexindex.Vector. Directed
// determines whether InsertEdge callers (the txn layer) must enqueue
// the reverse direction themselves; TwoPL stores exactly the
// directions it is asked to.
type TwoPL struct {
	vi       *vertexindex.Vector
	Directed bool
	Weighted bool

	edgeCfg     edgeindex.Config
	newNeighbor func() edgeindex.Index

	vertexCount int64 // mirrors vi.VertexCount(); kept for the advisory atomic contract
	edgeCount   int64
}

var _ Graph = (*TwoPL)(nil)

// NewTwoPL constructs an empty TwoPL container. newNeighbor builds a
// fresh, empty neighbor container for each inserted vertex — typically a
// closure such as func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) },
// or one returning edgeindex.NewPMA(cfg) or edgeindex.NewAdaptive(variant, cfg).
func NewTwoPL(directed, weighted bool, edgeCfg edgeindex.Config, newNeighbor func() edgeindex.Index) *TwoPL {
	return &TwoPL{
		vi:          vertexindex.NewVector(),
		Directed:    directed,
		Weighted:    weighted,
		edgeCfg:     edgeCfg,
		newNeighbor: newNeighbor,
	}
}

// HasVertex implements Graph.
func (c *TwoPL) HasVertex(v core.DestID) bool { return c.vi.HasVertex(v) }

// InsertVertex allocates a neighbor container and records a new vertex
// entry with an auto-assigned id. The 2PL vertex index never fails on
// insert: see vertexindex.Vector's dense-id contract.
func (c *TwoPL) InsertVertex(t core.Timestamp) core.DestID {
	id := c.vi.InsertVertex(c.newNeighbor(), t)
	atomic.AddInt64(&c.vertexCount, 1)
	return id
}

// HasEdge implements Graph.
func (c *TwoPL) HasEdge(src, dest core.DestID, t core.Timestamp) bool {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return false
	}
	entry.RLock()
	defer entry.RUnlock()
	return entry.Neighbor.(edgeindex.Index).HasEdge(dest, t)
}

// Intersect implements Graph.
func (c *TwoPL) Intersect(a, b core.DestID, t core.Timestamp) (int, error) {
	ea, ok := c.vi.GetEntry(a)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	eb, ok := c.vi.GetEntry(b)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	ea.RLock()
	defer ea.RUnlock()
	eb.RLock()
	defer eb.RUnlock()
	return ea.Neighbor.(edgeindex.Index).Intersect(eb.Neighbor.(edgeindex.Index), t), nil
}

// GetDegree implements Graph.
func (c *TwoPL) GetDegree(v core.DestID, t core.Timestamp) (uint64, bool) {
	entry, ok := c.vi.GetEntry(v)
	if !ok {
		return 0, false
	}
	entry.RLock()
	defer entry.RUnlock()
	return entry.Degree(t), true
}

// VertexCount implements Graph.
func (c *TwoPL) VertexCount() int { return int(atomic.LoadInt64(&c.vertexCount)) }

// EdgeCount implements Graph.
func (c *TwoPL) EdgeCount() int { return int(atomic.LoadInt64(&c.edgeCount)) }

// InsertEdge implements Graph. The caller is expected to already hold
// src's exclusive lock (the txn write-commit path acquires it as part
// of its sorted lock list); InsertEdge does not lock internally so a
// batch of several edges to the same source can share one acquisition.
func (c *TwoPL) InsertEdge(src, dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return false, core.ErrVertexMissing
	}
	neighbor := entry.Neighbor.(edgeindex.Index)
	inserted, err := neighbor.InsertEdge(dest, weight, t)
	if err != nil {
		return false, err
	}
	if inserted {
		entry.UpdateDegree(entry.Degree(t)+1, t)
		atomic.AddInt64(&c.edgeCount, 1)
	}
	return inserted, nil
}

// InsertEdgeBatch implements Graph: sorts pairs by source and issues one
// InsertEdgeBatch call per contiguous source group. Like InsertEdge it
// takes no locks; the caller already holds each source's exclusive lock
// (spec.md §4.6 commit
// step 4: "if the write batch has <= 2 edges, issue them singly;
// otherwise sort by source and call insert_edge_batch per source
// group" — callers with tiny batches may prefer InsertEdge directly).
func (c *TwoPL) InsertEdgeBatch(pairs []EdgePair, t core.Timestamp) (int, error) {
	sorted := append([]EdgePair(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Src != sorted[j].Src {
			return sorted[i].Src < sorted[j].Src
		}
		return sorted[i].Dest < sorted[j].Dest
	})

	total := 0
	i := 0
	for i < len(sorted) {
		j := i
		src := sorted[i].Src
		for j < len(sorted) && sorted[j].Src == src {
			j++
		}
		dests := make([]core.DestID, j-i)
		weight := 0.0
		for k := i; k < j; k++ {
			dests[k-i] = sorted[k].Dest
			weight = sorted[k].Weight
		}
		entry, ok := c.vi.GetEntry(src)
		if !ok {
			return total, core.ErrVertexMissing
		}
		neighbor := entry.Neighbor.(edgeindex.Index)
		n, err := neighbor.InsertEdgeBatch(dests, weight, t)
		if err != nil {
			return total, err
		}
		if n > 0 {
			entry.UpdateDegree(entry.Degree(t)+uint64(n), t)
			atomic.AddInt64(&c.edgeCount, int64(n))
			total += n
		}
		i = j
	}
	return total, nil
}

// Edges implements Graph.
func (c *TwoPL) Edges(src core.DestID, t core.Timestamp, cb func(core.DestID, float64) bool) (int, error) {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return 0, core.ErrVertexMissing
	}
	entry.RLock()
	defer entry.RUnlock()
	return entry.Neighbor.(edgeindex.Index).Edges(t, cb), nil
}

// ForEachVertex implements Graph, visiting ids in ascending order.
func (c *TwoPL) ForEachVertex(cb func(v core.DestID) bool) {
	c.vi.Scan(func(id core.DestID, _ *core.VertexEntry) bool { return cb(id) })
}

// RemoveEdge implements Graph. The caller is expected to already hold
// src's exclusive lock, matching InsertEdge's contract.
func (c *TwoPL) RemoveEdge(src, dest core.DestID, t core.Timestamp) error {
	entry, ok := c.vi.GetEntry(src)
	if !ok {
		return core.ErrVertexMissing
	}
	neighbor := entry.Neighbor.(edgeindex.Index)
	existed := neighbor.HasEdge(dest, t)
	if err := neighbor.RemoveEdge(dest, t); err != nil {
		return err
	}
	if existed {
		if d := entry.Degree(t); d > 0 {
			entry.UpdateDegree(d-1, t)
		}
		atomic.AddInt64(&c.edgeCount, -1)
	}
	return nil
}

// LockVertex returns v's entry with its per-vertex lock already held
// (exclusive for writers, shared for readers), for use by the txn
// package's sorted lock-acquisition protocol (spec.md §4.6 commit step
// 2). Callers release via entry.Unlock()/RUnlock().
func (c *TwoPL) LockVertex(v core.DestID, exclusive bool) (*core.VertexEntry, bool) {
	entry, ok := c.vi.GetEntry(v)
	if !ok {
		return nil, false
	}
	if exclusive {
		entry.Lock()
	} else {
		entry.RLock()
	}
	return entry, true
}

// LockTable acquires the vertex index's table-wide lock (core.IndexLock
// in the txn layer's sorted lock list).
func (c *TwoPL) LockTable(exclusive bool) { c.vi.Lock(exclusive) }

// UnlockTable releases the lock acquired by LockTable.
func (c *TwoPL) UnlockTable(exclusive bool) { c.vi.Unlock(exclusive) }

// GCAll implements Graph: walks every vertex under the table's
// exclusive lock, trimming its degree chain and its neighbor's edge
// version chains (spec.md §4.5, §5 — table lock then per-vertex
// exclusive locks, one at a time).
func (c *TwoPL) GCAll(safeT core.Timestamp) {
	c.vi.Lock(true)
	defer c.vi.Unlock(true)
	c.vi.Scan(func(_ core.DestID, entry *core.VertexEntry) bool {
		entry.Lock()
		entry.GC(safeT)
		entry.Neighbor.(edgeindex.Index).GC(safeT)
		entry.Unlock()
		return true
	})
}
