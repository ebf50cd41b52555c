// File: sssp.go
// Role: single-source shortest paths via Dijkstra's algorithm (spec.md
// §4.7). Grounded on
// _examples/katalvlaran-lvlath/dijkstra/dijkstra.go's lazy-decrease-key
// min-heap strategy (push duplicates, skip stale pops), adapted to
// core.DestID vertex ids and snapshot.Snapshot.Edges as the relaxation
// source.
package kernels

import (
	"container/heap"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
)

// SSSPResult holds per-vertex shortest distance from a single Dijkstra
// run. Unreached vertices are absent (treat as +Inf).
type SSSPResult struct {
	Distance map[core.DestID]float64
}

type ssspItem struct {
	dist float64
	id   core.DestID
}

type ssspHeap []ssspItem

func (h ssspHeap) Len() int            { return len(h) }
func (h ssspHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h ssspHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *ssspHeap) Push(x interface{}) { *h = append(*h, x.(ssspItem)) }
func (h *ssspHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SSSP runs Dijkstra from source over s using each edge's weight as its
// cost. Negative weights are not validated against (spec.md's Non-goals
// exclude schema beyond a scalar edge weight; the driver is trusted to
// not feed a negative-weight stream to this kernel).
func SSSP(s *snapshot.Snapshot, source core.DestID) (*SSSPResult, error) {
	if !s.HasVertex(source) {
		return nil, ErrSourceNotFound
	}

	dist := map[core.DestID]float64{source: 0}
	h := &ssspHeap{{dist: 0, id: source}}
	visited := make(map[core.DestID]bool)

	for h.Len() > 0 {
		cur := heap.Pop(h).(ssspItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		_, _ = s.Edges(cur.id, func(dest core.DestID, weight float64) bool {
			if visited[dest] {
				return true
			}
			nd := cur.dist + weight
			if old, ok := dist[dest]; !ok || nd < old {
				dist[dest] = nd
				heap.Push(h, ssspItem{dist: nd, id: dest})
			}
			return true
		})
	}
	return &SSSPResult{Distance: dist}, nil
}
