// File: wcc.go
// Role: weakly-connected components via union-find over every edge
// observed through the snapshot (spec.md §4.7). Grounded on
// _examples/katalvlaran-lvlath/prim_kruskal/kruskal.go's DSU: a
// map-based parent/rank forest with path-halving find and union-by-rank,
// adapted to core.DestID keys.
package kernels

import (
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
)

type dsu struct {
	parent map[core.DestID]core.DestID
	rank   map[core.DestID]int
}

func newDSU() *dsu {
	return &dsu{parent: make(map[core.DestID]core.DestID), rank: make(map[core.DestID]int)}
}

func (d *dsu) makeSet(v core.DestID) {
	if _, ok := d.parent[v]; !ok {
		d.parent[v] = v
		d.rank[v] = 0
	}
}

// find locates v's root, halving the path as it walks up.
func (d *dsu) find(v core.DestID) core.DestID {
	for d.parent[v] != v {
		d.parent[v] = d.parent[d.parent[v]]
		v = d.parent[v]
	}
	return v
}

func (d *dsu) union(a, b core.DestID) {
	rootA, rootB := d.find(a), d.find(b)
	if rootA == rootB {
		return
	}
	if d.rank[rootA] < d.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	d.parent[rootB] = rootA
	if d.rank[rootA] == d.rank[rootB] {
		d.rank[rootA]++
	}
}

// WCCResult maps each vertex to a compact component id, assigned in
// first-visit order (spec.md §4.7 "labels compacted by assigning
// component ids in first-visit order").
type WCCResult struct {
	Component map[core.DestID]int
	NumComps  int
}

// WCC computes weakly-connected components over every vertex and edge
// visible through s.
func WCC(s *snapshot.Snapshot) *WCCResult {
	d := newDSU()
	s.ForEachVertex(func(v core.DestID) bool {
		d.makeSet(v)
		return true
	})
	s.ForEachVertex(func(v core.DestID) bool {
		_, _ = s.Edges(v, func(dest core.DestID, _ float64) bool {
			d.makeSet(dest)
			d.union(v, dest)
			return true
		})
		return true
	})

	labels := make(map[core.DestID]int, len(d.parent))
	next := 0
	s.ForEachVertex(func(v core.DestID) bool {
		root := d.find(v)
		if _, ok := labels[root]; !ok {
			labels[root] = next
			next++
		}
		return true
	})
	result := make(map[core.DestID]int, len(d.parent))
	for v := range d.parent {
		result[v] = labels[d.find(v)]
	}
	return &WCCResult{Component: result, NumComps: next}
}
