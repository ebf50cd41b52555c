// File: pagerank.go
// Role: iterative-push PageRank with dangling-mass redistribution
// (spec.md §4.7). Not grounded on any single teacher file (lvlath
// carries no PageRank implementation); built from the iterative-push
// formulation described in spec.md itself, in the teacher's functional
// style (fresh degree vector captured at kernel start, plain maps,
// explicit iteration count).
package kernels

import (
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
)

// PageRankResult holds the final rank vector and the number of
// iterations run. It carries no timings: per-iteration wall-clock cost
// (spec.md §4.7 "each PR iteration is timed") is recorded by the
// driver, not this package.
type PageRankResult struct {
	Rank           map[core.DestID]float64
	IterationCount int
}

// PageRank runs numIterations rounds of iterative-push PageRank over s
// with the given damping factor, starting from a uniform rank vector.
// Degrees are captured once at kernel start: a fresh degree vector per
// the spec, not re-read from s on every iteration.
func PageRank(s *snapshot.Snapshot, numIterations int, damping float64) *PageRankResult {
	var vertices []core.DestID
	degree := make(map[core.DestID]uint64)
	s.ForEachVertex(func(v core.DestID) bool {
		vertices = append(vertices, v)
		d, _ := s.GetDegree(v)
		degree[v] = d
		return true
	})
	n := len(vertices)
	if n == 0 {
		return &PageRankResult{Rank: map[core.DestID]float64{}}
	}

	rank := make(map[core.DestID]float64, n)
	for _, v := range vertices {
		rank[v] = 1.0 / float64(n)
	}

	for iter := 0; iter < numIterations; iter++ {
		next := make(map[core.DestID]float64, n)
		danglingMass := 0.0
		for _, v := range vertices {
			if degree[v] == 0 {
				danglingMass += rank[v]
				continue
			}
			share := damping * rank[v] / float64(degree[v])
			_, _ = s.Edges(v, func(dest core.DestID, _ float64) bool {
				next[dest] += share
				return true
			})
		}
		base := (1 - damping) / float64(n)
		danglingShare := damping * danglingMass / float64(n)
		for _, v := range vertices {
			next[v] += base + danglingShare
		}
		rank = next
	}

	return &PageRankResult{Rank: rank, IterationCount: numIterations}
}
