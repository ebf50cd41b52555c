// File: bfs.go
// Role: breadth-first search over a snapshot (spec.md §4.7). Grounded on
// _examples/katalvlaran-lvlath/bfs/bfs.go's walker/queueItem shape, with
// core.DestID in place of string vertex ids and Inf = ^uint64(0) in place
// of a sentinel string distance.
package kernels

import (
	"errors"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
)

// Inf is the hop distance of an unreached vertex. BFS does not store it:
// such a vertex is simply absent from a BFSResult's Distance map.
const Inf = ^uint64(0)

// ErrSourceNotFound is returned when BFS's source vertex is absent from
// the snapshot.
var ErrSourceNotFound = errors.New("kernels: source vertex not found")

// BFSResult holds per-vertex distance (in hops) and visit order from a
// single BFS run.
type BFSResult struct {
	Distance map[core.DestID]uint64
	Order    []core.DestID
}

type bfsQueueItem struct {
	id    core.DestID
	depth uint64
}

// BFS runs breadth-first search from source over s, returning hop
// distances to every reachable vertex. Unreached vertices are absent
// from Distance (callers treat a missing entry as Inf).
func BFS(s *snapshot.Snapshot, source core.DestID) (*BFSResult, error) {
	if !s.HasVertex(source) {
		return nil, ErrSourceNotFound
	}

	visited := map[core.DestID]bool{source: true}
	res := &BFSResult{
		Distance: map[core.DestID]uint64{source: 0},
		Order:    make([]core.DestID, 0),
	}

	queue := []bfsQueueItem{{id: source, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		res.Order = append(res.Order, cur.id)

		_, _ = s.Edges(cur.id, func(dest core.DestID, _ float64) bool {
			if visited[dest] {
				return true
			}
			visited[dest] = true
			res.Distance[dest] = cur.depth + 1
			queue = append(queue, bfsQueueItem{id: dest, depth: cur.depth + 1})
			return true
		})
	}
	return res, nil
}
