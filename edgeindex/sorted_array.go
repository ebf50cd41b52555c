// File: sorted_array.go
// Role: the simplest edge-index variant — a dynamic ordered slice of
// core.EdgeEntry, binary-searched by destination (spec.md §4.2.1).
// Determinism: Edges/Iterator always visit destinations ascending.
// Concurrency: none of its own; the owning VertexEntry's lock (2PL) or
// the COW manager's single-writer gate serializes mutation.
package edgeindex

import (
	"sort"

	"github.com/katalvlaran/txgraph/core"
)

// SortedArray is a dynamic ordered sequence of edge entries.
type SortedArray struct {
	cfg     Config
	entries []core.EdgeEntry
}

// NewSortedArray allocates an empty Sorted Array sized per cfg.
func NewSortedArray(cfg Config) *SortedArray {
	return &SortedArray{cfg: cfg, entries: make([]core.EdgeEntry, 0, cfg.DefaultVectorSize)}
}

var _ Index = (*SortedArray)(nil)

// search returns the index of dest if present, and whether it was found.
func (s *SortedArray) search(dest core.DestID) (int, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].Dest >= dest })
	if i < len(s.entries) && s.entries[i].Dest == dest {
		return i, true
	}
	return i, false
}

// HasEdge implements Index.
func (s *SortedArray) HasEdge(dest core.DestID, t core.Timestamp) bool {
	i, ok := s.search(dest)
	if !ok {
		return false
	}
	return !s.cfg.EnableTimestamp || s.entries[i].Chain.CheckVersion(t)
}

// InsertEdge implements Index.
func (s *SortedArray) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	i, ok := s.search(dest)
	if ok {
		if s.cfg.EnableTimestamp {
			if err := s.entries[i].Chain.UpdateVersion(t); err != nil {
				return false, err
			}
		}
		s.entries[i].Weight = weight
		return false, nil
	}
	entry := core.NewEdgeEntry(dest, weight, t)
	s.entries = append(s.entries, core.EdgeEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry
	return true, nil
}

// InsertEdgeBatch implements Index.
func (s *SortedArray) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
	newCount := 0
	for _, d := range dests {
		inserted, err := s.InsertEdge(d, weight, t)
		if err != nil {
			return newCount, err
		}
		if inserted {
			newCount++
		}
	}
	return newCount, nil
}

// Edges implements Index, visiting destinations ascending.
func (s *SortedArray) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	n := 0
	for i := range s.entries {
		e := &s.entries[i]
		if s.cfg.EnableTimestamp && !e.Chain.CheckVersion(t) {
			continue
		}
		n++
		if !cb(e.Dest, e.Weight) {
			break
		}
	}
	return n
}

// Intersect implements Index via the standard merge-walk over two sorted
// ranges (spec.md §4.2.1).
func (s *SortedArray) Intersect(other Index, t core.Timestamp) int {
	if o, ok := other.(*SortedArray); ok {
		return s.mergeWalk(o, t)
	}
	return Intersect(s, other, t)
}

func (s *SortedArray) mergeWalk(o *SortedArray, t core.Timestamp) int {
	i, j, count := 0, 0, 0
	for i < len(s.entries) && j < len(o.entries) {
		a, b := &s.entries[i], &o.entries[j]
		switch {
		case a.Dest == b.Dest:
			if (!s.cfg.EnableTimestamp || a.Chain.CheckVersion(t)) &&
				(!o.cfg.EnableTimestamp || b.Chain.CheckVersion(t)) {
				count++
			}
			i++
			j++
		case a.Dest < b.Dest:
			i++
		default:
			j++
		}
	}
	return count
}

// Iterator implements Index.
func (s *SortedArray) Iterator(t core.Timestamp) Iterator {
	dests := make([]core.DestID, 0, len(s.entries))
	weights := make([]float64, 0, len(s.entries))
	for i := range s.entries {
		e := &s.entries[i]
		if s.cfg.EnableTimestamp && !e.Chain.CheckVersion(t) {
			continue
		}
		dests = append(dests, e.Dest)
		weights = append(weights, e.Weight)
	}
	return &sliceIterator{dests: dests, weights: weights}
}

// InitBulk sorts, deduplicates (keeping the last weight seen) and
// bulk-loads dests (spec.md §4.2.1).
func (s *SortedArray) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	sorted := append([]core.DestID(nil), dests...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	entries := make([]core.EdgeEntry, 0, len(sorted))
	for i, d := range sorted {
		if i > 0 && sorted[i-1] == d {
			continue
		}
		entries = append(entries, core.NewEdgeEntry(d, weight, t))
	}
	s.entries = entries
	return nil
}

// RemoveEdge shift-deletes the entry for dest. Sorted Array always
// supports deletion; removing an absent destination is a no-op.
func (s *SortedArray) RemoveEdge(dest core.DestID, _ core.Timestamp) error {
	i, ok := s.search(dest)
	if !ok {
		return nil
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// Len implements Index.
func (s *SortedArray) Len() int { return len(s.entries) }

// Ordered implements Index: Sorted Array is always ascending.
func (s *SortedArray) Ordered() bool { return true }

// GC trims every entry's version chain to the fragment still reachable
// from safeT (spec.md §4.1).
func (s *SortedArray) GC(safeT core.Timestamp) {
	if !s.cfg.EnableTimestamp {
		return
	}
	for i := range s.entries {
		s.entries[i].Chain.GC(safeT)
	}
}
