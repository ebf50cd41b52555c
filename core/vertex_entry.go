package core

import "sync"

// degreeVersion is one element of a vertex's degree chain: the degree
// value effective from ts onward, newest first (spec.md §3, §4.3).
type degreeVersion struct {
	degree uint64
	ts     Timestamp
}

// VertexEntry is the per-vertex record owned exclusively by the vertex
// index: its id, a versioned degree chain, a reader-writer lock guarding
// mutation of its neighbor container and degree chain, and an opaque
// handle to that neighbor container.
//
// Neighbor is declared as `any` here so core stays independent of the
// edgeindex package; the container package narrows it back with a type
// assertion at the point of use.
type VertexEntry struct {
	ID DestID

	mu sync.RWMutex

	degrees []degreeVersion // newest first

	// Neighbor is the owning handle to this vertex's neighbor container
	// (an edgeindex.Index implementation, or its Adaptive wrapper under
	// ENABLE_ADAPTIVE). Exactly one VertexEntry owns each Neighbor value.
	Neighbor any
}

// NewVertexEntry creates a vertex entry with degree 0 as of ts.
func NewVertexEntry(id DestID, ts Timestamp, neighbor any) *VertexEntry {
	return &VertexEntry{
		ID:       id,
		degrees:  []degreeVersion{{degree: 0, ts: ts}},
		Neighbor: neighbor,
	}
}

// Lock / Unlock / RLock / RUnlock expose the per-vertex reader-writer
// lock directly; the distinguished IndexLock identifier never reaches
// this type — callers route IndexLock acquisitions through the vertex
// index's own table lock instead (spec.md §4.3).
func (v *VertexEntry) Lock()    { v.mu.Lock() }
func (v *VertexEntry) Unlock()  { v.mu.Unlock() }
func (v *VertexEntry) RLock()   { v.mu.RLock() }
func (v *VertexEntry) RUnlock() { v.mu.RUnlock() }

// Degree returns the first degree-chain element with ts <= T
// (spec.md §4.3). Caller must hold at least a read lock.
func (v *VertexEntry) Degree(t Timestamp) uint64 {
	for _, dv := range v.degrees {
		if dv.ts <= t {
			return dv.degree
		}
	}
	return 0
}

// UpdateDegree prepends a new (degree, ts) pair. Caller must hold the
// write lock.
func (v *VertexEntry) UpdateDegree(newDegree uint64, t Timestamp) {
	v.degrees = append([]degreeVersion{{degree: newDegree, ts: t}}, v.degrees...)
}

// CloneWithNeighbor returns a fresh VertexEntry sharing v's id and
// degree-chain history but owning neighbor instead of v's own Neighbor.
// Used by the COW vertex index to publish an updated neighbor without
// mutating the entry any other root might still be pointing at
// (spec.md §9 "neighbor ownership under COW").
func (v *VertexEntry) CloneWithNeighbor(neighbor any) *VertexEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return &VertexEntry{
		ID:       v.ID,
		degrees:  append([]degreeVersion(nil), v.degrees...),
		Neighbor: neighbor,
	}
}

// GC trims every degree-chain entry older than the newest element with
// ts < safeT (spec.md §4.3). Caller must hold the write lock.
func (v *VertexEntry) GC(safeT Timestamp) {
	if len(v.degrees) <= 1 {
		return
	}
	keepIdx := len(v.degrees)
	for i, dv := range v.degrees {
		if dv.ts < safeT {
			keepIdx = i
			break
		}
	}
	if keepIdx >= len(v.degrees) {
		return
	}
	v.degrees = v.degrees[:keepIdx+1]
}
