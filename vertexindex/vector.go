// File: vector.go
// Role: dense-array vertex index (spec.md §4.4) — id equals slice
// index, capacity grows by append, lookup is O(1). Grounded on
// _examples/original_source/container/vertex_index/vector.hpp:
// VectorVertexIndex's push_back + size++ id assignment, and on the
// teacher's dual-mutex idiom (core.VertexEntry's own RWMutex for
// per-vertex mutation, a separate table-wide lock here for structural
// growth).
package vertexindex

import (
	"sync"

	"github.com/katalvlaran/txgraph/core"
)

// Vector is the dense, auto-id vertex index. HasVertex's contract is
// "id < size" (spec.md §9 design notes): callers must present ids
// assigned by this index's own InsertVertex, never arbitrary ones.
type Vector struct {
	mu      sync.RWMutex // guards structural growth of entries (the table lock, IndexLock)
	entries []*core.VertexEntry
}

var _ Reader = (*Vector)(nil)

// NewVector allocates an empty dense vertex index.
func NewVector() *Vector {
	return &Vector{}
}

// Lock acquires the table lock; exclusive for structural changes
// (InsertVertex), shared for reads that need a consistent view of size
// (Scan, VertexCount). Vector has a single table lock; the txn layer
// refers to it by the distinguished core.IndexLock identifier.
func (v *Vector) Lock(exclusive bool) {
	if exclusive {
		v.mu.Lock()
	} else {
		v.mu.RLock()
	}
}

// Unlock releases the table lock acquired by Lock.
func (v *Vector) Unlock(exclusive bool) {
	if exclusive {
		v.mu.Unlock()
	} else {
		v.mu.RUnlock()
	}
}

// HasVertex implements Reader.
func (v *Vector) HasVertex(id core.DestID) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return id < core.DestID(len(v.entries))
}

// GetEntry implements Reader.
func (v *Vector) GetEntry(id core.DestID) (*core.VertexEntry, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if id >= core.DestID(len(v.entries)) {
		return nil, false
	}
	return v.entries[id], true
}

// GetNeighbor implements Reader.
func (v *Vector) GetNeighbor(id core.DestID) (any, bool) {
	e, ok := v.GetEntry(id)
	if !ok {
		return nil, false
	}
	return e.Neighbor, true
}

// Scan implements Reader, visiting vertices in ascending id order.
func (v *Vector) Scan(cb func(id core.DestID, entry *core.VertexEntry) bool) {
	v.mu.RLock()
	snapshot := make([]*core.VertexEntry, len(v.entries))
	copy(snapshot, v.entries)
	v.mu.RUnlock()

	for i, e := range snapshot {
		if !cb(core.DestID(i), e) {
			return
		}
	}
}

// VertexCount implements Reader.
func (v *Vector) VertexCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// GC implements Reader.
func (v *Vector) GC(safeT core.Timestamp) {
	v.mu.RLock()
	snapshot := make([]*core.VertexEntry, len(v.entries))
	copy(snapshot, v.entries)
	v.mu.RUnlock()

	for _, e := range snapshot {
		e.Lock()
		e.GC(safeT)
		e.Unlock()
	}
}

// InsertVertex appends a new vertex entry with an auto-assigned id
// (the current size) and returns it. The ts parameter seeds the new
// entry's degree-0 chain. InsertVertex never fails: growth is always
// legal, and there is no notion of a duplicate id since ids are
// assigned, never supplied.
func (v *Vector) InsertVertex(neighbor any, ts core.Timestamp) core.DestID {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := core.DestID(len(v.entries))
	v.entries = append(v.entries, core.NewVertexEntry(id, ts, neighbor))
	return id
}
