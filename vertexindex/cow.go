// File: cow.go
// Role: persistent ordered-map vertex index (spec.md §4.4, §9) — a
// copy-on-write alternative to Vector, keyed by explicit vertex id
// rather than auto-assigned ones. Grounded on
// _examples/original_source/container/vertex_index/avltree_cow.hpp's
// PAM-backed map (insert/update/multi_update_sorted_neo) and built on
// tidwall/btree.BTreeG, whose Copy() gives the same O(1) structural
// sharing PAM provides without a hand-rolled persistent AVL tree.
package vertexindex

import (
	"sort"
	"sync"

	"github.com/katalvlaran/txgraph/core"
	"github.com/tidwall/btree"
)

type vertexItem struct {
	id    core.DestID
	entry *core.VertexEntry
}

func vertexLess(a, b vertexItem) bool { return a.id < b.id }

// Cow is the persistent ordered-map vertex index. Every structural
// mutation replaces the root; Clone() shares the old root with the new
// copy until either is written to.
type Cow struct {
	mu   sync.Mutex // serializes root replacement (single-writer gate)
	tree *btree.BTreeG[vertexItem]
}

var _ Reader = (*Cow)(nil)

// NewCow allocates an empty persistent vertex index.
func NewCow() *Cow {
	return &Cow{tree: btree.NewBTreeG[vertexItem](vertexLess)}
}

// Clone returns a copy sharing its root with c until either copy's root
// is replaced. Used by container.Cow.Snapshot, which gives readers a
// stable view independent of subsequent writers; writers mutate the
// live index directly.
func (c *Cow) Clone() *Cow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Cow{tree: c.tree.Copy()}
}

// HasVertex implements Reader.
func (c *Cow) HasVertex(id core.DestID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tree.Get(vertexItem{id: id})
	return ok
}

// GetEntry implements Reader.
func (c *Cow) GetEntry(id core.DestID) (*core.VertexEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.tree.Get(vertexItem{id: id})
	if !ok {
		return nil, false
	}
	return item.entry, true
}

// GetNeighbor implements Reader.
func (c *Cow) GetNeighbor(id core.DestID) (any, bool) {
	e, ok := c.GetEntry(id)
	if !ok {
		return nil, false
	}
	return e.Neighbor, true
}

// Scan implements Reader, visiting vertices in ascending id order.
func (c *Cow) Scan(cb func(id core.DestID, entry *core.VertexEntry) bool) {
	c.mu.Lock()
	snapshot := c.tree.Copy()
	c.mu.Unlock()

	snapshot.Scan(func(item vertexItem) bool {
		return cb(item.id, item.entry)
	})
}

// VertexCount implements Reader.
func (c *Cow) VertexCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Len()
}

// GC implements Reader.
func (c *Cow) GC(safeT core.Timestamp) {
	c.mu.Lock()
	snapshot := c.tree.Copy()
	c.mu.Unlock()

	snapshot.Scan(func(item vertexItem) bool {
		item.entry.Lock()
		item.entry.GC(safeT)
		item.entry.Unlock()
		return true
	})
}

// InsertVertex registers a brand-new vertex at the caller-supplied id,
// replacing the root. Returns core.ErrVertexExists if id is already
// present (spec.md §4.5).
func (c *Cow) InsertVertex(id core.DestID, neighbor any, ts core.Timestamp) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tree.Get(vertexItem{id: id}); ok {
		return core.ErrVertexExists
	}
	c.tree.Set(vertexItem{id: id, entry: core.NewVertexEntry(id, ts, neighbor)})
	return nil
}

// MultiUpdateSorted applies fn to every id in sortedIDs (which must
// already be sorted ascending and deduplicated), replacing each
// matching vertex's entry with a fresh one carrying fn's returned
// neighbor and an updated degree reflecting edgesAdded new edges as of
// t. Missing ids are silently skipped. This is the functional
// batched-rewrite path spec.md §4.4 calls multi_update_sorted_neo, used
// by the container's insert_edge_batch under the COW policy (spec.md
// §4.5): one pass over the sorted key vector, one new entry — neighbor
// and degree published together — per key rather than a mutation of
// the old one, so the old entry stays intact for any reader still
// holding a prior root (spec.md §9 "neighbor ownership under COW").
func (c *Cow) MultiUpdateSorted(sortedIDs []core.DestID, t core.Timestamp, fn func(id core.DestID, neighbor any) (newNeighbor any, edgesAdded int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedIDs {
		item, ok := c.tree.Get(vertexItem{id: id})
		if !ok {
			continue
		}
		newNeighbor, added := fn(id, item.entry.Neighbor)
		newEntry := item.entry.CloneWithNeighbor(newNeighbor)
		if added > 0 {
			newEntry.UpdateDegree(newEntry.Degree(t)+uint64(added), t)
		}
		c.tree.Set(vertexItem{id: id, entry: newEntry})
	}
}

// SortDedupIDs is a small helper shared by callers that need to present
// a sorted, deduplicated key vector to MultiUpdateSorted.
func SortDedupIDs(ids []core.DestID) []core.DestID {
	sorted := append([]core.DestID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	dedup := sorted[:0]
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}
		dedup = append(dedup, id)
	}
	return dedup
}
