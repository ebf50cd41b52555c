// File: pam.go
// Role: PAM-style copy-on-write ordered map edge index (spec.md §3,
// §4.2.5) — the distinguishing variant. Destinations are grouped into
// "blocks"; a destination whose hash is a multiple of B is a "header"
// and opens a new block keyed by the header's own value plus one, and a
// sorted header list records them. The block map is backed
// by a tidwall/btree.BTreeG, whose Copy() gives the O(1) structural
// sharing spec.md §3 requires ("old roots remain live while any
// snapshot shares them") without hand-rolling a persistent AVL tree.
package edgeindex

import (
	"sort"

	"github.com/katalvlaran/txgraph/core"
	"github.com/tidwall/btree"
)

// PreVecKey is the distinguished block key holding every destination
// strictly smaller than every header (spec.md §3).
const PreVecKey uint64 = 0

// blockItem is one entry of the PAM block map: a block key and its
// sorted-by-destination entry vector.
type blockItem struct {
	key uint64
	vec []core.EdgeEntry
}

func blockLess(a, b blockItem) bool { return a.key < b.key }

// PAM is the PAM-style COW ordered map edge index.
type PAM struct {
	cfg     Config
	b       uint64 // header modulus B
	tree    *btree.BTreeG[blockItem]
	headers []core.DestID // sorted ascending
	count   int
}

var _ Index = (*PAM)(nil)

// NewPAM allocates an empty PAM index with header modulus cfg.BlockSize.
func NewPAM(cfg Config) *PAM {
	b := cfg.BlockSize
	if b == 0 {
		b = 64
	}
	return &PAM{
		cfg:  cfg,
		b:    b,
		tree: btree.NewBTreeG[blockItem](blockLess),
	}
}

// Clone returns a cheap copy-on-write duplicate: the block tree is
// shared via btree.Copy() until either copy mutates it, and the header
// slice (small relative to the block map) is duplicated outright. This
// is what the COW vertex index's functional update path calls before
// rewriting a vertex's neighbor value (spec.md §9 "neighbor ownership
// under COW").
func (p *PAM) Clone() *PAM {
	return &PAM{
		cfg:     p.cfg,
		b:       p.b,
		tree:    p.tree.Copy(),
		headers: append([]core.DestID(nil), p.headers...),
		count:   p.count,
	}
}

func (p *PAM) isHeader(d core.DestID) bool { return hashDest(d)%p.b == 0 }

// blockKeyOf maps a header destination to the tree key of the block it
// opens. This must be monotonic in d (not hash-derived) so that
// ascending key order in p.tree agrees with ascending destination order
// — Edges, Iterator, and Intersect all depend on that agreement. d+1
// both preserves order and keeps every real block key away from
// PreVecKey (0).
func (p *PAM) blockKeyOf(d core.DestID) uint64 {
	return d + 1
}

// headerFloor returns the largest recorded header <= d, and whether one
// exists (false means d belongs to the PreVecKey block).
func (p *PAM) headerFloor(d core.DestID) (core.DestID, bool) {
	i := sort.Search(len(p.headers), func(i int) bool { return p.headers[i] > d })
	if i == 0 {
		return 0, false
	}
	return p.headers[i-1], true
}

// locateBlockKey returns the block key that currently owns d, given the
// present header set.
func (p *PAM) locateBlockKey(d core.DestID) uint64 {
	h, ok := p.headerFloor(d)
	if !ok {
		return PreVecKey
	}
	return p.blockKeyOf(h)
}

func vecSearch(vec []core.EdgeEntry, d core.DestID) (int, bool) {
	i := sort.Search(len(vec), func(i int) bool { return vec[i].Dest >= d })
	if i < len(vec) && vec[i].Dest == d {
		return i, true
	}
	return i, false
}

func vecInsert(vec []core.EdgeEntry, pos int, e core.EdgeEntry) []core.EdgeEntry {
	vec = append(vec, core.EdgeEntry{})
	copy(vec[pos+1:], vec[pos:len(vec)-1])
	vec[pos] = e
	return vec
}

// insertHeader registers d as a new header, splitting the block that
// currently owns d's range so every destination >= d moves into a fresh
// block keyed blockKeyOf(d) (spec.md §4.2.5 steps 2-3).
func (p *PAM) insertHeader(d core.DestID) {
	i := sort.Search(len(p.headers), func(i int) bool { return p.headers[i] >= d })
	if i < len(p.headers) && p.headers[i] == d {
		return // already a header
	}
	p.headers = append(p.headers, 0)
	copy(p.headers[i+1:], p.headers[i:len(p.headers)-1])
	p.headers[i] = d

	oldKey := p.locateBlockKeyExcluding(d)
	newKey := p.blockKeyOf(d)
	if oldKey == newKey {
		return // d's own block key coincides with the block it was splitting from
	}
	old, found := p.tree.Get(blockItem{key: oldKey})
	if !found {
		p.tree.Set(blockItem{key: newKey, vec: nil})
		return
	}
	pos, _ := vecSearch(old.vec, d)
	moved := append([]core.EdgeEntry(nil), old.vec[pos:]...)
	old.vec = old.vec[:pos:pos]
	p.tree.Set(old)

	existing, hasExisting := p.tree.Get(blockItem{key: newKey})
	if hasExisting {
		existing.vec = mergeSortedEntries(existing.vec, moved)
		p.tree.Set(existing)
	} else {
		p.tree.Set(blockItem{key: newKey, vec: moved})
	}
}

// locateBlockKeyExcluding mirrors locateBlockKey but is used while d is
// being registered as a header: it finds the block d would have
// belonged to under the *previous* header set (the caller has already
// inserted d into p.headers, so this walks back to the predecessor).
func (p *PAM) locateBlockKeyExcluding(d core.DestID) uint64 {
	i := sort.Search(len(p.headers), func(i int) bool { return p.headers[i] >= d })
	// p.headers[i] == d (just inserted); the owning predecessor is i-1.
	if i == 0 {
		return PreVecKey
	}
	return p.blockKeyOf(p.headers[i-1])
}

func mergeSortedEntries(a, b []core.EdgeEntry) []core.EdgeEntry {
	out := make([]core.EdgeEntry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Dest <= b[j].Dest {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// HasEdge implements Index.
func (p *PAM) HasEdge(dest core.DestID, t core.Timestamp) bool {
	key := p.locateBlockKey(dest)
	blk, ok := p.tree.Get(blockItem{key: key})
	if !ok {
		return false
	}
	pos, found := vecSearch(blk.vec, dest)
	if !found {
		return false
	}
	return !p.cfg.EnableTimestamp || blk.vec[pos].Chain.CheckVersion(t)
}

// InsertEdge implements Index per spec.md §4.2.5.
func (p *PAM) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	if p.isHeader(dest) {
		p.insertHeader(dest)
	}
	key := p.locateBlockKey(dest)
	blk, ok := p.tree.Get(blockItem{key: key})
	if !ok {
		blk = blockItem{key: key}
	}
	blk.vec = append([]core.EdgeEntry(nil), blk.vec...) // a Clone may share this block's backing array
	pos, found := vecSearch(blk.vec, dest)
	if found {
		e := &blk.vec[pos]
		if p.cfg.EnableTimestamp {
			if err := e.Chain.UpdateVersion(t); err != nil {
				return false, err
			}
		}
		e.Weight = weight
		p.tree.Set(blk)
		return false, nil
	}
	blk.vec = vecInsert(blk.vec, pos, core.NewEdgeEntry(dest, weight, t))
	p.tree.Set(blk)
	p.count++
	return true, nil
}

// InsertEdgeBatch implements Index per spec.md §4.2.5: new headers are
// registered first (splitting their owning blocks), then the remaining
// destinations are grouped by the now-final block key and merged into
// each block in one sorted pass — the small-into-large shape of the
// original's map_union, without materializing a second tree.
func (p *PAM) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
	sorted := append([]core.DestID(nil), dests...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, d := range sorted {
		if p.isHeader(d) {
			p.insertHeader(d)
		}
	}

	groups := make(map[uint64][]core.DestID)
	for i, d := range sorted {
		if i > 0 && sorted[i-1] == d {
			continue
		}
		key := p.locateBlockKey(d)
		groups[key] = append(groups[key], d)
	}

	newCount := 0
	for key, ds := range groups {
		blk, ok := p.tree.Get(blockItem{key: key})
		if !ok {
			blk = blockItem{key: key}
		}
		blk.vec = append([]core.EdgeEntry(nil), blk.vec...) // a Clone may share this block's backing array
		for _, d := range ds {
			pos, found := vecSearch(blk.vec, d)
			if found {
				e := &blk.vec[pos]
				if p.cfg.EnableTimestamp {
					if err := e.Chain.UpdateVersion(t); err != nil {
						return newCount, err
					}
				}
				e.Weight = weight
				continue
			}
			blk.vec = vecInsert(blk.vec, pos, core.NewEdgeEntry(d, weight, t))
			newCount++
			p.count++
		}
		p.tree.Set(blk)
	}
	return newCount, nil
}

// Edges implements Index, walking the block tree in ascending key order
// (PreVecKey first) and each block's vector ascending — together an
// ascending destination order, since blockKeyOf is monotonic in the
// header destination value, so ascending key order agrees with
// ascending destination order (spec.md §3 invariant).
func (p *PAM) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	n := 0
	stop := false
	p.tree.Scan(func(item blockItem) bool {
		for i := range item.vec {
			e := &item.vec[i]
			if p.cfg.EnableTimestamp && !e.Chain.CheckVersion(t) {
				continue
			}
			n++
			if !cb(e.Dest, e.Weight) {
				stop = true
				return false
			}
		}
		return !stop
	})
	return n
}

// Iterator implements Index.
func (p *PAM) Iterator(t core.Timestamp) Iterator {
	dests := make([]core.DestID, 0, p.count)
	weights := make([]float64, 0, p.count)
	p.Edges(t, func(d core.DestID, w float64) bool {
		dests = append(dests, d)
		weights = append(weights, w)
		return true
	})
	return &sliceIterator{dests: dests, weights: weights}
}

// Intersect merge-walks the leaf sequences of both trees (including
// their PreVecKey blocks) via Iterator, which relies on Edges visiting
// destinations in ascending order — addressing the defect noted in
// spec.md §9 where the original stubs COW intersect to 0.
func (p *PAM) Intersect(other Index, t core.Timestamp) int {
	if o, ok := other.(*PAM); ok {
		return mergeIntersect(p.Iterator(t), o.Iterator(t))
	}
	return Intersect(p, other, t)
}

// InitBulk replaces the index's contents: every hash-qualifying
// destination in the input becomes a header, and the remainder are
// grouped into their owning blocks in one pass.
func (p *PAM) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	p.tree = btree.NewBTreeG[blockItem](blockLess)
	p.headers = nil
	p.count = 0
	_, err := p.InsertEdgeBatch(dests, weight, t)
	return err
}

// RemoveEdge is unsupported: the persistent block map has no natural
// single-key delete in the original (spec.md §9 Open Questions).
func (p *PAM) RemoveEdge(core.DestID, core.Timestamp) error {
	return core.ErrFunctionNotImplemented
}

// Len implements Index.
func (p *PAM) Len() int { return p.count }

// Ordered implements Index: block-ascending (by the monotonic
// blockKeyOf) then vec-ascending is a total ascending destination order.
func (p *PAM) Ordered() bool { return true }

// GC trims every live entry's version chain across every block.
func (p *PAM) GC(safeT core.Timestamp) {
	if !p.cfg.EnableTimestamp {
		return
	}
	p.tree.Scan(func(item blockItem) bool {
		for i := range item.vec {
			item.vec[i].Chain.GC(safeT)
		}
		return true
	})
}
