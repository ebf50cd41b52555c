// File: skiplist.go
// Role: skip list of fixed-capacity edge blocks (spec.md §4.2.3). Each
// node owns a sorted block of up to BlockSize entries; forward pointers
// at randomized levels (p=0.5, cap 6) skip over whole blocks instead of
// single entries, so a walk from the top level touches O(log(#blocks))
// nodes before falling into its target block.
package edgeindex

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/txgraph/core"
)

const skipMaxLevel = 6
const skipP = 0.5

// skipNode owns one sorted block of entries plus per-level forward
// pointers and a level-0 back pointer.
type skipNode struct {
	block   []core.EdgeEntry // capacity fixed at cap(block); live prefix is block[:size]
	size    int
	forward []*skipNode // len == level of this node
	before  *skipNode   // level-0 predecessor
}

func (n *skipNode) max() core.DestID { return n.block[n.size-1].Dest }
func (n *skipNode) min() core.DestID { return n.block[0].Dest }

// SkipList is a skip list of edge blocks.
type SkipList struct {
	cfg      Config
	blockCap int
	head     *skipNode // sentinel; head.block is unused, head.forward has skipMaxLevel entries
	rnd      *rand.Rand
	count    int
}

var _ Index = (*SkipList)(nil)

// NewSkipList allocates an empty skip list with block capacity
// cfg.BlockSize (rounded up to a power of two, minimum 2).
func NewSkipList(cfg Config) *SkipList {
	cap := nextPow2(cfg.BlockSize)
	if cap < 2 {
		cap = 2
	}
	return &SkipList{
		cfg:      cfg,
		blockCap: int(cap),
		head:     &skipNode{forward: make([]*skipNode, skipMaxLevel)},
		rnd:      rand.New(rand.NewSource(1)),
	}
}

func nextPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

func (s *SkipList) randomLevel() int {
	lvl := 1
	for lvl < skipMaxLevel && s.rnd.Float64() < skipP {
		lvl++
	}
	return lvl
}

func (s *SkipList) newNode(level int) *skipNode {
	return &skipNode{
		block:   make([]core.EdgeEntry, s.blockCap),
		forward: make([]*skipNode, level),
	}
}

// findBlock walks from the highest level down, stopping at the last
// node whose max is < dest at each level, and returns (updates, target)
// where updates[l] is the last node visited at level l before dropping
// down, and target is the first node whose max >= dest (nil if dest
// falls beyond every existing block).
func (s *SkipList) findBlock(dest core.DestID) (updates [skipMaxLevel]*skipNode, target *skipNode) {
	cur := s.head
	for l := skipMaxLevel - 1; l >= 0; l-- {
		for cur.levelForward(l) != nil && cur.levelForward(l).max() < dest {
			cur = cur.levelForward(l)
		}
		updates[l] = cur
	}
	return updates, cur.levelForward(0)
}

// levelForward returns n.forward[l], or nil if n has no such level
// (the sentinel head always has skipMaxLevel levels).
func (n *skipNode) levelForward(l int) *skipNode {
	if l >= len(n.forward) {
		return nil
	}
	return n.forward[l]
}

// linkAfter threads a newly built node into the list immediately after
// the positions recorded in updates, up to level-1.
func (s *SkipList) linkAfter(updates [skipMaxLevel]*skipNode, node *skipNode) {
	level := len(node.forward)
	for l := 0; l < level; l++ {
		pred := updates[l]
		if pred == nil {
			continue
		}
		if l < len(pred.forward) {
			node.forward[l] = pred.forward[l]
			pred.forward[l] = node
		}
	}
	node.before = updates[0]
	if node.forward[0] != nil {
		node.forward[0].before = node
	}
}

func (s *SkipList) positionInBlock(n *skipNode, dest core.DestID) (int, bool) {
	blk := n.block[:n.size]
	i := sort.Search(len(blk), func(i int) bool { return blk[i].Dest >= dest })
	if i < len(blk) && blk[i].Dest == dest {
		return i, true
	}
	return i, false
}

// HasEdge implements Index.
func (s *SkipList) HasEdge(dest core.DestID, t core.Timestamp) bool {
	_, target := s.findBlock(dest)
	if target == nil {
		return false
	}
	pos, ok := s.positionInBlock(target, dest)
	if !ok {
		return false
	}
	return !s.cfg.EnableTimestamp || target.block[pos].Chain.CheckVersion(t)
}

// InsertEdge implements Index.
func (s *SkipList) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	updates, target := s.findBlock(dest)
	if target == nil {
		// No block reaches this far right: append a brand-new tail block.
		level := s.randomLevel()
		node := s.newNode(level)
		node.block[0] = core.NewEdgeEntry(dest, weight, t)
		node.size = 1
		s.linkAfter(updates, node)
		s.count++
		return true, nil
	}

	pos, ok := s.positionInBlock(target, dest)
	if ok {
		e := &target.block[pos]
		if s.cfg.EnableTimestamp {
			if err := e.Chain.UpdateVersion(t); err != nil {
				return false, err
			}
		}
		e.Weight = weight
		return false, nil
	}

	if target.size < s.blockCap {
		copy(target.block[pos+1:target.size+1], target.block[pos:target.size])
		target.block[pos] = core.NewEdgeEntry(dest, weight, t)
		target.size++
		s.count++
		return true, nil
	}

	// Block full: split it in half, re-thread, and retry the insert.
	s.splitBlock(updates, target)
	return s.InsertEdge(dest, weight, t)
}

// splitBlock moves the upper half of target's live entries into a new
// node immediately following it, re-threading level 0 and, with
// probability per randomLevel, the higher levels too.
func (s *SkipList) splitBlock(updates [skipMaxLevel]*skipNode, target *skipNode) {
	mid := target.size / 2
	level := s.randomLevel()
	newNode := s.newNode(level)
	upperCount := target.size - mid
	copy(newNode.block[:upperCount], target.block[mid:target.size])
	newNode.size = upperCount
	target.size = mid

	// Re-thread level 0 immediately.
	newNode.forward[0] = target.forward[0]
	target.forward[0] = newNode
	newNode.before = target
	if newNode.forward[0] != nil {
		newNode.forward[0].before = newNode
	}

	// Thread higher levels using the update chain captured by the
	// findBlock call that located target, sampled up to the new node's
	// level.
	for l := 1; l < level; l++ {
		pred := updates[l]
		if pred == nil {
			continue
		}
		if l < len(pred.forward) {
			newNode.forward[l] = pred.forward[l]
			pred.forward[l] = newNode
		}
	}
}

// InsertEdgeBatch implements Index.
func (s *SkipList) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
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

// Edges implements Index, walking the level-0 chain block by block.
func (s *SkipList) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	n := 0
	for node := s.head.forward[0]; node != nil; node = node.forward[0] {
		for i := 0; i < node.size; i++ {
			e := &node.block[i]
			if s.cfg.EnableTimestamp && !e.Chain.CheckVersion(t) {
				continue
			}
			n++
			if !cb(e.Dest, e.Weight) {
				return n
			}
		}
	}
	return n
}

// Iterator implements Index.
func (s *SkipList) Iterator(t core.Timestamp) Iterator {
	dests := make([]core.DestID, 0, s.count)
	weights := make([]float64, 0, s.count)
	s.Edges(t, func(d core.DestID, w float64) bool {
		dests = append(dests, d)
		weights = append(weights, w)
		return true
	})
	return &sliceIterator{dests: dests, weights: weights}
}

// Intersect implements Index.
func (s *SkipList) Intersect(other Index, t core.Timestamp) int {
	return mergeIntersect(s.Iterator(t), other.Iterator(t))
}

// InitBulk replaces the list's contents, packing sorted/deduplicated
// input into fixed-capacity blocks and threading random levels over
// them in one left-to-right pass.
func (s *SkipList) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	sorted := append([]core.DestID(nil), dests...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	dedup := sorted[:0]
	for i, d := range sorted {
		if i > 0 && sorted[i-1] == d {
			continue
		}
		dedup = append(dedup, d)
	}

	s.head = &skipNode{forward: make([]*skipNode, skipMaxLevel)}
	s.count = 0

	var updates [skipMaxLevel]*skipNode
	for l := range updates {
		updates[l] = s.head
	}
	for i := 0; i < len(dedup); i += s.blockCap {
		end := i + s.blockCap
		if end > len(dedup) {
			end = len(dedup)
		}
		level := s.randomLevel()
		node := s.newNode(level)
		for k := i; k < end; k++ {
			node.block[k-i] = core.NewEdgeEntry(dedup[k], weight, t)
		}
		node.size = end - i
		s.linkAfter(updates, node)
		for l := 0; l < level; l++ {
			updates[l] = node
		}
		s.count += node.size
	}
	return nil
}

// RemoveEdge shift-deletes dest from its block if present.
func (s *SkipList) RemoveEdge(dest core.DestID, _ core.Timestamp) error {
	_, target := s.findBlock(dest)
	if target == nil {
		return nil
	}
	pos, ok := s.positionInBlock(target, dest)
	if !ok {
		return nil
	}
	copy(target.block[pos:target.size-1], target.block[pos+1:target.size])
	target.size--
	s.count--
	return nil
}

// Len implements Index.
func (s *SkipList) Len() int { return s.count }

// Ordered implements Index.
func (s *SkipList) Ordered() bool { return true }

// GC trims every live entry's version chain.
func (s *SkipList) GC(safeT core.Timestamp) {
	if !s.cfg.EnableTimestamp {
		return
	}
	for node := s.head.forward[0]; node != nil; node = node.forward[0] {
		for i := 0; i < node.size; i++ {
			node.block[i].Chain.GC(safeT)
		}
	}
}
