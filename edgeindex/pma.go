// File: pma.go
// Role: Packed Memory Array edge index — a density-balanced array that
// keeps gaps spread through a contiguous buffer so insertion stays
// near-sorted without a full shift on every write (spec.md §4.2.2).
package edgeindex

import (
	"math"
	"sort"

	"github.com/katalvlaran/txgraph/core"
)

// PMA is a Packed Memory Array over core.EdgeEntry. Capacity is
// segmentSize times the segment count; a resize doubles the count, and
// InitBulk sets it to len(input)/segmentSize+1. Each segment packs its
// live entries to the front and tracks its own size.
type PMA struct {
	cfg Config

	segmentSize uint64
	segments    [][]core.EdgeEntry // len(segments[i]) == capacity per segment; live entries occupy [0:sizes[i])
	sizes       []uint64
	count       uint64 // total live entries
}

var _ Index = (*PMA)(nil)

// NewPMA allocates a PMA with one segment of cfg.BlockSize capacity.
func NewPMA(cfg Config) *PMA {
	segSize := cfg.BlockSize
	if segSize == 0 {
		segSize = 64
	}
	p := &PMA{cfg: cfg, segmentSize: segSize}
	p.segments = [][]core.EdgeEntry{make([]core.EdgeEntry, segSize)}
	p.sizes = []uint64{0}
	return p
}

// capacity returns the PMA's total element capacity.
func (p *PMA) capacity() uint64 { return p.segmentSize * uint64(len(p.segments)) }

// levels returns floor(log2(number of segments)).
func (p *PMA) levels() uint64 {
	n := uint64(len(p.segments))
	l := uint64(0)
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// upperThresholdAt returns the density ceiling for a window spanning
// 2^level segments: 1 - 0.5*level/log2(capacity) (spec.md §4.2.2).
func (p *PMA) upperThresholdAt(level uint64) float64 {
	c := float64(p.capacity())
	lgC := math.Log2(c)
	if lgC == 0 {
		return 1
	}
	return 1 - 0.5*float64(level)/lgC
}

// segmentFor returns the index of the segment whose range contains dest,
// by binary-searching each segment's minimum live destination.
func (p *PMA) segmentFor(dest core.DestID) int {
	i := sort.Search(len(p.segments), func(i int) bool {
		if p.sizes[i] == 0 {
			// Empty segments sort as "contains everything beyond the
			// previous segment's max"; treat as a very large boundary so
			// search prefers the last non-empty segment before it.
			return true
		}
		return p.segments[i][p.sizes[i]-1].Dest >= dest
	})
	if i >= len(p.segments) {
		i = len(p.segments) - 1
	}
	return i
}

func (p *PMA) positionInSegment(seg int, dest core.DestID) (int, bool) {
	s := p.segments[seg][:p.sizes[seg]]
	i := sort.Search(len(s), func(i int) bool { return s[i].Dest >= dest })
	if i < len(s) && s[i].Dest == dest {
		return i, true
	}
	return i, false
}

// HasEdge implements Index.
func (p *PMA) HasEdge(dest core.DestID, t core.Timestamp) bool {
	seg := p.segmentFor(dest)
	pos, ok := p.positionInSegment(seg, dest)
	if !ok {
		return false
	}
	e := &p.segments[seg][pos]
	return !p.cfg.EnableTimestamp || e.Chain.CheckVersion(t)
}

// InsertEdge implements Index.
func (p *PMA) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	seg := p.segmentFor(dest)
	pos, ok := p.positionInSegment(seg, dest)
	if ok {
		e := &p.segments[seg][pos]
		if p.cfg.EnableTimestamp {
			if err := e.Chain.UpdateVersion(t); err != nil {
				return false, err
			}
		}
		e.Weight = weight
		return false, nil
	}

	if p.sizes[seg] < p.segmentSize {
		s := p.segments[seg]
		copy(s[pos+1:p.sizes[seg]+1], s[pos:p.sizes[seg]])
		s[pos] = core.NewEdgeEntry(dest, weight, t)
		p.sizes[seg]++
		p.count++
		return true, nil
	}

	// Segment full: widen the rebalance window until density fits, then
	// retry the insert against the rebalanced structure.
	p.growAndRebalance(seg)
	return p.InsertEdge(dest, weight, t)
}

// growAndRebalance doubles the rebalance window around seg until the
// window's density is under its level's threshold, redistributing all
// live entries evenly across the window's segments; if no window in the
// current capacity fits, it doubles capacity first (spec.md §4.2.2).
func (p *PMA) growAndRebalance(seg int) {
	for level := uint64(1); ; level++ {
		windowSegs := uint64(1) << level
		if windowSegs > uint64(len(p.segments)) {
			p.resize(p.capacity() * 2)
			level = 0
			continue
		}
		start := (uint64(seg) / windowSegs) * windowSegs
		end := start + windowSegs
		if end > uint64(len(p.segments)) {
			continue
		}
		var total uint64
		for i := start; i < end; i++ {
			total += p.sizes[i]
		}
		density := float64(total) / float64(windowSegs*p.segmentSize)
		if density < p.upperThresholdAt(level) {
			p.rebalanceWindow(start, end, total)
			return
		}
	}
}

// rebalanceWindow gathers every live entry in [start,end) and
// redistributes them evenly front-packed across the window's segments.
func (p *PMA) rebalanceWindow(start, end, total uint64) {
	live := make([]core.EdgeEntry, 0, total)
	for i := start; i < end; i++ {
		live = append(live, p.segments[i][:p.sizes[i]]...)
	}
	nSegs := end - start
	base := total / nSegs
	extra := total % nSegs
	idx := uint64(0)
	for i := start; i < end; i++ {
		want := base
		if i-start < extra {
			want++
		}
		seg := p.segments[i]
		for k := uint64(0); k < want; k++ {
			seg[k] = live[idx]
			idx++
		}
		p.sizes[i] = want
	}
}

// resize doubles total capacity by doubling the segment count, keeping
// segmentSize fixed, then rebalances everything evenly.
func (p *PMA) resize(newCapacity uint64) {
	newSegCount := newCapacity / p.segmentSize
	if newSegCount < 1 {
		newSegCount = 1
	}
	live := make([]core.EdgeEntry, 0, p.count)
	for i := range p.segments {
		live = append(live, p.segments[i][:p.sizes[i]]...)
	}
	p.segments = make([][]core.EdgeEntry, newSegCount)
	p.sizes = make([]uint64, newSegCount)
	for i := range p.segments {
		p.segments[i] = make([]core.EdgeEntry, p.segmentSize)
	}
	base := p.count / newSegCount
	extra := p.count % newSegCount
	idx := uint64(0)
	for i := uint64(0); i < newSegCount; i++ {
		want := base
		if i < extra {
			want++
		}
		for k := uint64(0); k < want; k++ {
			p.segments[i][k] = live[idx]
			idx++
		}
		p.sizes[i] = want
	}
}

// InsertEdgeBatch implements Index.
func (p *PMA) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
	newCount := 0
	for _, d := range dests {
		inserted, err := p.InsertEdge(d, weight, t)
		if err != nil {
			return newCount, err
		}
		if inserted {
			newCount++
		}
	}
	return newCount, nil
}

// Edges implements Index, scanning segment by segment, front to back.
func (p *PMA) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	n := 0
	for i := range p.segments {
		for k := uint64(0); k < p.sizes[i]; k++ {
			e := &p.segments[i][k]
			if p.cfg.EnableTimestamp && !e.Chain.CheckVersion(t) {
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
func (p *PMA) Iterator(t core.Timestamp) Iterator {
	dests := make([]core.DestID, 0, p.count)
	weights := make([]float64, 0, p.count)
	p.Edges(t, func(d core.DestID, w float64) bool {
		dests = append(dests, d)
		weights = append(weights, w)
		return true
	})
	return &sliceIterator{dests: dests, weights: weights}
}

// Intersect implements Index using two iterators (spec.md §4.2.2).
func (p *PMA) Intersect(other Index, t core.Timestamp) int {
	return mergeIntersect(p.Iterator(t), other.Iterator(t))
}

// InitBulk replaces the PMA's contents, evenly distributing the sorted,
// deduplicated input across a freshly sized set of segments.
func (p *PMA) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	sorted := append([]core.DestID(nil), dests...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	dedup := sorted[:0]
	for i, d := range sorted {
		if i > 0 && sorted[i-1] == d {
			continue
		}
		dedup = append(dedup, d)
	}

	segCount := uint64(len(dedup))/p.segmentSize + 1
	p.segments = make([][]core.EdgeEntry, segCount)
	p.sizes = make([]uint64, segCount)
	for i := range p.segments {
		p.segments[i] = make([]core.EdgeEntry, p.segmentSize)
	}
	p.count = uint64(len(dedup))
	base := p.count / segCount
	extra := p.count % segCount
	idx := 0
	for i := uint64(0); i < segCount; i++ {
		want := base
		if i < extra {
			want++
		}
		for k := uint64(0); k < want; k++ {
			p.segments[i][k] = core.NewEdgeEntry(dedup[idx], weight, t)
			idx++
		}
		p.sizes[i] = want
	}
	return nil
}

// RemoveEdge shift-deletes the entry for dest within its segment.
func (p *PMA) RemoveEdge(dest core.DestID, _ core.Timestamp) error {
	seg := p.segmentFor(dest)
	pos, ok := p.positionInSegment(seg, dest)
	if !ok {
		return nil
	}
	s := p.segments[seg]
	copy(s[pos:p.sizes[seg]-1], s[pos+1:p.sizes[seg]])
	p.sizes[seg]--
	p.count--
	return nil
}

// Len implements Index.
func (p *PMA) Len() int { return int(p.count) }

// Ordered implements Index.
func (p *PMA) Ordered() bool { return true }

// GC trims every live entry's version chain.
func (p *PMA) GC(safeT core.Timestamp) {
	if !p.cfg.EnableTimestamp {
		return
	}
	for i := range p.segments {
		for k := uint64(0); k < p.sizes[i]; k++ {
			p.segments[i][k].Chain.GC(safeT)
		}
	}
}
