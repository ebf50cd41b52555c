// File: logblock.go
// Role: append-only edge log plus a Bloom filter guarding the backward
// scan for "does this destination already have a physical entry"
// (spec.md §4.2.4). Unlike the sorted variants, a single logical edge
// can accumulate several physical LogEntry records over time; the
// newest sits at the tail.
package edgeindex

import (
	bloomfilter "github.com/holiman/bloomfilter/v2"
	"github.com/katalvlaran/txgraph/core"

	"github.com/cespare/xxhash/v2"
)

// LogBlock is an append-only log of core.LogEntry records guarded by a
// Bloom filter keyed on xxhash(dest).
type LogBlock struct {
	cfg     Config
	entries []core.LogEntry
	filter  *bloomfilter.Filter
	logNum  uint64 // total entries ever appended, including superseded ones
}

var _ Index = (*LogBlock)(nil)

// NewLogBlock allocates an empty log with a 16-slot Bloom filter, the
// smallest size the resize schedule below recognizes.
func NewLogBlock(cfg Config) *LogBlock {
	l := &LogBlock{cfg: cfg}
	l.filter = newBloom(16)
	return l
}

func newBloom(m uint64) *bloomfilter.Filter {
	f, err := bloomfilter.New(m*8, 4)
	if err != nil {
		// bloomfilter.New only fails on a zero-sized filter; m is always
		// >= 16 here, so this is unreachable in practice.
		f, _ = bloomfilter.New(128, 4)
	}
	return f
}

func hashDest(d core.DestID) uint64 {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(d >> (8 * i))
	}
	return xxhash.Sum64(b[:])
}

// logResizeThreshold reports whether crossing from old to new logNum
// (old < new) passes a resize boundary: 2^(4k) for k>=1, active only
// once the count exceeds 16 (spec.md §9 Open Questions resolution).
func logResizeThreshold(old, new uint64) (uint64, bool) {
	for k := uint64(1); ; k++ {
		bound := uint64(1) << (4 * k)
		if bound <= 16 {
			continue
		}
		if old < bound && new >= bound {
			return bound, true
		}
		if bound > new {
			return 0, false
		}
	}
}

func (l *LogBlock) bumpFilter(d core.DestID) {
	old := l.logNum
	l.logNum++
	l.filter.AddHash(hashDest(d))
	if bound, ok := logResizeThreshold(old, l.logNum); ok {
		rebuilt := newBloom(bound)
		for i := range l.entries {
			rebuilt.AddHash(hashDest(l.entries[i].Dest))
		}
		l.filter = rebuilt
	}
}

// HasEdge scans backward from the tail, returning true on the first
// entry matching dest visible at t.
func (l *LogBlock) HasEdge(dest core.DestID, t core.Timestamp) bool {
	if !l.filter.ContainsHash(hashDest(dest)) {
		return false
	}
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := &l.entries[i]
		if e.Dest != dest {
			continue
		}
		if !l.cfg.EnableTimestamp {
			return true
		}
		if e.Window.CheckVersion(t) {
			return true
		}
	}
	return false
}

// InsertEdge implements Index per spec.md §4.2.4: if the filter may
// contain dest, scan backward for a still-open entry, close its window
// at t and append its successor at the tail (returning false);
// otherwise append a fresh entry.
func (l *LogBlock) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	if l.filter.ContainsHash(hashDest(dest)) {
		for i := len(l.entries) - 1; i >= 0; i-- {
			e := &l.entries[i]
			if e.Dest != dest {
				continue
			}
			if l.cfg.EnableTimestamp && e.Window.IsNewestAt(t) {
				if err := e.Window.UpdateVersion(t); err != nil {
					return false, err
				}
				l.entries = append(l.entries, core.NewLogEntry(dest, weight, t))
				l.bumpFilter(dest)
				return false, nil
			}
			if !l.cfg.EnableTimestamp {
				e.Weight = weight
				return false, nil
			}
			break // fall through: entry exists but is already closed; open a new one
		}
	}
	l.entries = append(l.entries, core.NewLogEntry(dest, weight, t))
	l.bumpFilter(dest)
	return true, nil
}

// InsertEdgeBatch implements Index.
func (l *LogBlock) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
	newCount := 0
	for _, d := range dests {
		inserted, err := l.InsertEdge(d, weight, t)
		if err != nil {
			return newCount, err
		}
		if inserted {
			newCount++
		}
	}
	return newCount, nil
}

// Edges implements Index, visiting entries from the tail back to the
// head (newest append first; Iterator is the one that yields append
// order) and filtering by visibility — only the newest visible physical
// entry per
// destination counts, since an older superseded entry for the same dest
// may still satisfy CheckVersion at an old t.
func (l *LogBlock) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	seen := make(map[core.DestID]struct{}, len(l.entries))
	n := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := &l.entries[i]
		if _, ok := seen[e.Dest]; ok {
			continue
		}
		visible := !l.cfg.EnableTimestamp || e.Window.CheckVersion(t)
		if !visible {
			continue
		}
		seen[e.Dest] = struct{}{}
		n++
		if !cb(e.Dest, e.Weight) {
			break
		}
	}
	return n
}

// Iterator implements Index in append order (LogBlock is the one
// variant that is not destination-ordered).
func (l *LogBlock) Iterator(t core.Timestamp) Iterator {
	dests := make([]core.DestID, 0, len(l.entries))
	weights := make([]float64, 0, len(l.entries))
	// Edges already dedupes to the newest visible entry per destination,
	// walking tail-to-head; reverse the result to restore append order.
	l.Edges(t, func(d core.DestID, w float64) bool {
		dests = append(dests, d)
		weights = append(weights, w)
		return true
	})
	for i, j := 0, len(dests)-1; i < j; i, j = i+1, j-1 {
		dests[i], dests[j] = dests[j], dests[i]
		weights[i], weights[j] = weights[j], weights[i]
	}
	return &sliceIterator{dests: dests, weights: weights}
}

// Intersect implements Index via the set-based fallback: LogBlock is
// not Ordered, so a merge-walk is unsound.
func (l *LogBlock) Intersect(other Index, t core.Timestamp) int {
	return setIntersect(l, other, t)
}

// InitBulk replaces the log with one fresh entry per deduplicated
// destination, appended in the order dests lists them (first occurrence
// wins); the input is not sorted.
func (l *LogBlock) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	seen := make(map[core.DestID]struct{}, len(dests))
	l.entries = l.entries[:0]
	l.logNum = 0
	l.filter = newBloom(16)
	for _, d := range dests {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		l.entries = append(l.entries, core.NewLogEntry(d, weight, t))
		l.bumpFilter(d)
	}
	return nil
}

// RemoveEdge is unsupported: the append-only log never implements
// deletion in the original source (spec.md §9 Open Questions).
func (l *LogBlock) RemoveEdge(core.DestID, core.Timestamp) error {
	return core.ErrFunctionNotImplemented
}

// Len reports the number of distinct live destinations.
func (l *LogBlock) Len() int {
	seen := make(map[core.DestID]struct{}, len(l.entries))
	for i := range l.entries {
		seen[l.entries[i].Dest] = struct{}{}
	}
	return len(seen)
}

// Ordered implements Index: LogBlock iterates in append order, not
// ascending destination.
func (l *LogBlock) Ordered() bool { return false }

// GC is a no-op: LogBlock entries carry their own begin/end window and
// are never chain-trimmed (spec.md §9 design notes).
func (l *LogBlock) GC(core.Timestamp) {}
