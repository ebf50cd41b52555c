package edgeindex

import (
	"errors"

	"github.com/katalvlaran/txgraph/core"
)

// ErrNotOrdered names the condition of an index whose iteration order is
// not ascending by destination (currently only LogBlock). The generic
// Intersect does not return it: it falls back to a set-based count for
// such an index instead.
var ErrNotOrdered = errors.New("edgeindex: index does not provide ordered iteration")

// Config configures the structural parameters of an edge-index variant.
// It mirrors the build-time flags of spec.md §9: ENABLE_TIMESTAMP,
// ENABLE_ADAPTIVE plus the numeric knobs (block_size, default_vector_size)
// of spec.md §6's configuration record. Config is read at construction
// time only; the fields are immutable afterward.
type Config struct {
	// EnableTimestamp gates MVCC visibility checks. With it false, every
	// entry is always visible and version chains are never grown beyond
	// their initial element.
	EnableTimestamp bool

	// BlockSize is the skip-list block capacity B and the PMA segment
	// size, and doubles as the PAM variant's header modulus B.
	BlockSize uint64

	// DefaultVectorSize seeds the initial capacity of Sorted Array and
	// the adaptive wrapper's flat pre-promotion buffer.
	DefaultVectorSize uint64

	// AdaptiveThreshold is the neighbor-list length above which Adaptive
	// promotes from a flat sequence to the wrapped variant (spec.md §3).
	AdaptiveThreshold int
}

// DefaultConfig returns the configuration used when a caller does not
// specify one explicitly.
func DefaultConfig() Config {
	return Config{
		EnableTimestamp:   true,
		BlockSize:         1024,
		DefaultVectorSize: 16,
		AdaptiveThreshold: 32,
	}
}

// Iterator yields an edge index's visible entries in the variant's
// native order (ascending destination for every variant but LogBlock,
// append order for LogBlock).
type Iterator interface {
	// Next advances to the next visible entry. ok is false once
	// exhausted.
	Next() (dest core.DestID, weight float64, ok bool)
}

// Index is the capability every edge-index variant satisfies (spec.md
// §4.2). All methods are safe to call concurrently with each other only
// to the extent documented by the concrete variant; callers needing
// cross-call atomicity hold the owning VertexEntry's lock (2PL) or rely
// on the COW manager's single-writer gate.
type Index interface {
	// HasEdge reports whether dest is visible at t.
	HasEdge(dest core.DestID, t core.Timestamp) bool

	// InsertEdge inserts or revises the edge to dest, returning true iff
	// this created a brand-new logical edge (false means an existing
	// edge's version was updated instead — spec.md's "EdgeExists" case).
	InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (insertedNew bool, err error)

	// InsertEdgeBatch inserts many destinations at once, returning the
	// count of genuinely new logical edges.
	InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (newCount int, err error)

	// Edges iterates visible neighbors, invoking cb(dest, weight) for
	// each; iteration stops early if cb returns false. It returns the
	// number of neighbors visited.
	Edges(t core.Timestamp, cb func(dest core.DestID, weight float64) bool) int

	// Intersect counts the destinations visible at t in both this index
	// and other.
	Intersect(other Index, t core.Timestamp) int

	// Iterator returns a fresh, independent cursor over entries visible
	// at t.
	Iterator(t core.Timestamp) Iterator

	// InitBulk replaces the index's contents with dests (bulk-loaded,
	// deduplicated, visible from t onward) — used for the initial graph
	// load, bypassing per-edge insert overhead.
	InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error

	// RemoveEdge deletes the edge to dest if present. Variants that
	// cannot support deletion return ErrFunctionNotImplemented
	// (spec.md §9 Open Questions; see SPEC_FULL.md).
	RemoveEdge(dest core.DestID, t core.Timestamp) error

	// Len reports the number of logical (ever-inserted, not
	// point-in-time-visible) entries; used by GC and diagnostics.
	Len() int

	// Ordered reports whether Edges/Iterator produce ascending
	// destination order. Only LogBlock returns false.
	Ordered() bool

	// GC trims every entry's version history, keeping the versions at or
	// above safeT plus the newest version preceding safeT (spec.md §4.1,
	// §4.5 gc_all).
	GC(safeT core.Timestamp)
}

// Intersect is the generic fallback used by variants (and by callers
// crossing two different variants) that counts |A ∩ B| visible at t. It
// merge-walks when both sides are Ordered, and otherwise builds a set
// from the smaller side and probes it with the larger — the same
// small-into-large shape the PAM variant's map_union uses (spec.md
// §4.2.5).
func Intersect(a, b Index, t core.Timestamp) int {
	if a.Ordered() && b.Ordered() {
		return mergeIntersect(a.Iterator(t), b.Iterator(t))
	}
	return setIntersect(a, b, t)
}

// mergeIntersect counts matches between two ascending iterators.
func mergeIntersect(ai, bi Iterator) int {
	ad, aw, aok := ai.Next()
	bd, bw, bok := bi.Next()
	_ = aw
	_ = bw
	count := 0
	for aok && bok {
		switch {
		case ad == bd:
			count++
			ad, aw, aok = ai.Next()
			bd, bw, bok = bi.Next()
		case ad < bd:
			ad, aw, aok = ai.Next()
		default:
			bd, bw, bok = bi.Next()
		}
	}
	return count
}

// setIntersect builds a destination set from the smaller index and
// probes it with the larger, visiting each entry of the larger exactly
// once.
func setIntersect(a, b Index, t core.Timestamp) int {
	small, large := a, b
	if small.Len() > large.Len() {
		small, large = large, small
	}
	set := make(map[core.DestID]struct{}, small.Len())
	small.Edges(t, func(d core.DestID, _ float64) bool {
		set[d] = struct{}{}
		return true
	})
	count := 0
	large.Edges(t, func(d core.DestID, _ float64) bool {
		if _, ok := set[d]; ok {
			count++
		}
		return true
	})
	return count
}

// sliceIterator is a simple Iterator over a pre-filtered, ordered slice
// of (dest, weight) pairs; used by variants whose Iterator is cheapest
// to build as a materialized snapshot (Sorted Array, PAM).
type sliceIterator struct {
	dests   []core.DestID
	weights []float64
	pos     int
}

func (it *sliceIterator) Next() (core.DestID, float64, bool) {
	if it.pos >= len(it.dests) {
		return 0, 0, false
	}
	d, w := it.dests[it.pos], it.weights[it.pos]
	it.pos++
	return d, w, true
}
