// File: adaptive.go
// Role: ENABLE_ADAPTIVE neighbor-list policy (spec.md §3): a small
// neighbor list starts as a flat ordered sequence and promotes to a
// configured Index variant once its length exceeds a threshold. Below
// the threshold every operation runs against the same SortedArray
// machinery the Sorted Array variant uses, so there is no duplicated
// flat-array logic to keep in sync.
package edgeindex

import "github.com/katalvlaran/txgraph/core"

// Variant names the edge-index kind an Adaptive neighbor promotes into.
type Variant int

const (
	VariantSortedArray Variant = iota
	VariantPMA
	VariantSkipList
	VariantPAM
	VariantLogBlock
)

// NewVariant constructs a fresh, empty Index of the given kind.
func NewVariant(v Variant, cfg Config) Index {
	switch v {
	case VariantPMA:
		return NewPMA(cfg)
	case VariantSkipList:
		return NewSkipList(cfg)
	case VariantPAM:
		return NewPAM(cfg)
	case VariantLogBlock:
		return NewLogBlock(cfg)
	default:
		return NewSortedArray(cfg)
	}
}

// Adaptive wraps a flat SortedArray until its length exceeds
// cfg.AdaptiveThreshold, then promotes once to the configured Variant
// and delegates every subsequent call to it.
type Adaptive struct {
	cfg      Config
	variant  Variant
	flat     *SortedArray
	promoted Index
}

var _ Index = (*Adaptive)(nil)

// NewAdaptive constructs an Adaptive neighbor container targeting
// variant once promoted.
func NewAdaptive(variant Variant, cfg Config) *Adaptive {
	return &Adaptive{cfg: cfg, variant: variant, flat: NewSortedArray(cfg)}
}

func (a *Adaptive) active() Index {
	if a.promoted != nil {
		return a.promoted
	}
	return a.flat
}

func (a *Adaptive) maybePromote() {
	if a.promoted != nil || a.flat.Len() <= a.cfg.AdaptiveThreshold {
		return
	}
	target := NewVariant(a.variant, a.cfg)
	loadFullEntries(target, a.flat.entries)
	a.promoted = target
	a.flat = nil
}

// loadFullEntries transplants complete EdgeEntry records (including
// their version chains) into dst, preserving MVCC history across the
// promotion instead of collapsing every edge to a single fresh version
// the way InitBulk does.
func loadFullEntries(dst Index, entries []core.EdgeEntry) {
	switch d := dst.(type) {
	case *SortedArray:
		d.entries = append([]core.EdgeEntry(nil), entries...)
	case *PMA:
		for _, e := range entries {
			_, _ = d.InsertEdge(e.Dest, e.Weight, 0)
		}
		// Re-seat full chains now that positions are stable.
		for _, e := range entries {
			seg := d.segmentFor(e.Dest)
			if pos, ok := d.positionInSegment(seg, e.Dest); ok {
				d.segments[seg][pos].Chain = e.Chain
			}
		}
	case *SkipList:
		for _, e := range entries {
			_, _ = d.InsertEdge(e.Dest, e.Weight, 0)
		}
		for _, e := range entries {
			_, target := d.findBlock(e.Dest)
			if target != nil {
				if pos, ok := d.positionInBlock(target, e.Dest); ok {
					target.block[pos].Chain = e.Chain
				}
			}
		}
	case *PAM:
		for _, e := range entries {
			_, _ = d.InsertEdge(e.Dest, e.Weight, 0)
		}
		d.tree.Scan(func(item blockItem) bool {
			for i := range item.vec {
				for _, e := range entries {
					if e.Dest == item.vec[i].Dest {
						item.vec[i].Chain = e.Chain
						break
					}
				}
			}
			return true
		})
	case *LogBlock:
		for _, e := range entries {
			versions := e.Chain.GetVersions(nil)
			begin := core.Timestamp(0)
			if len(versions) > 0 {
				begin = versions[len(versions)-1] // oldest commit, newest-first slice
			}
			_, _ = d.InsertEdge(e.Dest, e.Weight, begin)
		}
	}
}

// HasEdge implements Index.
func (a *Adaptive) HasEdge(dest core.DestID, t core.Timestamp) bool {
	return a.active().HasEdge(dest, t)
}

// InsertEdge implements Index, promoting after the write if the
// threshold is now exceeded.
func (a *Adaptive) InsertEdge(dest core.DestID, weight float64, t core.Timestamp) (bool, error) {
	inserted, err := a.active().InsertEdge(dest, weight, t)
	if err == nil {
		a.maybePromote()
	}
	return inserted, err
}

// InsertEdgeBatch implements Index.
func (a *Adaptive) InsertEdgeBatch(dests []core.DestID, weight float64, t core.Timestamp) (int, error) {
	n, err := a.active().InsertEdgeBatch(dests, weight, t)
	if err == nil {
		a.maybePromote()
	}
	return n, err
}

// Edges implements Index.
func (a *Adaptive) Edges(t core.Timestamp, cb func(core.DestID, float64) bool) int {
	return a.active().Edges(t, cb)
}

// Intersect implements Index.
func (a *Adaptive) Intersect(other Index, t core.Timestamp) int {
	if o, ok := other.(*Adaptive); ok {
		return Intersect(a.active(), o.active(), t)
	}
	return Intersect(a.active(), other, t)
}

// Iterator implements Index.
func (a *Adaptive) Iterator(t core.Timestamp) Iterator { return a.active().Iterator(t) }

// InitBulk implements Index; bulk-loaded neighbors may promote
// immediately if the input already exceeds the threshold.
func (a *Adaptive) InitBulk(dests []core.DestID, weight float64, t core.Timestamp) error {
	if len(dests) > a.cfg.AdaptiveThreshold {
		target := NewVariant(a.variant, a.cfg)
		if err := target.InitBulk(dests, weight, t); err != nil {
			return err
		}
		a.promoted = target
		a.flat = nil
		return nil
	}
	return a.active().InitBulk(dests, weight, t)
}

// RemoveEdge implements Index.
func (a *Adaptive) RemoveEdge(dest core.DestID, t core.Timestamp) error {
	return a.active().RemoveEdge(dest, t)
}

// Len implements Index.
func (a *Adaptive) Len() int { return a.active().Len() }

// Ordered implements Index.
func (a *Adaptive) Ordered() bool { return a.active().Ordered() }

// GC implements Index.
func (a *Adaptive) GC(safeT core.Timestamp) { a.active().GC(safeT) }

// Promoted reports whether this neighbor has promoted past its flat
// representation into its configured variant.
func (a *Adaptive) Promoted() bool { return a.promoted != nil }
