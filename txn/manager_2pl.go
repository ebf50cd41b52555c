// File: manager_2pl.go
// Role: the 2PL transaction manager (spec.md §4.6). Readers snapshot the
// global timestamp and register in an active-reader multiset; writers
// buffer their operations and, at commit, acquire a deduplicated, sorted
// lock list (core.IndexLock last, since it is the maximum DestID value)
// before fetching a fresh commit timestamp and applying the batch.
package txn

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
	"go.uber.org/zap"
)

// LockableGraph is the capability Manager2PL requires beyond
// container.Graph: per-vertex and table-wide lock acquisition, and an
// InsertVertex that returns the freshly assigned dense id (spec.md §9,
// the vector vertex index's auto-id contract).
type LockableGraph interface {
	container.Graph
	InsertVertex(t core.Timestamp) core.DestID
	LockVertex(id core.DestID, exclusive bool) (*core.VertexEntry, bool)
	LockTable(exclusive bool)
	UnlockTable(exclusive bool)
}

var _ LockableGraph = (*container.TwoPL)(nil)

// txnState is a transaction's position in the OPEN -> COMMITTED/ABORTED
// state machine (spec.md §4.6).
type txnState int32

const (
	stateOpen txnState = iota
	stateCommitted
	stateAborted
)

// Manager2PL owns the global commit clock, the active-reader multiset,
// and a background reclaimer goroutine.
type Manager2PL struct {
	graph    LockableGraph
	logger   *zap.Logger
	globalTS uint64 // atomic

	mu      sync.Mutex
	readers map[core.Timestamp]int // active-reader multiset

	gcInterval time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewManager2PL constructs a manager over graph and starts its
// reclaimer goroutine at the given interval. A nil logger is replaced
// with zap.NewNop(), matching spec.md's "core must run silently in
// tests".
func NewManager2PL(graph LockableGraph, gcInterval time.Duration, logger *zap.Logger) *Manager2PL {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager2PL{
		graph:      graph,
		logger:     logger,
		readers:    make(map[core.Timestamp]int),
		gcInterval: gcInterval,
		stopCh:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.reclaimLoop()
	return m
}

// Close stops the reclaimer goroutine and waits for it to exit.
func (m *Manager2PL) Close() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Manager2PL) reclaimLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			safeT := m.safeTimestamp()
			m.logger.Debug("reclaimer pass", zap.Uint64("safe_ts", safeT))
			m.graph.GCAll(safeT)
		}
	}
}

// safeTimestamp computes min(active_readers ∪ {global}) (spec.md §4.6).
func (m *Manager2PL) safeTimestamp() core.Timestamp {
	safe := atomic.LoadUint64(&m.globalTS)
	m.mu.Lock()
	for ts := range m.readers {
		if ts < safe {
			safe = ts
		}
	}
	m.mu.Unlock()
	return safe
}

// ReadTxn2PL is a reader bound to a fixed snapshot timestamp.
type ReadTxn2PL struct {
	mgr    *Manager2PL
	ts     core.Timestamp
	closed bool
}

// GetReadTransaction snapshots the global timestamp and registers it in
// the active-reader multiset.
func (m *Manager2PL) GetReadTransaction() *ReadTxn2PL {
	tr := atomic.LoadUint64(&m.globalTS)
	m.mu.Lock()
	m.readers[tr]++
	m.mu.Unlock()
	return &ReadTxn2PL{mgr: m, ts: tr}
}

// Timestamp returns the snapshot this reader is bound to.
func (r *ReadTxn2PL) Timestamp() core.Timestamp { return r.ts }

// Snapshot opens a snapshot.Snapshot bound to this reader's timestamp,
// for callers (the driver) that want the shared read API instead of
// ReadTxn2PL's own convenience methods.
func (r *ReadTxn2PL) Snapshot() *snapshot.Snapshot { return snapshot.Open(r.mgr.graph, r.ts) }

// HasVertex, HasEdge, GetDegree, Intersect, and Edges read the
// underlying graph at the reader's bound timestamp.
func (r *ReadTxn2PL) HasVertex(v core.DestID) bool { return r.mgr.graph.HasVertex(v) }
func (r *ReadTxn2PL) HasEdge(src, dest core.DestID) bool {
	return r.mgr.graph.HasEdge(src, dest, r.ts)
}
func (r *ReadTxn2PL) GetDegree(v core.DestID) (uint64, bool) { return r.mgr.graph.GetDegree(v, r.ts) }
func (r *ReadTxn2PL) Intersect(a, b core.DestID) (int, error) {
	return r.mgr.graph.Intersect(a, b, r.ts)
}
func (r *ReadTxn2PL) Edges(src core.DestID, cb func(dest core.DestID, weight float64) bool) (int, error) {
	return r.mgr.graph.Edges(src, r.ts, cb)
}

// Close removes this reader's occurrence from the active-reader
// multiset, letting the reclaimer advance safe_T past it.
func (r *ReadTxn2PL) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.mgr.mu.Lock()
	r.mgr.readers[r.ts]--
	if r.mgr.readers[r.ts] <= 0 {
		delete(r.mgr.readers, r.ts)
	}
	r.mgr.mu.Unlock()
}

type edgeOp struct {
	src, dest core.DestID
	weight    float64
}

// WriteTxn2PL is a buffering writer: InsertVertex/InsertEdge append to
// in-memory slices; nothing touches the graph until Commit.
type WriteTxn2PL struct {
	mgr   *Manager2PL
	state txnState

	vertexInserts int
	edgeInserts   []edgeOp
	edgeRemoves   []edgeOp
}

// GetWriteTransaction returns a fresh buffering writer.
func (m *Manager2PL) GetWriteTransaction() *WriteTxn2PL {
	return &WriteTxn2PL{mgr: m, state: stateOpen}
}

// InsertVertex buffers a vertex insert. The id is assigned only at
// Commit, once the writer holds the table lock.
func (w *WriteTxn2PL) InsertVertex() error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.vertexInserts++
	return nil
}

// InsertEdge buffers an edge insert.
func (w *WriteTxn2PL) InsertEdge(src, dest core.DestID, weight float64) error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.edgeInserts = append(w.edgeInserts, edgeOp{src: src, dest: dest, weight: weight})
	return nil
}

// RemoveEdge buffers an edge removal (the Update workload's
// insert-then-remove cycle, spec.md §4.7).
func (w *WriteTxn2PL) RemoveEdge(src, dest core.DestID) error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.edgeRemoves = append(w.edgeRemoves, edgeOp{src: src, dest: dest})
	return nil
}

// Abort drops all buffered operations. No locks were ever acquired, so
// there is nothing to release (spec.md §5 "aborting a write transaction
// simply drops its buffered ops and releases no locks").
func (w *WriteTxn2PL) Abort() {
	w.state = stateAborted
	w.vertexInserts = 0
	w.edgeInserts = nil
	w.edgeRemoves = nil
}

type heldLock struct {
	id        core.DestID
	exclusive bool
	entry     *core.VertexEntry // nil for the table lock
}

// Commit executes spec.md §4.6's five commit steps: dedup+sort the lock
// list, acquire every lock (table lock last, since core.IndexLock is the
// maximum DestID value and therefore sorts last), fetch-and-add the
// global timestamp, apply the buffered inserts, then release every lock
// in reverse acquisition order. Returns the assigned commit timestamp.
func (w *WriteTxn2PL) Commit() (core.Timestamp, error) {
	if w.state != stateOpen {
		return 0, core.ErrInvalidTimestampOrder
	}

	lockIDs := make(map[core.DestID]struct{})
	for _, e := range w.edgeInserts {
		lockIDs[e.src] = struct{}{}
	}
	for _, e := range w.edgeRemoves {
		lockIDs[e.src] = struct{}{}
	}
	if w.vertexInserts > 0 {
		lockIDs[core.IndexLock] = struct{}{}
	}
	sorted := make([]core.DestID, 0, len(lockIDs))
	for id := range lockIDs {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]heldLock, 0, len(sorted))
	for _, id := range sorted {
		if id == core.IndexLock {
			w.mgr.graph.LockTable(true)
			held = append(held, heldLock{id: id, exclusive: true})
			continue
		}
		entry, ok := w.mgr.graph.LockVertex(id, true)
		if !ok {
			w.releaseAll(held)
			w.state = stateAborted
			return 0, core.ErrVertexMissing
		}
		held = append(held, heldLock{id: id, exclusive: true, entry: entry})
	}

	newTS := atomic.AddUint64(&w.mgr.globalTS, 1)

	for i := 0; i < w.vertexInserts; i++ {
		w.mgr.graph.InsertVertex(newTS)
	}

	if err := w.applyEdgeInserts(newTS); err != nil {
		w.mgr.logger.Warn("write transaction commit: edge apply failed", zap.Error(err))
	}
	for _, e := range w.edgeRemoves {
		if err := w.mgr.graph.RemoveEdge(e.src, e.dest, newTS); err != nil {
			w.mgr.logger.Warn("write transaction commit: edge remove failed", zap.Error(err))
		}
	}

	w.releaseAll(held)
	w.state = stateCommitted
	return newTS, nil
}

// applyEdgeInserts implements spec.md §4.6 commit step 4: singly for
// tiny batches, grouped by source via InsertEdgeBatch otherwise.
func (w *WriteTxn2PL) applyEdgeInserts(ts core.Timestamp) error {
	if len(w.edgeInserts) == 0 {
		return nil
	}
	if len(w.edgeInserts) <= 2 {
		for _, e := range w.edgeInserts {
			if _, err := w.mgr.graph.InsertEdge(e.src, e.dest, e.weight, ts); err != nil {
				return err
			}
		}
		return nil
	}
	pairs := make([]container.EdgePair, len(w.edgeInserts))
	for i, e := range w.edgeInserts {
		pairs[i] = container.EdgePair{Src: e.src, Dest: e.dest, Weight: e.weight}
	}
	_, err := w.mgr.graph.InsertEdgeBatch(pairs, ts)
	return err
}

func (w *WriteTxn2PL) releaseAll(held []heldLock) {
	for i := len(held) - 1; i >= 0; i-- {
		h := held[i]
		if h.id == core.IndexLock {
			w.mgr.graph.UnlockTable(true)
			continue
		}
		h.entry.Unlock()
	}
}
