// File: manager_cow.go
// Role: the COW transaction manager (spec.md §4.6, §5). Writers
// serialize behind a single spinlock bit instead of a sorted lock list;
// readers take a Snapshot of the current persistent root and observe it
// without ever waiting on the writer (their reads take only the pinned
// copy's own mutex), even while later writers replace nodes underneath
// the live root.
package txn

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
	"go.uber.org/zap"
)

// SnapshotGraph is the capability ManagerCow requires: a Graph that can
// also produce a point-in-time Snapshot and a COW-shaped InsertVertex.
type SnapshotGraph interface {
	container.Graph
	InsertVertex(v core.DestID, t core.Timestamp) error
	Snapshot() *container.Cow
}

var _ SnapshotGraph = (*container.Cow)(nil)

// ManagerCow owns the global commit clock and a single-writer spinlock
// bit; it has no active-reader multiset to consult since readers never
// block a writer and never need to be unregistered.
type ManagerCow struct {
	graph  *container.Cow
	logger *zap.Logger

	globalTS  uint64 // atomic
	writeGate int32  // atomic: 0 free, 1 held

	gcInterval time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewManagerCow constructs a COW manager over graph and starts its
// reclaimer goroutine.
func NewManagerCow(graph *container.Cow, gcInterval time.Duration, logger *zap.Logger) *ManagerCow {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ManagerCow{
		graph:      graph,
		logger:     logger,
		gcInterval: gcInterval,
		stopCh:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.reclaimLoop()
	return m
}

// Close stops the reclaimer goroutine and waits for it to exit.
func (m *ManagerCow) Close() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *ManagerCow) reclaimLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			safeT := atomic.LoadUint64(&m.globalTS)
			m.logger.Debug("reclaimer pass", zap.Uint64("safe_ts", safeT))
			m.graph.GCAll(safeT)
		}
	}
}

// acquireWriteGate spins until the single-writer bit is clear, then
// claims it (spec.md §5: "writers... spin-wait on the single-writer bit
// under COW").
func (m *ManagerCow) acquireWriteGate() {
	for !atomic.CompareAndSwapInt32(&m.writeGate, 0, 1) {
		runtime.Gosched()
	}
}

func (m *ManagerCow) releaseWriteGate() {
	atomic.StoreInt32(&m.writeGate, 0)
}

// ReadTxnCow is a non-blocking reader bound to a persistent root taken
// at open time.
type ReadTxnCow struct {
	ts   core.Timestamp
	root *container.Cow
}

// GetReadTransaction snapshots the current global timestamp and the
// current persistent root; subsequent writes never mutate what this
// reader observes (spec.md §5 "reader snapshots keep the old root alive
// until they are dropped").
func (m *ManagerCow) GetReadTransaction() *ReadTxnCow {
	return &ReadTxnCow{ts: atomic.LoadUint64(&m.globalTS), root: m.graph.Snapshot()}
}

// Timestamp returns the snapshot this reader is bound to.
func (r *ReadTxnCow) Timestamp() core.Timestamp { return r.ts }

// Snapshot opens a snapshot.Snapshot over this reader's pinned root.
func (r *ReadTxnCow) Snapshot() *snapshot.Snapshot { return snapshot.Open(r.root, r.ts) }

func (r *ReadTxnCow) HasVertex(v core.DestID) bool          { return r.root.HasVertex(v) }
func (r *ReadTxnCow) HasEdge(src, dest core.DestID) bool     { return r.root.HasEdge(src, dest, r.ts) }
func (r *ReadTxnCow) GetDegree(v core.DestID) (uint64, bool) { return r.root.GetDegree(v, r.ts) }
func (r *ReadTxnCow) Intersect(a, b core.DestID) (int, error) {
	return r.root.Intersect(a, b, r.ts)
}
func (r *ReadTxnCow) Edges(src core.DestID, cb func(dest core.DestID, weight float64) bool) (int, error) {
	return r.root.Edges(src, r.ts, cb)
}

// Close is a no-op: there is no active-reader multiset to unregister
// from under COW. It exists so callers can treat both managers'
// read transactions uniformly.
func (r *ReadTxnCow) Close() {}

type vertexOp struct {
	id core.DestID
}

// WriteTxnCow is a buffering writer for the COW manager.
type WriteTxnCow struct {
	mgr   *ManagerCow
	state txnState

	vertexInserts []vertexOp
	edgeInserts   []edgeOp
	edgeRemoves   []edgeOp
}

// GetWriteTransaction returns a fresh buffering writer.
func (m *ManagerCow) GetWriteTransaction() *WriteTxnCow {
	return &WriteTxnCow{mgr: m, state: stateOpen}
}

// InsertVertex buffers a vertex insert at the caller-supplied id (the
// COW vertex index takes explicit ids, unlike the 2PL vector's
// auto-assigned ones).
func (w *WriteTxnCow) InsertVertex(v core.DestID) error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.vertexInserts = append(w.vertexInserts, vertexOp{id: v})
	return nil
}

// InsertEdge buffers an edge insert.
func (w *WriteTxnCow) InsertEdge(src, dest core.DestID, weight float64) error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.edgeInserts = append(w.edgeInserts, edgeOp{src: src, dest: dest, weight: weight})
	return nil
}

// RemoveEdge buffers an edge removal. Under COW this always fails with
// core.ErrFunctionNotImplemented once applied (container.Cow's only
// neighbor variant is PAM), but is accepted here so the driver's Update
// workload can run unmodified against either manager and observe the
// failure through Commit's logging instead of a type assertion.
func (w *WriteTxnCow) RemoveEdge(src, dest core.DestID) error {
	if w.state != stateOpen {
		return core.ErrInvalidTimestampOrder
	}
	w.edgeRemoves = append(w.edgeRemoves, edgeOp{src: src, dest: dest})
	return nil
}

// Abort drops every buffered operation.
func (w *WriteTxnCow) Abort() {
	w.state = stateAborted
	w.vertexInserts = nil
	w.edgeInserts = nil
	w.edgeRemoves = nil
}

// Commit claims the single-writer gate, fetches a fresh commit
// timestamp, applies buffered vertex inserts then edge inserts (singly
// below 3 edges, CSR-packed via InsertEdgeBatch otherwise — spec.md
// §4.6 step 4 applies to both managers), and releases the gate.
func (w *WriteTxnCow) Commit() (core.Timestamp, error) {
	if w.state != stateOpen {
		return 0, core.ErrInvalidTimestampOrder
	}
	w.mgr.acquireWriteGate()
	defer w.mgr.releaseWriteGate()

	newTS := atomic.AddUint64(&w.mgr.globalTS, 1)

	for _, v := range w.vertexInserts {
		if err := w.mgr.graph.InsertVertex(v.id, newTS); err != nil {
			w.mgr.logger.Warn("write transaction commit: vertex insert failed",
				zap.Uint64("vertex", v.id), zap.Error(err))
		}
	}

	if err := w.applyEdgeInserts(newTS); err != nil {
		w.mgr.logger.Warn("write transaction commit: edge apply failed", zap.Error(err))
	}
	for _, e := range w.edgeRemoves {
		if err := w.mgr.graph.RemoveEdge(e.src, e.dest, newTS); err != nil {
			w.mgr.logger.Warn("write transaction commit: edge remove failed", zap.Error(err))
		}
	}

	w.state = stateCommitted
	return newTS, nil
}

func (w *WriteTxnCow) applyEdgeInserts(ts core.Timestamp) error {
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
