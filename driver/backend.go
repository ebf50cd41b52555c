// File: backend.go
// Role: a uniform Backend/WriteTxn capability the workload functions
// below drive, implemented once per concurrency policy (txn.Manager2PL
// over container.TwoPL, txn.ManagerCow over container.Cow) so every
// workload is written against the capability, never against a concrete
// manager type (spec.md §9 "capability, not class hierarchy").
package driver

import (
	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/snapshot"
	"github.com/katalvlaran/txgraph/txn"
)

// WriteTxn is the buffering-writer capability both transaction managers
// expose. Under 2PL, InsertVertex's id parameter is ignored (the vector
// vertex index auto-assigns dense ids); under COW it names the vertex to
// create.
type WriteTxn interface {
	InsertVertex(id core.DestID) error
	InsertEdge(src, dest core.DestID, weight float64) error
	RemoveEdge(src, dest core.DestID) error
	Commit() (core.Timestamp, error)
	Abort()
}

// Backend is the capability every workload function is written against.
type Backend interface {
	NewWriteTxn() WriteTxn
	NewReadSnapshot() *snapshot.Snapshot
	Graph() container.Graph
	Close()
}

// --- 2PL adapter ---

type twoPLBackend struct {
	mgr   *txn.Manager2PL
	graph *container.TwoPL
}

// NewTwoPLBackend adapts a running 2PL manager into a Backend.
func NewTwoPLBackend(mgr *txn.Manager2PL, graph *container.TwoPL) Backend {
	return &twoPLBackend{mgr: mgr, graph: graph}
}

func (b *twoPLBackend) NewWriteTxn() WriteTxn { return &twoPLWriteTxn{w: b.mgr.GetWriteTransaction()} }

func (b *twoPLBackend) NewReadSnapshot() *snapshot.Snapshot {
	r := b.mgr.GetReadTransaction()
	defer r.Close()
	return r.Snapshot()
}

func (b *twoPLBackend) Graph() container.Graph { return b.graph }
func (b *twoPLBackend) Close()                 { b.mgr.Close() }

type twoPLWriteTxn struct{ w *txn.WriteTxn2PL }

func (t *twoPLWriteTxn) InsertVertex(core.DestID) error { return t.w.InsertVertex() }
func (t *twoPLWriteTxn) InsertEdge(src, dest core.DestID, weight float64) error {
	return t.w.InsertEdge(src, dest, weight)
}
func (t *twoPLWriteTxn) RemoveEdge(src, dest core.DestID) error { return t.w.RemoveEdge(src, dest) }
func (t *twoPLWriteTxn) Commit() (core.Timestamp, error)        { return t.w.Commit() }
func (t *twoPLWriteTxn) Abort()                                 { t.w.Abort() }

// --- COW adapter ---

type cowBackend struct {
	mgr   *txn.ManagerCow
	graph *container.Cow
}

// NewCowBackend adapts a running COW manager into a Backend.
func NewCowBackend(mgr *txn.ManagerCow, graph *container.Cow) Backend {
	return &cowBackend{mgr: mgr, graph: graph}
}

func (b *cowBackend) NewWriteTxn() WriteTxn { return &cowWriteTxn{w: b.mgr.GetWriteTransaction()} }

func (b *cowBackend) NewReadSnapshot() *snapshot.Snapshot {
	r := b.mgr.GetReadTransaction()
	defer r.Close()
	return r.Snapshot()
}

func (b *cowBackend) Graph() container.Graph { return b.graph }
func (b *cowBackend) Close()                 { b.mgr.Close() }

type cowWriteTxn struct{ w *txn.WriteTxnCow }

func (t *cowWriteTxn) InsertVertex(id core.DestID) error { return t.w.InsertVertex(id) }
func (t *cowWriteTxn) InsertEdge(src, dest core.DestID, weight float64) error {
	return t.w.InsertEdge(src, dest, weight)
}
func (t *cowWriteTxn) RemoveEdge(src, dest core.DestID) error { return t.w.RemoveEdge(src, dest) }
func (t *cowWriteTxn) Commit() (core.Timestamp, error)        { return t.w.Commit() }
func (t *cowWriteTxn) Abort()                                 { t.w.Abort() }
