package core

import "errors"

// DestID is the 64-bit vertex identifier used throughout the store.
type DestID = uint64

// Timestamp is the 64-bit monotonically increasing commit clock. Readers
// bind to a snapshot Timestamp; writers are assigned a fresh one at
// commit.
type Timestamp = uint64

const (
	// InvalidID marks an absent or sentinel vertex/destination id.
	InvalidID DestID = ^DestID(0)

	// LiveTS marks a version-chain or begin/end entry that is still
	// current ("still live" per spec.md §3).
	LiveTS Timestamp = ^Timestamp(0)

	// IndexLock is the distinguished lock identifier referring to the
	// whole vertex-index table (spec.md §4.3, §6).
	IndexLock uint64 = ^uint64(0)
)

// Sentinel errors shared by the container, transaction and edge-index
// layers. Each corresponds to an error kind named in spec.md §7.
var (
	// ErrVertexExists is returned by InsertVertex when the id is already
	// present.
	ErrVertexExists = errors.New("core: vertex already exists")

	// ErrVertexMissing is returned when an operation references a vertex
	// id that has not been inserted.
	ErrVertexMissing = errors.New("core: vertex does not exist")

	// ErrEdgeExists signals that insert_edge updated an existing edge's
	// version instead of creating a new one. It is non-fatal: callers
	// inspect the boolean "inserted new" return value instead of this
	// error in the common path, but it is exported for callers that
	// prefer the error-return idiom.
	ErrEdgeExists = errors.New("core: edge already exists")

	// ErrFunctionNotImplemented is returned when a capability (e.g.
	// RemoveEdge on the PAM or log-block variants) is not supported by
	// the selected edge-index variant.
	ErrFunctionNotImplemented = errors.New("core: function not implemented for this variant")

	// ErrInvalidTimestampOrder is returned by UpdateVersion when called
	// with a timestamp not strictly greater than the entry's current
	// newest version — a write-skew signal.
	ErrInvalidTimestampOrder = errors.New("core: invalid timestamp order")

	// ErrNilContainer guards against operating on a nil container/index.
	ErrNilContainer = errors.New("core: nil container")
)
