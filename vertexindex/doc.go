// Package vertexindex implements the vertex-side container of the
// graph store: a map from a dense or sparse vertex id to its
// *core.VertexEntry, whose Neighbor field carries an edgeindex.Index.
//
// Two variants are provided, matching the two container-level
// concurrency policies (spec.md §5):
//
//   - Vector: a growable slice indexed directly by vertex id, assigned
//     densely at insertion time. O(1) lookup, no structural sharing.
//     Used under the 2PL policy, where mutation is protected by
//     per-vertex locks rather than by replacing the whole index.
//   - Cow: a persistent ordered map built on tidwall/btree.BTreeG,
//     offering a cheap Clone() that shares its root with the map it was
//     cloned from until either copy writes. Used under the COW policy,
//     where a single writer replaces the live root and readers keep
//     dereferencing whatever root they observed at snapshot time.
//
// Neither variant takes a lock of its own beyond what is needed to
// protect its top-level structure (Vector's entries slice, Cow's root
// pointer); per-vertex mutual exclusion is the concern of
// core.VertexEntry and the owning transaction manager.
package vertexindex
