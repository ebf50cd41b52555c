// Package core defines the fundamental, dependency-free vocabulary shared
// by every other package in txgraph: vertex and edge identifiers,
// timestamps, the edge entry (with its version-chain and begin/end
// representations) and the vertex entry, plus the sentinel errors raised
// by the transaction and container layers.
//
// Nothing in this package spawns a goroutine, and the only lock it takes
// itself is the read lock VertexEntry.CloneWithNeighbor holds while
// copying; otherwise it is pure data plus the small amount of logic
// needed to keep an edge entry or a vertex entry internally consistent
// (visibility checks, version-chain trimming). The per-vertex lock is
// exposed for callers one layer up, in container and txn.
package core
