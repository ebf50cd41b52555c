// Package container composes a vertex index with an edge-index
// template into the graph's public surface: directed/weighted flags,
// vertex and edge counters, and the has_vertex / has_edge / intersect /
// begin / get_degree / insert_vertex / insert_edge / insert_edge_batch
// / edges / gc_all contract of spec.md §4.5.
//
// Two concrete implementations satisfy the Graph interface, matching
// the two concurrency policies (spec.md §5):
//
//   - TwoPL wraps a vertexindex.Vector. Mutation is serialized by each
//     vertex's own reader-writer lock (held by the caller — typically
//     the txn package's write-transaction commit path); any edgeindex
//     variant may serve as a vertex's neighbor container.
//   - Cow wraps a vertexindex.Cow. Every batched edge update clones the
//     target vertex's neighbor (always a *edgeindex.PAM, the variant
//     spec.md §9's design note on COW neighbor ownership calls for:
//     value-typed, cheaply cloneable) before mutating the clone, so
//     concurrent readers holding the old vertex-index root keep
//     observing the old neighbor value undisturbed.
package container
