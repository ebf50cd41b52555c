// Package kernels implements the analytic graph kernels of spec.md §4.7:
// BFS, SSSP (Dijkstra), PageRank, weakly-connected-components (WCC), and
// triangle counting in both callback and intersect-based forms. Every
// kernel consumes nothing but the *snapshot.Snapshot read API — no
// kernel ever touches a container, a vertex index, or an edge index
// directly, so the same kernel code runs unmodified under either
// concurrency policy.
package kernels
