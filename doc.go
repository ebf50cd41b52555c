// Package txgraph is an in-memory, multi-version graph store with a
// pluggable edge index and two interchangeable concurrency policies,
// built around a benchmarking harness that drives it through the
// workloads a graph database actually sees in production: bulk insert,
// point update, read-only traversal, and mixed reader/writer
// concurrency.
//
// Package layout:
//
//	core/        vertex/edge entries, version chains, shared sentinel errors
//	edgeindex/   five interchangeable neighbor-container variants
//	vertexindex/ dense (Vector) and persistent ordered-map (Cow) vertex tables
//	container/   Graph implementations pairing a vertex index with a
//	             concurrency policy: TwoPL (per-vertex locks) and Cow
//	             (copy-on-write, single-writer)
//	txn/         transaction managers: commit protocol, reclamation,
//	             reader/writer isolation
//	snapshot/    the read-only, timestamp-bound view every kernel consumes
//	kernels/     BFS, SSSP, WCC, PageRank, and two triangle-counting variants
//	driver/      the benchmarking harness: workloads, checkpoints, output
//
// A store is built by choosing a container.Graph implementation and
// wrapping it in the matching txn manager: container.NewTwoPL plus
// txn.NewManager2PL for the locking policy, or container.NewCow plus
// txn.NewManagerCow for the copy-on-write policy. Everything above the
// container layer — snapshot, kernels, driver — is written against the
// shared container.Graph and snapshot.Snapshot capabilities and does not
// care which policy is underneath.
package txgraph
