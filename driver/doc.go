// Package driver implements the benchmarking harness's workloads (spec.md
// §4.7): insert/delete, batch insert, update, microbenchmark, concurrent,
// mixed reader/writer, QoS, and query. Workers are plain goroutines
// joined via golang.org/x/sync/errgroup.Group.Wait(), one per configured
// thread count (spec.md §5 "workers are joined before a workload's
// aggregate metrics are finalized"); each worker logs through
// go.uber.org/zap.
//
// Execute accepts an already-decoded operation stream (map[StreamKey]
// []Operation) rather than reading .stream files itself — parsing the
// on-disk wire format and the configuration file are external
// collaborators' responsibility (spec.md §1 Non-goals).
package driver
