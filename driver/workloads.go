// File: workloads.go
// Role: the eight workloads spec.md §4.7 names, each spawning one
// goroutine per configured thread and joining them with
// golang.org/x/sync/errgroup.Group (the pack's worker-pool idiom, see
// blocksReadAhead in the retrieved erigon stagedsync example), logging
// through go.uber.org/zap.
package driver

import (
	"context"
	"time"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/kernels"
	"github.com/katalvlaran/txgraph/snapshot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// chunk splits ops into n contiguous, near-equal slices, mirroring
// spec.md §4.7's "partition the target stream into contiguous chunks per
// thread".
func chunk(ops []Operation, n int) [][]Operation {
	if n <= 0 {
		n = 1
	}
	if n > len(ops) {
		n = len(ops)
	}
	if n == 0 {
		return nil
	}
	chunks := make([][]Operation, n)
	base := len(ops) / n
	rem := len(ops) % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks[i] = ops[start : start+size]
		start += size
	}
	return chunks
}

// checkpointsAt records elapsed time every checkpointSize processed
// ops, as spec.md §4.7 requires for Insert/Delete, Update and
// Microbenchmark.
func checkpointsAt(start time.Time, processed, checkpointSize int, out *[]time.Duration) {
	if checkpointSize > 0 && processed%checkpointSize == 0 {
		*out = append(*out, time.Since(start))
	}
}

// RunInsertDelete implements spec.md §4.7's Insert/Delete workload: one
// edge op per stream item, contiguous per-thread chunks, checkpointed
// every insert_delete_checkpoint_size ops.
func RunInsertDelete(ctx context.Context, backend Backend, cfg *Config, stream []Operation, logger *zap.Logger) (*Results, error) {
	chunks := chunk(stream, cfg.InsertDeleteNumThreads)
	results := make([]ThreadResult, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			w := backend.NewWriteTxn()
			var done uint64
			var checkpoints []time.Duration
			for j, op := range c {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				var err error
				if op.Type == OpDelete {
					err = w.RemoveEdge(op.Source, op.Destination)
				} else {
					err = w.InsertEdge(op.Source, op.Destination, op.Weight)
				}
				if err != nil {
					logger.Warn("insert/delete op buffering failed", zap.Int("thread", i), zap.Error(err))
					continue
				}
				done++
				checkpointsAt(start, j+1, cfg.InsertDeleteCheckpointSize, &checkpoints)
			}
			if _, err := w.Commit(); err != nil {
				return err
			}
			results[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done, Checkpoints: checkpoints}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Results{WorkloadType: cfg.WorkloadType, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.InsertDeleteNumThreads, GlobalDuration: time.Since(globalStart), Threads: results}, nil
}

// RunBatchInsert implements spec.md §4.7's Batch insert workload: each
// thread walks its chunk in sub-chunks of insert_batch_size.
func RunBatchInsert(ctx context.Context, backend Backend, cfg *Config, stream []Operation, logger *zap.Logger) (*Results, error) {
	chunks := chunk(stream, cfg.InsertDeleteNumThreads)
	results := make([]ThreadResult, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			var done uint64
			var checkpoints []time.Duration
			for lo := 0; lo < len(c); lo += cfg.InsertBatchSize {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				hi := lo + cfg.InsertBatchSize
				if hi > len(c) {
					hi = len(c)
				}
				w := backend.NewWriteTxn()
				for _, op := range c[lo:hi] {
					if err := w.InsertEdge(op.Source, op.Destination, op.Weight); err != nil {
						logger.Warn("batch insert buffering failed", zap.Int("thread", i), zap.Error(err))
						continue
					}
					done++
				}
				if _, err := w.Commit(); err != nil {
					return err
				}
				checkpointsAt(start, hi, cfg.InsertDeleteCheckpointSize, &checkpoints)
			}
			results[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done, Checkpoints: checkpoints}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Results{WorkloadType: cfg.WorkloadType, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.InsertDeleteNumThreads, GlobalDuration: time.Since(globalStart), Threads: results}, nil
}

// RunUpdate implements spec.md §4.7's Update workload: repeated
// insert-then-remove per edge, update_repeat_times cycles.
func RunUpdate(ctx context.Context, backend Backend, cfg *Config, stream []Operation, logger *zap.Logger) (*Results, error) {
	chunks := chunk(stream, cfg.UpdateNumThreads)
	results := make([]ThreadResult, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			var done uint64
			var checkpoints []time.Duration
			processed := 0
			for _, op := range c {
				for rep := 0; rep < cfg.UpdateRepeatTimes; rep++ {
					select {
					case <-gCtx.Done():
						return gCtx.Err()
					default:
					}
					w := backend.NewWriteTxn()
					if err := w.InsertEdge(op.Source, op.Destination, op.Weight); err != nil {
						logger.Warn("update insert failed", zap.Int("thread", i), zap.Error(err))
					}
					if _, err := w.Commit(); err != nil {
						return err
					}
					w = backend.NewWriteTxn()
					if err := w.RemoveEdge(op.Source, op.Destination); err != nil {
						logger.Debug("update remove unsupported by variant", zap.Int("thread", i), zap.Error(err))
					}
					if _, err := w.Commit(); err != nil {
						return err
					}
					processed++
					checkpointsAt(start, processed, cfg.UpdateCheckpointSize, &checkpoints)
				}
				done++
			}
			results[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done, Checkpoints: checkpoints}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Results{WorkloadType: cfg.WorkloadType, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.UpdateNumThreads, GlobalDuration: time.Since(globalStart), Threads: results}, nil
}

// RunMicrobenchmark implements spec.md §4.7's Microbenchmark workload:
// read-only, each thread opens a snapshot, clones it once, then for each
// op in {GetVertex, GetEdge, GetWeight, GetNeighbor, ScanNeighbor}
// invokes the matching read primitive. ScanNeighbor's OpsDone counts
// callbacks fired, not ops consumed, so its reported speed is
// edges-per-second rather than ops-per-second (spec.md §4.7).
func RunMicrobenchmark(ctx context.Context, backend Backend, cfg *Config, threads int, stream []Operation, logger *zap.Logger) (*Results, error) {
	chunks := chunk(stream, threads)
	results := make([]ThreadResult, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			snap := backend.NewReadSnapshot().Clone()
			var done uint64
			var checkpoints []time.Duration
			for j, op := range c {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				switch op.Type {
				case OpGetVertex:
					snap.HasVertex(op.Source)
				case OpGetEdge:
					snap.HasEdge(op.Source, op.Destination)
				case OpGetWeight:
					snap.Edges(op.Source, func(dest core.DestID, weight float64) bool { return dest != op.Destination })
				case OpGetNeighbor:
					snap.GetDegree(op.Source)
				case OpScanNeighbor:
					n, err := snap.Edges(op.Source, func(core.DestID, float64) bool { return true })
					if err == nil {
						done += uint64(n)
					}
				default:
					logger.Warn("microbenchmark op out of range", zap.Int("thread", i), zap.Uint8("type", uint8(op.Type)))
				}
				if op.Type != OpScanNeighbor {
					done++
				}
				checkpointsAt(start, j+1, cfg.MbCheckpointSize, &checkpoints)
			}
			results[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done, Checkpoints: checkpoints}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Results{WorkloadType: OpGetVertex, TargetStreamType: cfg.TargetStreamType,
		NumThreads: threads, GlobalDuration: time.Since(globalStart), Threads: results}, nil
}

// RunConcurrent implements spec.md §4.7's Concurrent workload: one
// insert writer group plus one or more reader groups, every thread
// opening the same shared snapshot at start.
func RunConcurrent(ctx context.Context, backend Backend, cfg *Config, writerStream []Operation, readerStreams [][]Operation, logger *zap.Logger) (*Results, error) {
	shared := backend.NewReadSnapshot()

	var all []ThreadResult
	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()

	writerChunks := chunk(writerStream, cfg.WriterThreads)
	writerResults := make([]ThreadResult, len(writerChunks))
	for i, c := range writerChunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			w := backend.NewWriteTxn()
			var done uint64
			for _, op := range c {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				if err := w.InsertEdge(op.Source, op.Destination, op.Weight); err == nil {
					done++
				}
			}
			if _, err := w.Commit(); err != nil {
				return err
			}
			writerResults[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done}
			return nil
		})
	}

	readerResults := make([][]ThreadResult, len(readerStreams))
	for gi, rs := range readerStreams {
		groupChunks := chunk(rs, cfg.ReaderThreads)
		readerResults[gi] = make([]ThreadResult, len(groupChunks))
		for i, c := range groupChunks {
			gi, i, c := gi, i, c
			g.Go(func() error {
				start := time.Now()
				var done uint64
				for _, op := range c {
					select {
					case <-gCtx.Done():
						return gCtx.Err()
					default:
					}
					switch op.Type {
					case OpGetEdge:
						shared.HasEdge(op.Source, op.Destination)
					default:
						shared.HasVertex(op.Source)
					}
					done++
				}
				readerResults[gi][i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	all = append(all, writerResults...)
	for _, rr := range readerResults {
		all = append(all, rr...)
	}
	logger.Debug("concurrent workload finished", zap.Int("writer_threads", len(writerResults)), zap.Int("reader_groups", len(readerStreams)))
	return &Results{WorkloadType: OpConcurrent, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.WriterThreads + cfg.ReaderThreads, GlobalDuration: time.Since(globalStart), Threads: all}, nil
}

// RunMixedReaderWriter implements spec.md §4.7's Mixed reader/writer
// workload: writer threads run the insert workload; reader threads loop
// running PageRank over a cloned shared snapshot until all writers
// finish, each iteration timed as one checkpoint.
func RunMixedReaderWriter(ctx context.Context, backend Backend, cfg *Config, writerStream []Operation, logger *zap.Logger) (*Results, error) {
	shared := backend.NewReadSnapshot()
	done := make(chan struct{})
	globalStart := time.Now()

	writerChunks := chunk(writerStream, cfg.WriterThreads)
	writerResults := make([]ThreadResult, len(writerChunks))
	writers, writerCtx := errgroup.WithContext(ctx)
	for i, c := range writerChunks {
		i, c := i, c
		writers.Go(func() error {
			start := time.Now()
			w := backend.NewWriteTxn()
			var n uint64
			for _, op := range c {
				select {
				case <-writerCtx.Done():
					return writerCtx.Err()
				default:
				}
				if err := w.InsertEdge(op.Source, op.Destination, op.Weight); err == nil {
					n++
				}
			}
			if _, err := w.Commit(); err != nil {
				return err
			}
			writerResults[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: n}
			return nil
		})
	}

	readers, readerCtx := errgroup.WithContext(ctx)
	readerResults := make([]ThreadResult, cfg.ReaderThreads)
	for i := 0; i < cfg.ReaderThreads; i++ {
		i := i
		readers.Go(func() error {
			start := time.Now()
			var iterations uint64
			var checkpoints []time.Duration
			for {
				select {
				case <-done:
					readerResults[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: iterations, Checkpoints: checkpoints}
					return nil
				case <-readerCtx.Done():
					return readerCtx.Err()
				default:
				}
				iterStart := time.Now()
				clone := shared.Clone()
				kernels.PageRank(clone, cfg.NumIterations, cfg.DampingFactor)
				checkpoints = append(checkpoints, time.Since(iterStart))
				iterations++
			}
		})
	}

	writerErr := writers.Wait()
	close(done)
	readerErr := readers.Wait()
	if writerErr != nil {
		return nil, writerErr
	}
	if readerErr != nil {
		return nil, readerErr
	}
	logger.Debug("mixed reader/writer workload finished", zap.Int("writers", len(writerResults)), zap.Int("readers", cfg.ReaderThreads))

	all := append([]ThreadResult{}, writerResults...)
	all = append(all, readerResults...)
	return &Results{WorkloadType: OpMixed, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.WriterThreads + cfg.ReaderThreads, GlobalDuration: time.Since(globalStart), Threads: all}, nil
}

// RunQoS implements spec.md §4.7's QoS workload: point-query threads run
// has_edge while scan threads run edges, both sharing one snapshot.
func RunQoS(ctx context.Context, backend Backend, cfg *Config, searchStream, scanStream []Operation, logger *zap.Logger) (*Results, error) {
	shared := backend.NewReadSnapshot()

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()

	searchChunks := chunk(searchStream, cfg.NumThreadsSearch)
	searchResults := make([]ThreadResult, len(searchChunks))
	for i, c := range searchChunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			var done uint64
			for _, op := range c {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				shared.HasEdge(op.Source, op.Destination)
				done++
			}
			searchResults[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done}
			return nil
		})
	}

	scanChunks := chunk(scanStream, cfg.NumThreadsScan)
	scanResults := make([]ThreadResult, len(scanChunks))
	for i, c := range scanChunks {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			var done uint64
			for _, op := range c {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				n, err := shared.Edges(op.Source, func(core.DestID, float64) bool { return true })
				if err == nil {
					done += uint64(n)
				}
			}
			scanResults[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: done}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("qos workload finished", zap.Int("search_threads", len(searchResults)), zap.Int("scan_threads", len(scanResults)))
	all := append([]ThreadResult{}, searchResults...)
	all = append(all, scanResults...)
	return &Results{WorkloadType: OpQoS, TargetStreamType: cfg.TargetStreamType,
		NumThreads: cfg.NumThreadsSearch + cfg.NumThreadsScan, GlobalDuration: time.Since(globalStart), Threads: all}, nil
}

// RunQuery implements spec.md §4.7's Query workload: runs one of
// {BFS, SSSP, PageRank, WCC, TriangleCount, TriangleCountIter} against a
// shared snapshot, once per thread in the given thread count.
func RunQuery(ctx context.Context, backend Backend, cfg *Config, op OpType, threads int, logger *zap.Logger) (*Results, error) {
	shared := backend.NewReadSnapshot()

	g, gCtx := errgroup.WithContext(ctx)
	globalStart := time.Now()
	results := make([]ThreadResult, threads)
	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}
			start := time.Now()
			if err := runKernel(shared, cfg, op); err != nil {
				logger.Warn("query kernel failed", zap.Int("thread", i), zap.Error(err))
			}
			results[i] = ThreadResult{ThreadIndex: i, Duration: time.Since(start), OpsDone: 1}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Results{WorkloadType: op, TargetStreamType: cfg.TargetStreamType,
		NumThreads: threads, GlobalDuration: time.Since(globalStart), Threads: results}, nil
}

func runKernel(s *snapshot.Snapshot, cfg *Config, op OpType) error {
	switch op {
	case OpBFS:
		_, err := kernels.BFS(s, cfg.BFSSource)
		return err
	case OpSSSP:
		_, err := kernels.SSSP(s, cfg.SSSPSource)
		return err
	case OpPageRank:
		kernels.PageRank(s, cfg.NumIterations, cfg.DampingFactor)
		return nil
	case OpWCC:
		kernels.WCC(s)
		return nil
	case OpTC:
		kernels.TriangleCount(s)
		return nil
	case OpTCOp:
		kernels.TriangleCountIter(s)
		return nil
	default:
		return nil
	}
}
