// File: execute.go
// Role: Execute is the harness's single dispatch entry point (spec.md
// §4.7): given a Config naming one workload_type and the decoded
// operation streams it needs, run that workload against backend and
// return its Results. Concurrent/QoS/Mixed workloads need more than one
// stream, keyed by StreamKey so callers can pass exactly the Operation
// slices those workloads expect.
package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Execute runs cfg.WorkloadType against backend, pulling whichever
// entries of streams that workload needs. Stream decoding (parsing the
// .stream wire format spec.md §6 describes) is the caller's job; Execute
// only ever consumes already-decoded []Operation.
func Execute(ctx context.Context, backend Backend, cfg *Config, streams map[StreamKey][]Operation, logger *zap.Logger) (*Results, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.WorkloadType {
	case OpInsert, OpDelete:
		stream := streams[StreamKey{Type: cfg.WorkloadType, Stream: cfg.TargetStreamType}]
		return RunInsertDelete(ctx, backend, cfg, stream, logger)

	case OpBatchInsert:
		stream := streams[StreamKey{Type: OpInsert, Stream: cfg.TargetStreamType}]
		return RunBatchInsert(ctx, backend, cfg, stream, logger)

	case OpUpdate:
		stream := streams[StreamKey{Type: OpUpdate, Stream: cfg.TargetStreamType}]
		return RunUpdate(ctx, backend, cfg, stream, logger)

	case OpConcurrent:
		var writerStream []Operation
		var readerStreams [][]Operation
		for _, spec := range cfg.ConcurrentWorkloads {
			s := streams[StreamKey{Type: spec.WorkloadType, Stream: spec.TargetStream}]
			if spec.WorkloadType == OpInsert {
				writerStream = s
			} else {
				readerStreams = append(readerStreams, s)
			}
		}
		return RunConcurrent(ctx, backend, cfg, writerStream, readerStreams, logger)

	case OpMixed:
		stream := streams[StreamKey{Type: OpInsert, Stream: cfg.TargetStreamType}]
		return RunMixedReaderWriter(ctx, backend, cfg, stream, logger)

	case OpQoS:
		search := streams[StreamKey{Type: OpGetEdge, Stream: cfg.TargetStreamType}]
		scan := streams[StreamKey{Type: OpScanNeighbor, Stream: cfg.TargetStreamType}]
		return RunQoS(ctx, backend, cfg, search, scan, logger)

	case OpQuery:
		if len(cfg.QueryOperationTypes) == 0 || len(cfg.QueryNumThreads) == 0 {
			return nil, fmt.Errorf("driver: query workload requires QueryOperationTypes and QueryNumThreads")
		}
		op := cfg.QueryOperationTypes[0]
		threads := cfg.QueryNumThreads[0]
		return RunQuery(ctx, backend, cfg, op, threads, logger)

	default:
		if len(cfg.MbOperationTypes) > 0 {
			threads := cfg.InsertDeleteNumThreads
			if len(cfg.MicrobenchmarkThreads) > 0 {
				threads = cfg.MicrobenchmarkThreads[0]
			}
			var stream []Operation
			for _, ts := range cfg.MbTSTypes {
				stream = append(stream, streams[StreamKey{Type: cfg.MbOperationTypes[0], Stream: ts}]...)
			}
			return RunMicrobenchmark(ctx, backend, cfg, threads, stream, logger)
		}
		return nil, fmt.Errorf("driver: unsupported workload type %d", cfg.WorkloadType)
	}
}
