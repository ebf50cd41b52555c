package driver

import (
	"context"
	"testing"
	"time"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/katalvlaran/txgraph/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwoPLBackendWithVertices(t *testing.T, n int) (Backend, func()) {
	t.Helper()
	cfg := edgeindex.DefaultConfig()
	g := container.NewTwoPL(true, true, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
	mgr := txn.NewManager2PL(g, time.Hour, nil)
	w := mgr.GetWriteTransaction()
	for i := 0; i < n; i++ {
		require.NoError(t, w.InsertVertex())
	}
	_, err := w.Commit()
	require.NoError(t, err)
	b := NewTwoPLBackend(mgr, g)
	return b, func() { b.Close() }
}

func TestRunInsertDelete_AllEdgesApplied(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 4)
	defer closeFn()

	cfg := NewConfig(WithWorkload(OpInsert, StreamFull), WithInsertDeleteThreads(2), WithCheckpointSizes(2, 2, 2))
	stream := []Operation{
		{Type: OpInsert, Source: 0, Destination: 1, Weight: 1},
		{Type: OpInsert, Source: 0, Destination: 2, Weight: 1},
		{Type: OpInsert, Source: 1, Destination: 2, Weight: 1},
		{Type: OpInsert, Source: 1, Destination: 3, Weight: 1},
	}
	res, err := RunInsertDelete(context.Background(), b, &cfg, stream, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, len(res.Threads))

	snap := b.NewReadSnapshot()
	assert.True(t, snap.HasEdge(0, 1))
	assert.True(t, snap.HasEdge(1, 3))
}

func TestRunBatchInsert_SubChunks(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 3)
	defer closeFn()

	cfg := NewConfig(WithWorkload(OpBatchInsert, StreamFull), WithInsertDeleteThreads(1), WithBatchSize(1))
	stream := []Operation{
		{Type: OpInsert, Source: 0, Destination: 1, Weight: 1},
		{Type: OpInsert, Source: 0, Destination: 2, Weight: 1},
	}
	res, err := RunBatchInsert(context.Background(), b, &cfg, stream, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Threads[0].OpsDone)

	snap := b.NewReadSnapshot()
	assert.True(t, snap.HasEdge(0, 1))
	assert.True(t, snap.HasEdge(0, 2))
}

func TestRunUpdate_InsertThenRemoveCycles(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 2)
	defer closeFn()

	cfg := NewConfig(WithWorkload(OpUpdate, StreamFull), WithUpdateThreads(1, 3))
	stream := []Operation{{Type: OpUpdate, Source: 0, Destination: 1, Weight: 1}}
	res, err := RunUpdate(context.Background(), b, &cfg, stream, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Threads[0].OpsDone)

	snap := b.NewReadSnapshot()
	assert.False(t, snap.HasEdge(0, 1)) // last cycle's remove leaves no edge
}

func TestRunMicrobenchmark_ScanNeighborCountsCallbacks(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 3)
	defer closeFn()

	w := b.NewWriteTxn()
	require.NoError(t, w.InsertEdge(0, 1, 1))
	require.NoError(t, w.InsertEdge(0, 2, 1))
	_, err := w.Commit()
	require.NoError(t, err)

	cfg := NewConfig(WithWorkload(OpGetVertex, StreamFull), WithCheckpointSizes(1, 1, 1))
	stream := []Operation{{Type: OpScanNeighbor, Source: 0}}
	res, err := RunMicrobenchmark(context.Background(), b, &cfg, 1, stream, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Threads[0].OpsDone)
}

func TestRunQuery_BFS(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 3)
	defer closeFn()

	w := b.NewWriteTxn()
	require.NoError(t, w.InsertEdge(0, 1, 1))
	require.NoError(t, w.InsertEdge(1, 2, 1))
	_, err := w.Commit()
	require.NoError(t, err)

	cfg := NewConfig(WithWorkload(OpBFS, StreamFull), WithKernelParams(14, 24, 1, 5, 0.85, 0, 0))
	res, err := RunQuery(context.Background(), b, &cfg, OpBFS, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, len(res.Threads))
}

func TestResults_FormatLines(t *testing.T) {
	r := Results{
		GlobalDuration: 2 * time.Second,
		Threads: []ThreadResult{
			{ThreadIndex: 0, Duration: time.Second, OpsDone: 10},
		},
	}
	lines := r.FormatLines()
	assert.Contains(t, lines[0], "global duration")
	assert.Contains(t, lines, "thread 0 speed: 10.00")
}

func TestExecute_DispatchesInsert(t *testing.T) {
	b, closeFn := newTwoPLBackendWithVertices(t, 2)
	defer closeFn()

	cfg := NewConfig(WithWorkload(OpInsert, StreamFull), WithInsertDeleteThreads(1))
	streams := map[StreamKey][]Operation{
		{Type: OpInsert, Stream: StreamFull}: {{Type: OpInsert, Source: 0, Destination: 1, Weight: 1}},
	}
	res, err := Execute(context.Background(), b, &cfg, streams, nil)
	require.NoError(t, err)
	assert.Equal(t, OpInsert, res.WorkloadType)

	snap := b.NewReadSnapshot()
	assert.True(t, snap.HasEdge(0, 1))
}
