package txn

import (
	"testing"
	"time"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwoPLManager() (*Manager2PL, *container.TwoPL) {
	cfg := edgeindex.DefaultConfig()
	g := container.NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
	return NewManager2PL(g, time.Hour, nil), g
}

func TestManager2PL_BasicCommit(t *testing.T) {
	m, g := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	ts, err := w.Commit()
	require.NoError(t, err)
	assert.Equal(t, core.Timestamp(1), ts)
	assert.Equal(t, 3, g.VertexCount())

	w2 := m.GetWriteTransaction()
	require.NoError(t, w2.InsertEdge(0, 1, 0))
	require.NoError(t, w2.InsertEdge(0, 2, 0))
	ts2, err := w2.Commit()
	require.NoError(t, err)

	r := m.GetReadTransaction()
	defer r.Close()
	assert.True(t, r.HasEdge(0, 1))
	deg, ok := r.GetDegree(0)
	require.True(t, ok)
	assert.Equal(t, uint64(2), deg)
	assert.Equal(t, core.Timestamp(2), ts2)
}

func TestManager2PL_CommitMissingSourceAborts(t *testing.T) {
	m, _ := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertEdge(99, 1, 0))
	_, err := w.Commit()
	assert.ErrorIs(t, err, core.ErrVertexMissing)
}

func TestManager2PL_BatchCommitGroupsBySource(t *testing.T) {
	m, g := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	_, err := w.Commit()
	require.NoError(t, err)

	w2 := m.GetWriteTransaction()
	require.NoError(t, w2.InsertEdge(0, 1, 0))
	require.NoError(t, w2.InsertEdge(0, 2, 0))
	require.NoError(t, w2.InsertEdge(1, 2, 0))
	_, err = w2.Commit()
	require.NoError(t, err)

	assert.Equal(t, 3, g.EdgeCount())
	deg, _ := g.GetDegree(0, 100)
	assert.Equal(t, uint64(2), deg)
}

func TestManager2PL_ReadTransactionSnapshotStable(t *testing.T) {
	m, _ := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	_, err := w.Commit()
	require.NoError(t, err)

	w2 := m.GetWriteTransaction()
	require.NoError(t, w2.InsertEdge(0, 1, 0))
	ts2, err := w2.Commit()
	require.NoError(t, err)

	r := m.GetReadTransaction()
	defer r.Close()
	assert.Equal(t, ts2, r.Timestamp())
	assert.True(t, r.HasEdge(0, 1))
}

func TestManager2PL_RemoveEdge(t *testing.T) {
	m, g := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	_, err := w.Commit()
	require.NoError(t, err)

	w2 := m.GetWriteTransaction()
	require.NoError(t, w2.InsertEdge(0, 1, 0))
	_, err = w2.Commit()
	require.NoError(t, err)
	assert.True(t, g.HasEdge(0, 1, 100))

	w3 := m.GetWriteTransaction()
	require.NoError(t, w3.RemoveEdge(0, 1))
	_, err = w3.Commit()
	require.NoError(t, err)
	assert.False(t, g.HasEdge(0, 1, 100))
}

func TestManager2PL_Abort(t *testing.T) {
	m, g := newTwoPLManager()
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	w.Abort()

	w2 := m.GetWriteTransaction()
	require.NoError(t, w2.InsertVertex())
	_, err := w2.Commit()
	require.NoError(t, err)
	assert.Equal(t, 1, g.VertexCount())
}

func TestManager2PL_ReclaimerKeepsLatestEdgeVisible(t *testing.T) {
	cfg := edgeindex.DefaultConfig()
	g := container.NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
	m := NewManager2PL(g, 5*time.Millisecond, nil)
	defer m.Close()

	w := m.GetWriteTransaction()
	require.NoError(t, w.InsertVertex())
	require.NoError(t, w.InsertVertex())
	_, err := w.Commit()
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		w := m.GetWriteTransaction()
		require.NoError(t, w.InsertEdge(0, 1, 0))
		_, err := w.Commit()
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return g.HasEdge(0, 1, 100)
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, g.EdgeCount())
}
