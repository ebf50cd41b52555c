package container

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCowContainer_BasicScenario(t *testing.T) {
	c := NewCow(true, false, edgeindex.DefaultConfig())
	require.NoError(t, c.InsertVertex(0, 1))
	require.NoError(t, c.InsertVertex(1, 1))
	require.NoError(t, c.InsertVertex(3, 1))

	assert.Equal(t, 3, c.VertexCount())
	assert.True(t, c.HasVertex(3))

	inserted, err := c.InsertEdge(0, 1, 0, 2)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = c.InsertEdge(0, 3, 0, 2)
	require.NoError(t, err)
	assert.True(t, inserted)

	deg, ok := c.GetDegree(0, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), deg)
	assert.True(t, c.HasEdge(0, 1, 2))
	assert.Equal(t, 2, c.EdgeCount())

	err = c.InsertVertex(0, 5)
	assert.ErrorIs(t, err, core.ErrVertexExists)
}

func TestCowContainer_InsertEdgeBatch(t *testing.T) {
	c := NewCow(true, false, edgeindex.DefaultConfig())
	for _, id := range []core.DestID{0, 1, 2} {
		require.NoError(t, c.InsertVertex(id, 1))
	}

	n, err := c.InsertEdgeBatch([]EdgePair{
		{Src: 0, Dest: 1},
		{Src: 0, Dest: 2},
		{Src: 1, Dest: 2},
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, c.HasEdge(0, 1, 2))
	assert.True(t, c.HasEdge(1, 2, 2))
}

func TestCowContainer_InsertEdgeBatch_MissingSource(t *testing.T) {
	c := NewCow(true, false, edgeindex.DefaultConfig())
	require.NoError(t, c.InsertVertex(0, 1))
	_, err := c.InsertEdgeBatch([]EdgePair{{Src: 0, Dest: 1}, {Src: 9, Dest: 1}}, 2)
	assert.ErrorIs(t, err, core.ErrVertexMissing)
}

func TestCowContainer_RemoveEdgeNotImplemented(t *testing.T) {
	c := NewCow(true, false, edgeindex.DefaultConfig())
	require.NoError(t, c.InsertVertex(0, 1))
	require.NoError(t, c.InsertVertex(1, 1))
	_, err := c.InsertEdge(0, 1, 0, 2)
	require.NoError(t, err)

	err = c.RemoveEdge(0, 1, 3)
	assert.ErrorIs(t, err, core.ErrFunctionNotImplemented)
	assert.True(t, c.HasEdge(0, 1, 3))
}

func TestCowContainer_SnapshotIsolationAcrossWrite(t *testing.T) {
	c := NewCow(true, false, edgeindex.DefaultConfig())
	require.NoError(t, c.InsertVertex(0, 1))
	require.NoError(t, c.InsertVertex(1, 1))

	rootBefore := c.vi.Clone() // stand-in for a snapshot taken before the write

	_, err := c.InsertEdge(0, 1, 0, 2)
	require.NoError(t, err)

	entryBefore, ok := rootBefore.GetEntry(0)
	require.True(t, ok)
	assert.False(t, entryBefore.Neighbor.(*edgeindex.PAM).HasEdge(1, 2))
	assert.True(t, c.HasEdge(0, 1, 2))
}
