package container

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSortedArrayTwoPL() *TwoPL {
	cfg := edgeindex.DefaultConfig()
	return NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
}

func TestTwoPL_BasicScenario(t *testing.T) {
	c := newSortedArrayTwoPL()
	v0 := c.InsertVertex(1)
	v1 := c.InsertVertex(1)
	v2 := c.InsertVertex(1)
	assert.Equal(t, core.DestID(0), v0)
	assert.Equal(t, core.DestID(2), v2)
	assert.Equal(t, 3, c.VertexCount())

	inserted, err := c.InsertEdge(v0, v1, 0, 2)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = c.InsertEdge(v0, v2, 0, 2)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.True(t, c.HasVertex(v0))
	deg, ok := c.GetDegree(v0, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), deg)
	assert.True(t, c.HasEdge(v0, v1, 2))
	assert.Equal(t, 2, c.EdgeCount())
}

func TestTwoPL_InsertEdge_MissingSource(t *testing.T) {
	c := newSortedArrayTwoPL()
	_, err := c.InsertEdge(0, 1, 0, 1)
	assert.ErrorIs(t, err, core.ErrVertexMissing)
}

func TestTwoPL_InsertEdgeBatch_GroupsBySource(t *testing.T) {
	c := newSortedArrayTwoPL()
	for i := 0; i < 3; i++ {
		c.InsertVertex(1)
	}
	n, err := c.InsertEdgeBatch([]EdgePair{
		{Src: 0, Dest: 1, Weight: 0},
		{Src: 0, Dest: 2, Weight: 0},
		{Src: 1, Dest: 2, Weight: 0},
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	deg, _ := c.GetDegree(0, 2)
	assert.Equal(t, uint64(2), deg)
	assert.Equal(t, 3, c.EdgeCount())
}

func TestTwoPL_Intersect(t *testing.T) {
	c := newSortedArrayTwoPL()
	c.InsertVertex(1)
	c.InsertVertex(1)
	for i := core.DestID(1); i <= 255; i += 2 {
		_, err := c.InsertEdge(0, i, 0, 1)
		require.NoError(t, err)
		_, err = c.InsertEdge(1, i, 0, 1)
		require.NoError(t, err)
	}
	n, err := c.Intersect(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 128, n)
}

func TestTwoPL_RemoveEdge(t *testing.T) {
	c := newSortedArrayTwoPL()
	c.InsertVertex(1)
	c.InsertVertex(1)
	_, err := c.InsertEdge(0, 1, 0, 1)
	require.NoError(t, err)
	require.NoError(t, c.RemoveEdge(0, 1, 2))
	assert.False(t, c.HasEdge(0, 1, 2))
	assert.Equal(t, 0, c.EdgeCount())
}

func TestTwoPL_GCAll(t *testing.T) {
	c := newSortedArrayTwoPL()
	c.InsertVertex(1)
	c.InsertVertex(1)
	_, err := c.InsertEdge(0, 1, 0, 5)
	require.NoError(t, err)
	for ts := core.Timestamp(6); ts <= 100; ts++ {
		_, err := c.InsertEdge(0, 1, 0, ts)
		require.NoError(t, err)
	}
	c.GCAll(100)
	assert.True(t, c.HasEdge(0, 1, 100))
}
