package snapshot

import (
	"testing"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwoPLGraph() *container.TwoPL {
	cfg := edgeindex.DefaultConfig()
	return container.NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
}

func TestSnapshot_SnapshotStability(t *testing.T) {
	g := newTwoPLGraph()
	for i := 0; i < 10; i++ {
		g.InsertVertex(1)
	}
	for dest := core.DestID(0); dest < 382; dest++ {
		_, err := g.InsertEdge(1, dest+1000, 0, 1)
		require.NoError(t, err)
	}

	s := Open(g, 1)
	deg, ok := s.GetDegree(1)
	require.True(t, ok)
	assert.Equal(t, uint64(382), deg)

	for extra := core.DestID(0); extra < 100; extra++ {
		_, err := g.InsertEdge(1, extra+5000, 0, 2)
		require.NoError(t, err)
	}

	deg, ok = s.GetDegree(1)
	require.True(t, ok)
	assert.Equal(t, uint64(382), deg, "snapshot must not observe writes after it was opened")

	n, err := s.Edges(1, func(core.DestID, float64) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 382, n)
}

func TestSnapshot_FlattenMatchesLiveReads(t *testing.T) {
	g := newTwoPLGraph()
	g.InsertVertex(1)
	g.InsertVertex(1)
	g.InsertVertex(1)
	_, err := g.InsertEdge(0, 1, 2.5, 1)
	require.NoError(t, err)
	_, err = g.InsertEdge(0, 2, 1.5, 1)
	require.NoError(t, err)

	s := Open(g, 1)
	s.Flatten()

	var seen []core.DestID
	n, err := s.Edges(0, func(dest core.DestID, _ float64) bool {
		seen = append(seen, dest)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []core.DestID{1, 2}, seen)
}

func TestSnapshot_EdgesOnMissingVertex(t *testing.T) {
	g := newTwoPLGraph()
	s := Open(g, 1)
	_, err := s.Edges(42, func(core.DestID, float64) bool { return true })
	assert.ErrorIs(t, err, core.ErrVertexMissing)
}

func TestSnapshot_CloneSharesCounts(t *testing.T) {
	g := newTwoPLGraph()
	g.InsertVertex(1)
	s := Open(g, 1)
	clone := s.Clone()
	assert.Equal(t, s.VertexCount(), clone.VertexCount())
	assert.Equal(t, s.Timestamp(), clone.Timestamp())
}

func TestSnapshot_CowCloneIsolatesRoot(t *testing.T) {
	g := container.NewCow(true, false, edgeindex.DefaultConfig())
	require.NoError(t, g.InsertVertex(0, 1))
	require.NoError(t, g.InsertVertex(1, 1))

	s := Open(g, 1)
	clone := s.Clone()

	_, err := g.InsertEdge(0, 1, 0, 2)
	require.NoError(t, err)

	assert.False(t, clone.HasEdge(0, 1))
}
