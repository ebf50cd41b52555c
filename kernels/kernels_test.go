package kernels

import (
	"testing"

	"github.com/katalvlaran/txgraph/container"
	"github.com/katalvlaran/txgraph/core"
	"github.com/katalvlaran/txgraph/edgeindex"
	"github.com/katalvlaran/txgraph/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildUndirected inserts both directions for each pair so kernels that
// assume an undirected adjacency (WCC, TC, PageRank) see a symmetric
// graph, matching how the driver feeds an undirected workload stream.
func buildUndirected(t *testing.T, pairs [][2]core.DestID, numVertices int) *snapshot.Snapshot {
	t.Helper()
	cfg := edgeindex.DefaultConfig()
	g := container.NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
	for i := 0; i < numVertices; i++ {
		g.InsertVertex(1)
	}
	for _, p := range pairs {
		_, err := g.InsertEdge(p[0], p[1], 1, 1)
		require.NoError(t, err)
		_, err = g.InsertEdge(p[1], p[0], 1, 1)
		require.NoError(t, err)
	}
	return snapshot.Open(g, 1)
}

func TestBFS_LineGraph(t *testing.T) {
	s := buildUndirected(t, [][2]core.DestID{{0, 1}, {1, 2}, {2, 3}}, 4)
	res, err := BFS(s, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.Distance[0])
	assert.Equal(t, uint64(1), res.Distance[1])
	assert.Equal(t, uint64(2), res.Distance[2])
	assert.Equal(t, uint64(3), res.Distance[3])
}

func TestBFS_MissingSource(t *testing.T) {
	s := buildUndirected(t, nil, 1)
	_, err := BFS(s, 99)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestSSSP_ShortestPathPrefersCheaperRoute(t *testing.T) {
	cfg := edgeindex.DefaultConfig()
	g := container.NewTwoPL(true, false, cfg, func() edgeindex.Index { return edgeindex.NewSortedArray(cfg) })
	for i := 0; i < 3; i++ {
		g.InsertVertex(1)
	}
	_, err := g.InsertEdge(0, 1, 10, 1)
	require.NoError(t, err)
	_, err = g.InsertEdge(0, 2, 1, 1)
	require.NoError(t, err)
	_, err = g.InsertEdge(2, 1, 1, 1)
	require.NoError(t, err)

	s := snapshot.Open(g, 1)
	res, err := SSSP(s, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Distance[1])
	assert.Equal(t, 1.0, res.Distance[2])
}

func TestWCC_TwoComponents(t *testing.T) {
	s := buildUndirected(t, [][2]core.DestID{{0, 1}, {2, 3}}, 5)
	res := WCC(s)
	assert.Equal(t, 3, res.NumComps)
	assert.Equal(t, res.Component[0], res.Component[1])
	assert.Equal(t, res.Component[2], res.Component[3])
	assert.NotEqual(t, res.Component[0], res.Component[2])
	assert.NotEqual(t, res.Component[0], res.Component[4])
}

func TestPageRank_ConservesTotalMass(t *testing.T) {
	s := buildUndirected(t, [][2]core.DestID{{0, 1}, {1, 2}, {2, 0}}, 3)
	res := PageRank(s, 20, 0.85)
	total := 0.0
	for _, r := range res.Rank {
		total += r
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestTriangleCount_SingleTriangle(t *testing.T) {
	s := buildUndirected(t, [][2]core.DestID{{0, 1}, {1, 2}, {2, 0}}, 3)
	assert.Equal(t, 1, TriangleCount(s))
	assert.Equal(t, 1, TriangleCountIter(s))
}

func TestTriangleCount_NoTriangleOnPath(t *testing.T) {
	s := buildUndirected(t, [][2]core.DestID{{0, 1}, {1, 2}}, 3)
	assert.Equal(t, 0, TriangleCount(s))
	assert.Equal(t, 0, TriangleCountIter(s))
}
