package edgeindex

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedArray_InsertAndEdges(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	for _, d := range []core.DestID{5, 1, 3} {
		inserted, err := s.InsertEdge(d, 0, 1)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	var got []core.DestID
	n := s.Edges(1, func(d core.DestID, _ float64) bool {
		got = append(got, d)
		return true
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, []core.DestID{1, 3, 5}, got)
}

func TestSortedArray_InsertEdge_Idempotent(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	inserted, err := s.InsertEdge(1, 0, 1)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.InsertEdge(1, 0, 2)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 1, s.Len())
}

func TestSortedArray_Intersect(t *testing.T) {
	a := NewSortedArray(DefaultConfig())
	b := NewSortedArray(DefaultConfig())
	for i := core.DestID(1); i <= 255; i += 2 {
		_, err := a.InsertEdge(i, 0, 1)
		require.NoError(t, err)
		_, err = b.InsertEdge(i, 0, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 128, a.Intersect(b, 1))
}

func TestSortedArray_RoundTrip_InitBulk(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	input := []core.DestID{9, 2, 7, 2, 4}
	require.NoError(t, s.InitBulk(input, 0, 1))

	var got []core.DestID
	s.Edges(1, func(d core.DestID, _ float64) bool {
		got = append(got, d)
		return true
	})
	assert.Equal(t, []core.DestID{2, 4, 7, 9}, got)
}

func TestSortedArray_SnapshotStability(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	for i := core.DestID(1); i <= 10; i++ {
		_, err := s.InsertEdge(i, 0, 1)
		require.NoError(t, err)
	}
	snapTS := core.Timestamp(1)

	for i := core.DestID(11); i <= 20; i++ {
		_, err := s.InsertEdge(i, 0, 2)
		require.NoError(t, err)
	}

	count := s.Edges(snapTS, func(core.DestID, float64) bool { return true })
	assert.Equal(t, 10, count)
}

func TestSortedArray_RemoveEdge(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	_, err := s.InsertEdge(1, 0, 1)
	require.NoError(t, err)
	require.NoError(t, s.RemoveEdge(1, 2))
	assert.False(t, s.HasEdge(1, 2))
	// Removing an absent edge is a no-op, not an error.
	assert.NoError(t, s.RemoveEdge(99, 2))
}

func TestSortedArray_GC(t *testing.T) {
	s := NewSortedArray(DefaultConfig())
	_, err := s.InsertEdge(1, 0, 5)
	require.NoError(t, err)
	for ts := core.Timestamp(6); ts <= 100; ts++ {
		_, err := s.InsertEdge(1, 0, ts)
		require.NoError(t, err)
	}
	require.Equal(t, 96, s.entries[0].Chain.Len())
	s.GC(50)
	assert.LessOrEqual(t, s.entries[0].Chain.Len(), 52) // 100..50 plus 49, the newest below safeT
	assert.True(t, s.HasEdge(1, 100))
}
