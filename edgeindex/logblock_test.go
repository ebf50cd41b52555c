package edgeindex

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBlock_InsertAndHasEdge(t *testing.T) {
	l := NewLogBlock(DefaultConfig())
	inserted, err := l.InsertEdge(7, 1.5, 1)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, l.HasEdge(7, 1))
	assert.False(t, l.HasEdge(8, 1))
}

func TestLogBlock_InsertEdge_RevisesExisting(t *testing.T) {
	l := NewLogBlock(DefaultConfig())
	_, err := l.InsertEdge(7, 1.0, 1)
	require.NoError(t, err)

	inserted, err := l.InsertEdge(7, 2.0, 2)
	require.NoError(t, err)
	assert.False(t, inserted)

	var w float64
	l.Edges(2, func(d core.DestID, weight float64) bool {
		if d == 7 {
			w = weight
		}
		return true
	})
	assert.Equal(t, 2.0, w)
}

func TestLogBlock_SnapshotStability(t *testing.T) {
	l := NewLogBlock(DefaultConfig())
	for i := core.DestID(1); i <= 10; i++ {
		_, err := l.InsertEdge(i, 0, 1)
		require.NoError(t, err)
	}
	for i := core.DestID(11); i <= 20; i++ {
		_, err := l.InsertEdge(i, 0, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, 10, l.Edges(1, func(core.DestID, float64) bool { return true }))
	assert.Equal(t, 20, l.Edges(2, func(core.DestID, float64) bool { return true }))
}

func TestLogBlock_RemoveUnsupported(t *testing.T) {
	l := NewLogBlock(DefaultConfig())
	_, err := l.InsertEdge(1, 0, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, l.RemoveEdge(1, 2), core.ErrFunctionNotImplemented)
}

func TestLogBlock_FilterResizes(t *testing.T) {
	l := NewLogBlock(DefaultConfig())
	for i := core.DestID(0); i < 300; i++ {
		_, err := l.InsertEdge(i, 0, core.Timestamp(i+1))
		require.NoError(t, err)
	}
	for i := core.DestID(0); i < 300; i++ {
		assert.True(t, l.HasEdge(i, core.Timestamp(300)))
	}
}
