package edgeindex

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptive_PromotesPastThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdaptiveThreshold = 4
	a := NewAdaptive(VariantPMA, cfg)

	for i := core.DestID(1); i <= 4; i++ {
		_, err := a.InsertEdge(i, 0, 1)
		require.NoError(t, err)
	}
	assert.False(t, a.Promoted())

	_, err := a.InsertEdge(5, 0, 1)
	require.NoError(t, err)
	assert.True(t, a.Promoted())
	assert.Equal(t, 5, a.Len())
	assert.True(t, a.HasEdge(1, 1))
	assert.True(t, a.HasEdge(5, 1))
}

func TestAdaptive_PreservesVersionHistoryAcrossPromotion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdaptiveThreshold = 2
	a := NewAdaptive(VariantSortedArray, cfg)

	_, err := a.InsertEdge(1, 1.0, 1)
	require.NoError(t, err)
	_, err = a.InsertEdge(1, 2.0, 5)
	require.NoError(t, err)

	_, err = a.InsertEdge(2, 0, 1)
	require.NoError(t, err)
	_, err = a.InsertEdge(3, 0, 1)
	require.NoError(t, err)
	require.True(t, a.Promoted())

	assert.True(t, a.HasEdge(1, 1))
	assert.True(t, a.HasEdge(1, 5))
	assert.False(t, a.HasEdge(1, 0))
}

func TestAdaptive_InitBulkPromotesImmediatelyWhenOversized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdaptiveThreshold = 3
	a := NewAdaptive(VariantSkipList, cfg)
	require.NoError(t, a.InitBulk([]core.DestID{5, 1, 3, 2, 4}, 0, 1))
	assert.True(t, a.Promoted())
	assert.Equal(t, 5, a.Len())
}
