package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionChain_CheckVersion(t *testing.T) {
	c := NewVersionChain(10)
	require.NoError(t, c.UpdateVersion(20))
	require.NoError(t, c.UpdateVersion(30))

	assert.False(t, c.CheckVersion(5))
	assert.True(t, c.CheckVersion(10))
	assert.True(t, c.CheckVersion(15))
	assert.True(t, c.CheckVersion(100))
}

func TestVersionChain_UpdateVersion_RejectsNonIncreasing(t *testing.T) {
	c := NewVersionChain(10)
	require.NoError(t, c.UpdateVersion(20))

	err := c.UpdateVersion(20)
	assert.ErrorIs(t, err, ErrInvalidTimestampOrder)

	err = c.UpdateVersion(5)
	assert.ErrorIs(t, err, ErrInvalidTimestampOrder)
}

func TestVersionChain_IsNewestAt(t *testing.T) {
	c := NewVersionChain(10)
	require.NoError(t, c.UpdateVersion(20))

	assert.False(t, c.IsNewestAt(15))
	assert.True(t, c.IsNewestAt(20))
	assert.True(t, c.IsNewestAt(50))
}

func TestVersionChain_GC_KeepsAllWhenNoneBelowSafe(t *testing.T) {
	c := NewVersionChain(6)
	for ts := Timestamp(7); ts <= 100; ts++ {
		require.NoError(t, c.UpdateVersion(ts))
	}
	require.Equal(t, 95, c.Len())

	c.GC(5) // safeT below every recorded commit: everything stays live
	assert.Equal(t, 95, c.Len())
}

func TestVersionChain_GC_TrimsToSingleEntry(t *testing.T) {
	c := NewVersionChain(1)
	for ts := Timestamp(6); ts <= 100; ts++ {
		require.NoError(t, c.UpdateVersion(ts))
	}
	// No reader will ever ask for a timestamp below 101: every version is
	// below safeT, so only the newest of them (100) survives.
	c.GC(101)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.CheckVersion(100))
	assert.False(t, c.CheckVersion(99))
}

func TestBeginEnd_Visibility(t *testing.T) {
	b := NewBeginEnd(10)
	assert.True(t, b.IsNewestAt(50))
	assert.False(t, b.CheckVersion(5))
	assert.True(t, b.CheckVersion(10))
	assert.True(t, b.CheckVersion(1000))

	require.NoError(t, b.UpdateVersion(20))
	assert.False(t, b.CheckVersion(20))
	assert.True(t, b.CheckVersion(19))
	assert.False(t, b.IsNewestAt(25))
}

func TestBeginEnd_CannotReopen(t *testing.T) {
	b := NewBeginEnd(10)
	require.NoError(t, b.UpdateVersion(20))
	assert.ErrorIs(t, b.UpdateVersion(30), ErrInvalidTimestampOrder)
}

func TestEdgeEntry_Less(t *testing.T) {
	a := NewEdgeEntry(1, 0, 1)
	b := NewEdgeEntry(2, 0, 1)
	assert.True(t, a.Less(&b))
	assert.False(t, b.Less(&a))
}
