package vertexindex

import (
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_InsertAssignsDenseIDs(t *testing.T) {
	v := NewVector()
	id0 := v.InsertVertex(nil, 1)
	id1 := v.InsertVertex(nil, 1)
	assert.Equal(t, core.DestID(0), id0)
	assert.Equal(t, core.DestID(1), id1)
	assert.True(t, v.HasVertex(0))
	assert.True(t, v.HasVertex(1))
	assert.False(t, v.HasVertex(2))
	assert.Equal(t, 2, v.VertexCount())
}

func TestVector_GetEntryAndNeighbor(t *testing.T) {
	v := NewVector()
	neighbor := "neighbor-placeholder"
	id := v.InsertVertex(neighbor, 3)

	entry, ok := v.GetEntry(id)
	require.True(t, ok)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, uint64(0), entry.Degree(3))

	n, ok := v.GetNeighbor(id)
	require.True(t, ok)
	assert.Equal(t, neighbor, n)

	_, ok = v.GetEntry(42)
	assert.False(t, ok)
}

func TestVector_Scan(t *testing.T) {
	v := NewVector()
	for i := 0; i < 5; i++ {
		v.InsertVertex(nil, 1)
	}
	var seen []core.DestID
	v.Scan(func(id core.DestID, _ *core.VertexEntry) bool {
		seen = append(seen, id)
		return true
	})
	assert.Equal(t, []core.DestID{0, 1, 2, 3, 4}, seen)
}

func TestVector_GC(t *testing.T) {
	v := NewVector()
	id := v.InsertVertex(nil, 1)
	entry, _ := v.GetEntry(id)
	entry.Lock()
	entry.UpdateDegree(1, 2)
	entry.UpdateDegree(2, 3)
	entry.Unlock()

	v.GC(3)
	assert.Equal(t, uint64(2), entry.Degree(10))
}
