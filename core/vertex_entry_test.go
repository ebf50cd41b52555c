package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexEntry_DegreeChain(t *testing.T) {
	v := NewVertexEntry(1, 0, nil)
	assert.Equal(t, uint64(0), v.Degree(0))

	v.UpdateDegree(1, 5)
	v.UpdateDegree(2, 9)

	assert.Equal(t, uint64(0), v.Degree(4))
	assert.Equal(t, uint64(1), v.Degree(5))
	assert.Equal(t, uint64(1), v.Degree(8))
	assert.Equal(t, uint64(2), v.Degree(9))
	assert.Equal(t, uint64(2), v.Degree(100))
}

func TestVertexEntry_GC(t *testing.T) {
	v := NewVertexEntry(1, 0, nil)
	for ts := Timestamp(1); ts <= 50; ts++ {
		v.UpdateDegree(uint64(ts), ts)
	}
	v.GC(10)
	// Everything >= 10 survives, plus the newest entry below 10 (ts=9);
	// older entries are gone, so a read below ts=9 finds no degree.
	assert.Equal(t, uint64(9), v.Degree(9))
	assert.Equal(t, uint64(0), v.Degree(0))
	assert.Equal(t, uint64(30), v.Degree(30))
}
