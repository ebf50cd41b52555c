package edgeindex

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/txgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPMA_InsertAndEdgesOrdered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 8
	p := NewPMA(cfg)

	dests := []core.DestID{50, 10, 30, 20, 40}
	for _, d := range dests {
		_, err := p.InsertEdge(d, 0, 1)
		require.NoError(t, err)
	}
	var got []core.DestID
	p.Edges(1, func(d core.DestID, _ float64) bool {
		got = append(got, d)
		return true
	})
	assert.Equal(t, []core.DestID{10, 20, 30, 40, 50}, got)
}

func TestPMA_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 16
	p := NewPMA(cfg)
	src := rand.New(rand.NewSource(1))
	seen := map[core.DestID]bool{}
	var dests []core.DestID
	for len(dests) < 500 {
		d := core.DestID(src.Intn(100000))
		if !seen[d] {
			seen[d] = true
			dests = append(dests, d)
		}
	}
	require.NoError(t, p.InitBulk(dests, 0, 1))

	var got []core.DestID
	n := p.Edges(1, func(d core.DestID, _ float64) bool {
		got = append(got, d)
		return true
	})
	assert.Equal(t, len(dests), n)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

func TestPMA_DensityUnderThresholdAfterManyInserts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 64
	p := NewPMA(cfg)

	src := rand.New(rand.NewSource(7))
	seen := map[core.DestID]bool{}
	inserted := 0
	for inserted < 10000 {
		d := core.DestID(src.Intn(1 << 30))
		if seen[d] {
			continue
		}
		seen[d] = true
		_, err := p.InsertEdge(d, 0, core.Timestamp(inserted+1))
		require.NoError(t, err)
		inserted++
	}

	assert.GreaterOrEqual(t, p.capacity(), uint64(1024*8))

	for lvl := uint64(0); lvl <= p.levels(); lvl++ {
		windowSegs := uint64(1) << lvl
		if windowSegs > uint64(len(p.segments)) {
			break
		}
		threshold := p.upperThresholdAt(lvl)
		for start := uint64(0); start+windowSegs <= uint64(len(p.segments)); start += windowSegs {
			var total uint64
			for i := start; i < start+windowSegs; i++ {
				total += p.sizes[i]
			}
			density := float64(total) / float64(windowSegs*p.segmentSize)
			assert.LessOrEqual(t, density, threshold+1e-9)
		}
	}
}

func TestPMA_Intersect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 8
	a := NewPMA(cfg)
	b := NewPMA(cfg)
	for i := core.DestID(1); i <= 255; i += 2 {
		_, err := a.InsertEdge(i, 0, 1)
		require.NoError(t, err)
		_, err = b.InsertEdge(i, 0, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 128, a.Intersect(b, 1))
}
