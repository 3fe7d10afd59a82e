package fim

import (
	"testing"

	"github.com/maseology/mmaths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainStructure builds a single flow path of n cells, most upstream first,
// cell ids offset to 100 and centres spaced cw apart.
func chainStructure(n int, cw float64, z []float64) *Structure {
	s := &Structure{
		Cids:  make([]int, n),
		Ds:    make([]int, n),
		Upcnt: make([]int, n),
		Grad:  make([]float64, n),
		Z:     z,
		Coord: make([]mmaths.Point, n),
		Cw:    cw,
		Nc:    n,
	}
	for i := 0; i < n; i++ {
		s.Cids[i] = 100 + i
		s.Ds[i] = i + 1
		s.Upcnt[i] = i
		s.Coord[i] = mmaths.Point{X: float64(i) * cw}
	}
	s.Ds[n-1] = -1
	return s
}

func TestDelineateChain(t *testing.T) {
	// cells 0..3 drain to stream cell 4 (reach 101), cell 5 is stream of reach 55
	s := chainStructure(6, 10., []float64{15., 14., 13., 12., 2., 1.})
	strm := map[int]int{104: 101, 105: 55}

	p := Delineate(s, strm)
	require.Equal(t, 2, p.Ncatch())
	assert.Equal(t, []int{55, 101}, p.Irch)

	// cells inherit the first drainage cell on their flow path
	k101 := 1
	for i := 0; i <= 4; i++ {
		assert.Equal(t, k101, p.Sid[i], "cell %d", i)
	}
	assert.Equal(t, 0, p.Sid[5])
	assert.True(t, p.Strm[4])
	assert.True(t, p.Strm[5])
	assert.False(t, p.Strm[3])
	assert.Zero(t, p.Ngap)

	// flowpath distance accumulates cell by cell
	assert.InDelta(t, 0., p.Dist[4], 1e-9)
	assert.InDelta(t, 10., p.Dist[3], 1e-9)
	assert.InDelta(t, 40., p.Dist[0], 1e-9)

	// membership is the inverse of the labels
	assert.ElementsMatch(t, []int{5}, p.Cis[0])
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, p.Cis[1])
}

func TestDelineateGap(t *testing.T) {
	// last cell drains off-unit without ever touching drainage
	s := chainStructure(3, 10., []float64{5., 4., 3.})
	p := Delineate(s, map[int]int{})
	assert.Equal(t, 3, p.Ngap)
	for i := 0; i < 3; i++ {
		assert.Equal(t, -1, p.Sid[i])
	}

	// one isolated headwater beside a drained chain
	s = chainStructure(4, 10., []float64{5., 4., 3., 2.})
	s.Ds[0] = -1 // disconnect the head cell
	p = Delineate(s, map[int]int{103: 9})
	assert.Equal(t, 1, p.Ngap)
	assert.Equal(t, -1, p.Sid[0])
	assert.Equal(t, 0, p.Sid[1])
}

func TestDelineateTieLowestReach(t *testing.T) {
	// rasterization already broke shared-cell ties toward the lowest id;
	// catchment indexing must keep reach ids ascending either way
	s := chainStructure(2, 10., []float64{2., 1.})
	p := Delineate(s, map[int]int{100: 12, 101: 7})
	assert.Equal(t, []int{7, 12}, p.Irch)
	assert.Equal(t, 1, p.Sid[0])
	assert.Equal(t, 0, p.Sid[1])
}
