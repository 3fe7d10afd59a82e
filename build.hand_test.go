package fim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHANDChain(t *testing.T) {
	s := chainStructure(5, 10., []float64{8., 6., 5., 3., 2.})
	p := Delineate(s, map[int]int{103: 7, 104: 7})
	h := BuildHAND(s, p)

	// drainage cells sit exactly on the floor
	assert.Equal(t, 0., h.Rel[3])
	assert.Equal(t, 0., h.Rel[4])

	// upslope cells measure against the drainage their flow path reaches
	assert.InDelta(t, 2., h.Rel[2], 1e-9) // 5 - 3
	assert.InDelta(t, 3., h.Rel[1], 1e-9)
	assert.InDelta(t, 5., h.Rel[0], 1e-9)
	for _, r := range h.Rel {
		assert.GreaterOrEqual(t, r, 0.)
	}
}

func TestBuildHANDCrossCatchmentFallback(t *testing.T) {
	// two reaches on one flow path: catchment 1's cells upstream of its own
	// drainage measure within catchment 1 even though flow continues into 0
	s := chainStructure(6, 10., []float64{9., 8., 4., 3., 2., 1.})
	p := Delineate(s, map[int]int{102: 44, 104: 11, 105: 11})
	require.Equal(t, []int{11, 44}, p.Irch)

	h := BuildHAND(s, p)
	assert.Equal(t, 0., h.Rel[2])
	assert.InDelta(t, 4., h.Rel[1], 1e-9) // 8 - 4, not 8 - 2
	assert.InDelta(t, 5., h.Rel[0], 1e-9)

	// cell 3 belongs to catchment 0 but its downslope floor came through
	// its own catchment's drainage
	assert.InDelta(t, 1., h.Rel[3], 1e-9)
}

func TestBuildHANDUnassignedNodata(t *testing.T) {
	s := chainStructure(3, 10., []float64{5., 4., 3.})
	s.Ds[0] = -1
	p := Delineate(s, map[int]int{102: 2})
	h := BuildHAND(s, p)
	assert.Equal(t, nodata, h.Rel[0])
	assert.GreaterOrEqual(t, h.Rel[1], 0.)
}

func TestBuildHANDNeverNegative(t *testing.T) {
	// conditioning noise can leave a cell below its drainage; HAND floors at 0
	s := chainStructure(3, 10., []float64{1., 4., 3.})
	p := Delineate(s, map[int]int{102: 5})
	h := BuildHAND(s, p)
	assert.Equal(t, 0., h.Rel[0])
}

func TestFillPits(t *testing.T) {
	s := chainStructure(4, 10., []float64{10., 2., 5., 1.})
	s.fillPits(.001)
	assert.InDelta(t, 1., s.Z[3], 1e-12)
	assert.InDelta(t, 5., s.Z[2], 1e-12)
	assert.InDelta(t, 5.001, s.Z[1], 1e-12) // raised out of the pit
	assert.InDelta(t, 10., s.Z[0], 1e-12)
	for i := 0; i < s.Nc-1; i++ {
		assert.Greater(t, s.Z[i], s.Z[s.Ds[i]])
	}
}
