package render

import (
	"path/filepath"
	"testing"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twinCatchments is a 9-cell unit split between reaches 11 and 22, with one
// cell left unassigned (index 8).
func twinCatchments() (*fim.Structure, *fim.Partition, *fim.Hand) {
	nc := 9
	s := &fim.Structure{Cids: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, Cw: 10., Nc: nc}
	p := &fim.Partition{
		Irch: []int{11, 22},
		Sid:  []int{0, 0, 0, 0, 1, 1, 1, 1, -1},
		Cis:  [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
		Strm: []bool{true, false, false, false, true, false, false, false, false},
		Dist: make([]float64, nc),
		Ngap: 1,
	}
	h := &fim.Hand{Rel: []float64{0., .5, 1., 2., 0., 1., 2., 3., -9999.}}
	return s, p, h
}

func twinCurves() []rating.Curve {
	stage := []float64{0., 1., 2., 3.}
	return []rating.Curve{
		{RID: 11, Stage: stage, Q: []float64{0., 10., 25., 45.}},
		{RID: 22, Stage: stage, Q: []float64{0., 8., 20., 36.}},
	}
}

func testCfg() fim.Config {
	cfg := fim.DefaultConfig()
	cfg.UnitSystem = fim.Metric
	cfg.Workers = 2
	return cfg
}

func TestInundateZeroForecast(t *testing.T) {
	s, p, h := twinCatchments()
	res := Inundate(s, p, h, twinCurves(), Forecast{}, testCfg())
	assert.Zero(t, res.Ninund)
	for i, d := range res.Depth {
		if p.Sid[i] < 0 {
			assert.Equal(t, nodata, d)
		} else {
			assert.Equal(t, 0., d)
		}
	}
}

func TestInundateDepths(t *testing.T) {
	s, p, h := twinCatchments()
	// 10 m³/s on reach 11 inverts to stage 1 m
	res := Inundate(s, p, h, twinCurves(), Forecast{11: 10.}, testCfg())

	assert.InDelta(t, 1., res.Stages[11], 1e-9)
	assert.Equal(t, 0., res.Stages[22])
	assert.Empty(t, res.OutOfRange)

	assert.InDelta(t, 1., res.Depth[0], 1e-9) // drainage cell, HAND 0
	assert.InDelta(t, .5, res.Depth[1], 1e-9)
	assert.Equal(t, 0., res.Depth[2]) // HAND 1: stage-HAND is not positive
	assert.Equal(t, 0., res.Depth[3])
	for _, i := range p.Cis[1] { // the dry catchment stays dry
		assert.Equal(t, 0., res.Depth[i])
	}
	assert.Equal(t, nodata, res.Depth[8])
	assert.Equal(t, 2, res.Ninund)
}

func TestInundateOutOfRange(t *testing.T) {
	s, p, h := twinCatchments()
	cfg := testCfg()
	cfg.CapOverMax = true
	res := Inundate(s, p, h, twinCurves(), Forecast{22: 9999.}, cfg)
	assert.Equal(t, []int{22}, res.OutOfRange)
	assert.InDelta(t, 3., res.Stages[22], 1e-9) // capped at the table maximum
}

func TestInundateDeterministic(t *testing.T) {
	s, p, h := twinCatchments()
	f := Forecast{11: 10., 22: 20.}
	a := Inundate(s, p, h, twinCurves(), f, testCfg())
	b := Inundate(s, p, h, twinCurves(), f, testCfg())
	assert.Equal(t, a.Depth, b.Depth)
	assert.Equal(t, a.Stages, b.Stages)
	assert.Equal(t, a.Ninund, b.Ninund)
}

func TestMosaicOrderIndependent(t *testing.T) {
	_, p, _ := twinCatchments()
	t1 := tile{cells: []int{1, 2}, depth: []float64{.5, .2}}
	t2 := tile{cells: []int{2, 5}, depth: []float64{.7, .1}}

	a := mosaic(9, p, []tile{t1, t2})
	b := mosaic(9, p, []tile{t2, t1})
	assert.Equal(t, a, b)
	assert.Equal(t, .7, a[2]) // max depth wins on overlap
}

func TestWriteExtent(t *testing.T) {
	s, p, h := twinCatchments()
	res := Inundate(s, p, h, twinCurves(), Forecast{11: 10.}, testCfg())

	dir := t.TempDir()
	require.NoError(t, WriteDepth(filepath.Join(dir, "d.bil"), &fim.Structure{Nc: s.Nc}, res.Depth))
	require.NoError(t, WriteExtent(filepath.Join(dir, "e.bil"), &fim.Structure{Nc: s.Nc}, res.Depth))
}
