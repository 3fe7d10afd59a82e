package calib

import (
	"testing"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/hydrograph"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rectTable is a 1000 m rectangular channel, 10 m wide, on a .0004 slope:
// cross-section area 10·stage, hydraulic radius = stage, so discharge follows
// Manning's equation in closed form and the search target is unambiguous.
func rectTable(rid int) rating.GeomTable {
	t := rating.GeomTable{RID: rid, Length: 1000., Slope: .0004}
	const w, l = 10., 1000.
	for stage := 0.; stage <= 3.+1e-9; stage += .5 {
		t.Stage = append(t.Stage, stage)
		t.Area = append(t.Area, w*l)
		t.BedArea = append(t.BedArea, w*l)
		t.Vol = append(t.Vol, w*l*stage)
		t.ChFrac = append(t.ChFrac, 1.)
	}
	return t
}

func testCfg() fim.Config {
	cfg := fim.DefaultConfig()
	cfg.UnitSystem = fim.Metric
	cfg.Workers = 2
	return cfg
}

func emptyObs() *Observations {
	return &Observations{
		Gauges:     map[int][]Obs{},
		Recurrence: map[int][]float64{},
		Bankfull:   map[int]float64{},
		Manual:     map[int]Coefficients{},
	}
}

func TestCalibrateGauge(t *testing.T) {
	cfg := testCfg()
	tb := rectTable(101)

	// observed points generated at channel n = 0.05
	truth := tb.Curve(.05, .05, cfg)
	obs := emptyObs()
	obs.Gauges[101] = []Obs{
		{Stage: 1., Q: truth.QAt(1.)},
		{Stage: 2., Q: truth.QAt(2.)},
	}

	res := Calibrate([]rating.GeomTable{tb}, obs, nil, cfg)
	coef := res.Coefs[101]
	require.Equal(t, SourceGauge, coef.Source)
	assert.Zero(t, res.Nuncal)
	assert.Zero(t, res.Ndegen)

	// calibrated curve reproduces the observations within tolerance
	c := res.Curves[0]
	for _, p := range obs.Gauges[101] {
		assert.InEpsilon(t, p.Q, c.QAt(p.Stage), cfg.CalTol, "stage %f", p.Stage)
	}
	assert.InEpsilon(t, .05, coef.Nch, .1)
}

func TestCalibrateGaugeDeterministic(t *testing.T) {
	cfg := testCfg()
	tb := rectTable(101)
	truth := tb.Curve(.05, .05, cfg)
	obs := emptyObs()
	obs.Gauges[101] = []Obs{{Stage: 1.5, Q: truth.QAt(1.5)}}

	a := Calibrate([]rating.GeomTable{tb}, obs, nil, cfg)
	b := Calibrate([]rating.GeomTable{tb}, obs, nil, cfg)
	assert.Equal(t, a.Coefs[101], b.Coefs[101])
	assert.Equal(t, a.Curves[0].Q, b.Curves[0].Q)
}

func TestCalibrateManualWins(t *testing.T) {
	cfg := testCfg()
	tb := rectTable(101)
	obs := emptyObs()
	obs.Manual[101] = Coefficients{Nch: .03, Nob: .09, Source: SourceManual}
	// gauge data present too: the manual coefficients must still win
	obs.Gauges[101] = []Obs{{Stage: 1., Q: 99.}}

	res := Calibrate([]rating.GeomTable{tb}, obs, nil, cfg)
	coef := res.Coefs[101]
	assert.Equal(t, SourceManual, coef.Source)
	assert.Equal(t, .03, coef.Nch)
	assert.Equal(t, .09, coef.Nob)
	assert.Equal(t, tb.Curve(.03, .09, cfg).Q, res.Curves[0].Q)
}

func TestCalibrateReference(t *testing.T) {
	cfg := testCfg()
	tb := rectTable(101)
	obs := emptyObs()
	obs.Bankfull[101] = 4. // [m³/s]

	res := Calibrate([]rating.GeomTable{tb}, obs, nil, cfg)
	coef := res.Coefs[101]
	require.Equal(t, SourceReference, coef.Source)

	// the reference flow should land near the bankfull stage
	s, in := res.Curves[0].StageAt(4., true)
	assert.True(t, in)
	assert.InDelta(t, cfg.Bankfull, s, .15)

	// both coefficients scaled by a common factor
	assert.InDelta(t, cfg.NobDefault/cfg.NchDefault, coef.Nob/coef.Nch, 1e-9)
}

func TestCalibrateDefaultsUncalibrated(t *testing.T) {
	cfg := testCfg()
	res := Calibrate([]rating.GeomTable{rectTable(101)}, emptyObs(), nil, cfg)
	coef := res.Coefs[101]
	assert.Equal(t, SourceDefault, coef.Source)
	assert.Equal(t, cfg.NchDefault, coef.Nch)
	assert.Equal(t, 1, res.Nuncal)
	assert.Equal(t, rating.CurveUncalibrated, res.Curves[0].Flag)
}

func TestCalibrateDegenerate(t *testing.T) {
	cfg := testCfg()
	tb := rating.GeomTable{
		RID: 9, Length: 100., Slope: .001, Degenerate: true,
		Stage: []float64{0.}, Area: []float64{0.}, BedArea: []float64{0.},
		Vol: []float64{0.}, ChFrac: []float64{1.},
	}
	res := Calibrate([]rating.GeomTable{tb}, emptyObs(), nil, cfg)
	assert.Equal(t, 1, res.Ndegen)
	assert.Equal(t, rating.CurveDegenerate, res.Curves[0].Flag)
	assert.Equal(t, SourceDefault, res.Coefs[9].Source)
}

func TestAttachHWMs(t *testing.T) {
	cfg := testCfg() // buffer 70 m, marks attach within 280 m
	net, err := hydrograph.New([]*hydrograph.Reach{
		{ID: 3, DsID: -1, Geom: geom.LineString{{X: 0., Y: 0.}, {X: 1000., Y: 0.}}, Slope: .001},
		{ID: 8, DsID: -1, Geom: geom.LineString{{X: 0., Y: 5000.}, {X: 1000., Y: 5000.}}, Slope: .001},
	})
	require.NoError(t, err)

	obs := emptyObs()
	obs.Recurrence[3] = []float64{120., 800.}
	obs.HWM = []HighWaterMark{
		{X: 500., Y: 100., Stage: 4.2},  // 100 m off reach 3
		{X: 500., Y: 2500., Stage: 9.9}, // too far from either reach
		{X: 500., Y: 5050., Stage: 3.3}, // near reach 8, but no recurrence reference
	}

	out := attachHWMs(obs, net, cfg)
	require.Len(t, out, 1)
	require.Len(t, out[3], 1)
	assert.Equal(t, Obs{Stage: 4.2, Q: 800.}, out[3][0]) // paired with the rarest flow
}

func TestReferenceFlowPrecedence(t *testing.T) {
	obs := emptyObs()
	obs.Recurrence[5] = []float64{120., 800.}
	q, ok := referenceFlow(5, obs)
	require.True(t, ok)
	assert.Equal(t, 120., q) // most frequent recurrence

	obs.Bankfull[5] = 75.
	q, ok = referenceFlow(5, obs)
	require.True(t, ok)
	assert.Equal(t, 75., q) // bankfull wins where known

	_, ok = referenceFlow(6, obs)
	assert.False(t, ok)
}
