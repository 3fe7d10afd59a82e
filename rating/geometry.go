package rating

import (
	"math"
	"sort"

	fim "github.com/fernando-aristizabal/inundation-mapping"
)

// GeomTable is the roughness-independent half of a synthetic rating curve:
// the hydraulic geometry swept over stage for one catchment, all SI. Holding
// it separate makes curve-from-roughness a cheap pure function, which is
// what the calibration search iterates on.
type GeomTable struct {
	RID           int
	Length, Slope float64
	Stage         []float64 // [m], ascending from 0
	Area          []float64 // inundated area [m²]
	BedArea       []float64 // wetted bed surface area [m²]
	Vol           []float64 // inundated volume [m³]
	ChFrac        []float64 // fraction of inundated area within the channel
	Degenerate    bool
}

// buildTable sweeps the stage increments over one catchment's HAND cells.
// Each increment only adds cells, so area and volume are non-decreasing by
// construction.
func buildTable(s *fim.Structure, p *fim.Partition, h *fim.Hand, k int, length, slope float64, cfg fim.Config) GeomTable {
	t := GeomTable{RID: p.Irch[k], Length: length, Slope: slope}

	// sorted HAND values with paired bed-surface factors
	cis := p.Cis[k]
	hs := make([]float64, 0, len(cis))
	sf := make([]float64, 0, len(cis))
	for _, i := range cis {
		if h.Rel[i] < 0. { // nodata
			continue
		}
		hs = append(hs, h.Rel[i])
		sf = append(sf, math.Sqrt(1.+math.Tan(s.Grad[i])*math.Tan(s.Grad[i])))
	}
	if len(hs) == 0 {
		t.Degenerate = true
		t.Stage = []float64{0.}
		t.Area = []float64{0.}
		t.BedArea = []float64{0.}
		t.Vol = []float64{0.}
		t.ChFrac = []float64{1.}
		return t
	}
	sort.Sort(&pairSort{hs, sf})

	// prefix sums over the sorted order
	ph := make([]float64, len(hs)+1) // Σ HAND
	ps := make([]float64, len(hs)+1) // Σ bed factor
	for i, v := range hs {
		ph[i+1] = ph[i] + v
		ps[i+1] = ps[i] + sf[i]
	}

	ca := s.CellArea()
	bf := cfg.Bankfull
	step := StageSI(cfg.StageStep, cfg.UnitSystem)
	max := StageSI(cfg.StageMax, cfg.UnitSystem)
	at := func(stage float64) (area, bed, vol float64) {
		n := sort.SearchFloat64s(hs, stage+1e-12) // inundated: HAND ≤ stage
		area = float64(n) * ca
		bed = ps[n] * ca
		vol = (stage*float64(n) - ph[n]) * ca
		return
	}

	for stage := 0.; stage <= max+1e-9; stage += step {
		area, bed, vol := at(stage)
		t.Stage = append(t.Stage, stage)
		t.Area = append(t.Area, area)
		t.BedArea = append(t.BedArea, bed)
		t.Vol = append(t.Vol, vol)
		chfrac := 1.
		if area > 0. && stage > bf {
			charea, _, _ := at(bf)
			chfrac = charea / area
		}
		t.ChFrac = append(t.ChFrac, chfrac)
	}
	return t
}

// Curve evaluates the Manning-type flow equation over the sweep at the given
// channel/overbank roughness, emitting the (stage, discharge, area, volume)
// table in the configured units. Discharge is clamped monotone: thinning
// overbank spread can dip the hydraulic radius, and the curve must stay
// invertible.
func (t *GeomTable) Curve(nch, nob float64, cfg fim.Config) Curve {
	c := Curve{
		RID:   t.RID,
		Stage: make([]float64, len(t.Stage)),
		Q:     make([]float64, len(t.Stage)),
		Area:  make([]float64, len(t.Stage)),
		Vol:   make([]float64, len(t.Stage)),
	}
	if t.Degenerate {
		c.Flag = CurveDegenerate
	}
	qlast := 0.
	for i, stage := range t.Stage {
		var q float64
		if t.Vol[i] > 0. && t.BedArea[i] > 0. && t.Length > 0. {
			xarea := t.Vol[i] / t.Length
			hr := t.Vol[i] / t.BedArea[i]
			n := CompositeN(nch, nob, t.ChFrac[i])
			q = ManningQ(xarea, hr, t.Slope, n, 1.)
		}
		if q < qlast {
			q = qlast
		}
		qlast = q
		c.Stage[i] = StageOut(stage, cfg.UnitSystem)
		c.Q[i] = FlowOut(q, cfg.UnitSystem)
		c.Area[i] = areaOut(t.Area[i], cfg.UnitSystem)
		c.Vol[i] = volOut(t.Vol[i], cfg.UnitSystem)
	}
	return c
}

type pairSort struct{ a, b []float64 }

func (p *pairSort) Len() int           { return len(p.a) }
func (p *pairSort) Less(i, j int) bool { return p.a[i] < p.a[j] }
func (p *pairSort) Swap(i, j int) {
	p.a[i], p.a[j] = p.a[j], p.a[i]
	p.b[i], p.b[j] = p.b[j], p.b[i]
}
