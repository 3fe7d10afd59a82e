package calib

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/hydrograph"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
	"github.com/ctessum/geom"
	"github.com/maseology/glbopt"
	"github.com/maseology/mmaths"
	"github.com/maseology/montecarlo/smpln"
	"github.com/maseology/objfunc"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
	"gonum.org/v1/gonum/stat"
)

// roughness search bounds
const (
	nchMin, nchMax = .01, .2
	nobMin, nobMax = .02, .5
	nLHC           = 24 // latin-hypercube pre-screen samples
)

// Result is the calibrated state of one unit: curve per reach, coefficients
// keyed by feature id, and the counts the unit summary reports.
type Result struct {
	Curves    []rating.Curve
	Coefs     map[int]Coefficients
	Nuncal    int
	Nlowconf  int
	Ndegen    int
	FitMedian float64 // median relative discharge error among searched reaches
}

// Calibrate adjusts each reach's channel/overbank roughness so its synthetic
// curve matches whatever observed data exists: manual coefficients win
// outright, gauge rating curves drive a two-dimensional search, reference
// flows a one-dimensional one, and reaches with nothing keep defaults,
// flagged uncalibrated. A search that cannot reach the configured tolerance
// within its evaluation budget keeps the best value found and is flagged
// low-confidence; it is never fatal.
func Calibrate(tbls []rating.GeomTable, obs *Observations, net *hydrograph.Network, cfg fim.Config) Result {
	res := Result{
		Curves: make([]rating.Curve, len(tbls)),
		Coefs:  make(map[int]Coefficients, len(tbls)),
	}
	coefs := make([]Coefficients, len(tbls))
	errs := make([]float64, len(tbls))
	hwmObs := attachHWMs(obs, net, cfg)

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	for k := range tbls {
		wg.Add(1)
		sem <- struct{}{}
		go func(k int) {
			defer wg.Done()
			res.Curves[k], coefs[k], errs[k] = calibrateReach(&tbls[k], obs, hwmObs, cfg)
			<-sem
		}(k)
	}
	wg.Wait()

	fits := make([]float64, 0, len(tbls))
	for k := range tbls {
		res.Coefs[tbls[k].RID] = coefs[k]
		switch {
		case tbls[k].Degenerate:
			res.Ndegen++
		case coefs[k].Source == SourceDefault:
			res.Nuncal++
		default:
			if coefs[k].LowConfidence {
				res.Nlowconf++
			}
			if !math.IsNaN(errs[k]) {
				fits = append(fits, errs[k])
			}
		}
	}
	if len(fits) > 0 {
		sort.Float64s(fits)
		res.FitMedian = stat.Quantile(.5, stat.Empirical, fits, nil)
	}
	return res
}

func calibrateReach(t *rating.GeomTable, obs *Observations, hwmObs map[int][]Obs, cfg fim.Config) (rating.Curve, Coefficients, float64) {
	dflt := Coefficients{Nch: cfg.NchDefault, Nob: cfg.NobDefault, Source: SourceDefault}
	if t.Degenerate {
		return t.Curve(dflt.Nch, dflt.Nob, cfg), dflt, math.NaN()
	}
	if c, ok := obs.Manual[t.RID]; ok {
		return t.Curve(c.Nch, c.Nob, cfg), c, math.NaN()
	}

	pts := append(append([]Obs{}, obs.Gauges[t.RID]...), hwmObs[t.RID]...)
	if len(pts) > 0 {
		return searchGauge(t, pts, cfg)
	}
	if q, ok := referenceFlow(t.RID, obs); ok {
		return searchReference(t, q, cfg)
	}
	c := t.Curve(dflt.Nch, dflt.Nob, cfg)
	c.Flag = rating.CurveUncalibrated
	return c, dflt, math.NaN()
}

// searchGauge minimizes the RMSE of log discharge at the observed stages
// over (channel, overbank) roughness: a latin-hypercube screen seeds a
// shuffled-complex-evolution polish, both on the deterministic PRNG stream
// so recalibration reproduces bit-identical coefficients.
func searchGauge(t *rating.GeomTable, pts []Obs, cfg fim.Config) (rating.Curve, Coefficients, float64) {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(int64(t.RID))

	nev := 0
	best, ubest := math.MaxFloat64, []float64{.5, .5}
	fit := func(u []float64) float64 {
		if nev >= cfg.CalBudget {
			return best // budget exhausted, hold the search where it is
		}
		nev++
		nch := mmaths.LogLinearTransform(nchMin, nchMax, u[0])
		nob := mmaths.LogLinearTransform(nobMin, nobMax, u[1])
		c := t.Curve(nch, nob, cfg)
		of := gaugeError(&c, pts)
		if of < best {
			best, ubest = of, []float64{u[0], u[1]}
		}
		return of
	}

	sp := smpln.NewLHC(rng, nLHC, 2, false)
	for k := 0; k < nLHC; k++ {
		fit([]float64{sp.U[0][k], sp.U[1][k]})
	}
	uFinal, _ := glbopt.SCE(4, 2, rng, fit, true)
	fit(uFinal)

	nch := mmaths.LogLinearTransform(nchMin, nchMax, ubest[0])
	nob := mmaths.LogLinearTransform(nobMin, nobMax, ubest[1])
	c := t.Curve(nch, nob, cfg)
	relerr := maxRelError(&c, pts)
	coef := Coefficients{Nch: nch, Nob: nob, Source: SourceGauge, LowConfidence: relerr > cfg.CalTol}
	if coef.LowConfidence {
		c.Flag = rating.CurveLowConfidence
	}
	return c, coef, relerr
}

// searchReference scales both coefficients by a common factor so the
// reference flow lands at the bankfull stage; one-dimensional, solved by
// Fibonacci search.
func searchReference(t *rating.GeomTable, q float64, cfg fim.Config) (rating.Curve, Coefficients, float64) {
	bf := rating.StageOut(cfg.Bankfull, cfg.UnitSystem)
	nev := 0
	fit := func(u float64) float64 {
		if nev >= cfg.CalBudget {
			return math.MaxFloat64
		}
		nev++
		f := mmaths.LogLinearTransform(.25, 4., u)
		c := t.Curve(cfg.NchDefault*f, cfg.NobDefault*f, cfg)
		s, _ := c.StageAt(q, true)
		return math.Abs(s-bf) / bf
	}
	u, of := glbopt.Fibonacci(fit)
	f := mmaths.LogLinearTransform(.25, 4., u)
	nch, nob := cfg.NchDefault*f, cfg.NobDefault*f
	c := t.Curve(nch, nob, cfg)
	coef := Coefficients{Nch: nch, Nob: nob, Source: SourceReference, LowConfidence: of > cfg.CalTol}
	if coef.LowConfidence {
		c.Flag = rating.CurveLowConfidence
	}
	return c, coef, of
}

func gaugeError(c *rating.Curve, pts []Obs) float64 {
	ob, sim := make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		ob[i] = math.Log(p.Q + 1e-8)
		sim[i] = math.Log(c.QAt(p.Stage) + 1e-8)
	}
	return objfunc.RMSE(ob, sim)
}

func maxRelError(c *rating.Curve, pts []Obs) float64 {
	mx := 0.
	for _, p := range pts {
		if p.Q <= 0. {
			continue
		}
		if e := math.Abs(c.QAt(p.Stage)-p.Q) / p.Q; e > mx {
			mx = e
		}
	}
	return mx
}

// referenceFlow picks the calibration discharge for reaches without gauge
// data: bankfull where known, otherwise the most frequent recurrence flow.
func referenceFlow(rid int, obs *Observations) (float64, bool) {
	if q, ok := obs.Bankfull[rid]; ok && q > 0. {
		return q, true
	}
	if qs, ok := obs.Recurrence[rid]; ok && len(qs) > 0 {
		return qs[0], true
	}
	return 0., false
}

// attachHWMs pairs each surveyed high-water mark with its nearest reach and
// that reach's rarest recurrence flow, turning the mark into a synthetic
// (stage, discharge) calibration point. Marks too far from any reach, or on
// reaches without a recurrence reference, are dropped.
func attachHWMs(obs *Observations, net *hydrograph.Network, cfg fim.Config) map[int][]Obs {
	out := make(map[int][]Obs)
	if net == nil || len(obs.HWM) == 0 {
		return out
	}
	tol := 4. * cfg.BufferDist
	for _, hwm := range obs.HWM {
		b := &geom.Bounds{
			Min: geom.Point{X: hwm.X - tol, Y: hwm.Y - tol},
			Max: geom.Point{X: hwm.X + tol, Y: hwm.Y + tol},
		}
		var nearest *hydrograph.Reach
		dmin := tol
		for _, r := range net.Intersecting(b) {
			if d := r.DistanceTo(geom.Point{X: hwm.X, Y: hwm.Y}); d < dmin {
				dmin, nearest = d, r
			}
		}
		if nearest == nil {
			continue
		}
		qs, ok := obs.Recurrence[nearest.ID]
		if !ok || len(qs) == 0 {
			continue
		}
		qx := qs[0]
		for _, q := range qs {
			if q > qx {
				qx = q
			}
		}
		out[nearest.ID] = append(out[nearest.ID], Obs{Stage: hwm.Stage, Q: qx})
	}
	return out
}
