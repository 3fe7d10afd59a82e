package render

import (
	"sort"
	"sync"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
)

// Forecast is the per-reach discharge to render, keyed by feature id, in the
// configured unit system. Reaches absent from the map are rendered dry.
type Forecast map[int]float64

// Result is one rendered inundation surface for a unit. Depth is metres per
// cell index, 0 where dry, nodata outside the partition; it is derived fresh
// per forecast and not retained by the engine.
type Result struct {
	Depth      []float64
	Stages     map[int]float64 // reach id → rendered stage, configured units
	OutOfRange []int           // reaches whose forecast exceeded the curve range
	Ninund     int
}

// Inundate inverts each reach's calibrated curve at its forecast discharge,
// thresholds the catchment's HAND cells at that stage and mosaics the
// catchment tiles into the unit raster. Catchments are processed
// concurrently; the max-depth merge makes the mosaic order-independent.
func Inundate(s *fim.Structure, p *fim.Partition, h *fim.Hand, curves []rating.Curve, f Forecast, cfg fim.Config) *Result {
	cx := make(map[int]*rating.Curve, len(curves))
	for i := range curves {
		cx[curves[i].RID] = &curves[i]
	}

	tiles := make([]tile, p.Ncatch())
	stages := make([]float64, p.Ncatch())
	oor := make([]bool, p.Ncatch())

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	for k := 0; k < p.Ncatch(); k++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(k int) {
			defer wg.Done()
			rid := p.Irch[k]
			q := f[rid]
			if c, ok := cx[rid]; ok && q > 0. {
				stage, inRange := c.StageAt(q, cfg.CapOverMax)
				stages[k] = stage
				oor[k] = !inRange
				tiles[k] = flood(p, h, k, rating.StageSI(stage, cfg.UnitSystem))
			}
			<-sem
		}(k)
	}
	wg.Wait()

	res := &Result{
		Depth:  mosaic(s.Nc, p, tiles),
		Stages: make(map[int]float64, p.Ncatch()),
	}
	for k := 0; k < p.Ncatch(); k++ {
		res.Stages[p.Irch[k]] = stages[k]
		if oor[k] {
			res.OutOfRange = append(res.OutOfRange, p.Irch[k])
		}
	}
	sort.Ints(res.OutOfRange)
	for _, d := range res.Depth {
		if d > 0. {
			res.Ninund++
		}
	}
	return res
}

// flood thresholds one catchment's HAND cells at the given stage [m].
func flood(p *fim.Partition, h *fim.Hand, k int, stage float64) tile {
	var t tile
	if stage <= 0. {
		return t
	}
	for _, i := range p.Cis[k] {
		if h.Rel[i] < 0. { // nodata
			continue
		}
		if d := stage - h.Rel[i]; d > 0. {
			t.cells = append(t.cells, i)
			t.depth = append(t.depth, d)
		}
	}
	return t
}
