package rating

import (
	"sync"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/hydrograph"
)

// BuildTables sweeps every catchment of the unit concurrently; catchments
// read only their own partition mask and HAND cells so no ordering or
// locking is needed between them.
func BuildTables(s *fim.Structure, p *fim.Partition, h *fim.Hand, net *hydrograph.Network, cfg fim.Config) []GeomTable {
	tbls := make([]GeomTable, p.Ncatch())
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	for k := 0; k < p.Ncatch(); k++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(k int) {
			defer wg.Done()
			length, slope := reachGeometry(s, p, net, k)
			tbls[k] = buildTable(s, p, h, k, length, slope, cfg)
			<-sem
		}(k)
	}
	wg.Wait()
	return tbls
}

// BuildCurves evaluates every table at the default roughness.
func BuildCurves(tbls []GeomTable, cfg fim.Config) []Curve {
	curves := make([]Curve, len(tbls))
	for k := range tbls {
		curves[k] = tbls[k].Curve(cfg.NchDefault, cfg.NobDefault, cfg)
	}
	return curves
}

// reachGeometry pulls reach length and slope from the hydrography; a reach
// clipped to no geometry falls back to its rasterized drainage length.
func reachGeometry(s *fim.Structure, p *fim.Partition, net *hydrograph.Network, k int) (length, slope float64) {
	length, slope = 0., .001
	if net != nil {
		if r, ok := net.Reaches[p.Irch[k]]; ok {
			length, slope = r.Length, r.Slope
		}
	}
	if length <= 0. {
		nstrm := 0
		for _, i := range p.Cis[k] {
			if p.Strm[i] {
				nstrm++
			}
		}
		if nstrm < 1 {
			nstrm = 1
		}
		length = float64(nstrm) * s.Cw
	}
	return
}
