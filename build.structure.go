package fim

import (
	"github.com/maseology/goHydro/tem"
	"github.com/maseology/mmaths"
)

// BuildStructure re-indexes the conditioned surface to topo-safe arrays.
func (d *Domain) BuildStructure(cdem tem.TEM) *Structure {
	cids, ds := cdem.DownslopeContributingAreaIDs(-1)
	nc := len(cids)

	mx := make(map[int]int, nc)
	for i, c := range cids {
		mx[c] = i
	}

	dsx := make([]int, nc)
	for i, c := range cids {
		if v, ok := ds[c]; ok && v >= 0 {
			dsx[i] = mx[v]
		} else {
			dsx[i] = -1
		}
	}

	upcnt := make([]int, nc)
	for c, n := range cdem.ContributingCellMap(-1) {
		if i, ok := mx[c]; ok {
			upcnt[i] = n
		}
	}

	z, grad := make([]float64, nc), make([]float64, nc)
	coord := make([]mmaths.Point, nc)
	for i, c := range cids {
		t := cdem.TEC[c]
		z[i], grad[i] = t.Z, t.G
		coord[i] = d.GD.Coord[c]
	}

	s := &Structure{
		GD:    d.GD,
		Huc:   d.Huc,
		Cids:  cids,
		Ds:    dsx,
		Upcnt: upcnt,
		Grad:  grad,
		Z:     z,
		Coord: coord,
		Cw:    d.GD.Cwidth,
		Nc:    nc,
	}
	s.fillPits(d.Cfg.FlatInc)
	return s
}

// fillPits raises any cell sitting below its downslope neighbour to that
// neighbour's elevation plus the flat increment, processed downstream-first
// so the correction cascades upstream. Cell order is upstream-first
// (Ds[i] > i), so a reverse sweep sees every receiver before its senders.
func (s *Structure) fillPits(flatInc float64) {
	for i := s.Nc - 1; i >= 0; i-- {
		if ds := s.Ds[i]; ds >= 0 {
			if zmin := s.Z[ds] + flatInc; s.Z[i] < zmin {
				s.Z[i] = zmin
			}
		}
	}
}
