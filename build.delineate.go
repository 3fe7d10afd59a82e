package fim

import (
	"math"
	"sort"
)

// Delineate assigns every drainable cell to the first drainage cell reached
// by walking its flow path (nearest along flow, not Euclidean). Stream cells
// carry the reach id of the rasterized network; ties there were already
// broken toward the lowest reach id. The pass runs downstream-first over the
// topo-safe order so each cell inherits a finished downslope label.
func Delineate(s *Structure, strm map[int]int) *Partition {
	irch := func() []int {
		set := make(map[int]bool, len(strm))
		for _, rid := range strm {
			set[rid] = true
		}
		out := make([]int, 0, len(set))
		for rid := range set {
			out = append(out, rid)
		}
		sort.Ints(out)
		return out
	}()
	ix := make(map[int]int, len(irch))
	for k, rid := range irch {
		ix[rid] = k
	}

	p := &Partition{
		Irch: irch,
		Sid:  make([]int, s.Nc),
		Strm: make([]bool, s.Nc),
		Dist: make([]float64, s.Nc),
		Cis:  make([][]int, len(irch)),
	}

	for i := s.Nc - 1; i >= 0; i-- {
		if rid, ok := strm[s.Cids[i]]; ok {
			p.Sid[i] = ix[rid]
			p.Strm[i] = true
			p.Dist[i] = 0.
			continue
		}
		ds := s.Ds[i]
		if ds < 0 || p.Sid[ds] < 0 {
			p.Sid[i] = -1
			p.Ngap++
			continue
		}
		p.Sid[i] = p.Sid[ds]
		a, b := s.Coord[i], s.Coord[ds]
		p.Dist[i] = p.Dist[ds] + math.Hypot(a.X-b.X, a.Y-b.Y)
	}

	for i := 0; i < s.Nc; i++ {
		if k := p.Sid[i]; k >= 0 {
			p.Cis[k] = append(p.Cis[k], i)
		}
	}
	return p
}
