package fim

import "math"

// BuildHAND computes each cell's vertical distance above the drainage cell
// its flow path reaches. The drainage floor propagates upstream along the
// flow-direction field but never across a catchment boundary; where a flow
// path exits its catchment before touching drainage (boundary rounding), the
// catchment's lowest drainage elevation stands in. Values floor at 0.
func BuildHAND(s *Structure, p *Partition) *Hand {
	floor := make([]float64, s.Nc)
	set := make([]bool, s.Nc)

	// lowest drainage elevation per catchment, the cross-boundary fallback
	zmin := make([]float64, p.Ncatch())
	for k := range zmin {
		zmin[k] = math.MaxFloat64
	}
	for i := 0; i < s.Nc; i++ {
		if p.Strm[i] {
			if k := p.Sid[i]; k >= 0 && s.Z[i] < zmin[k] {
				zmin[k] = s.Z[i]
			}
		}
	}

	for i := s.Nc - 1; i >= 0; i-- {
		k := p.Sid[i]
		if k < 0 {
			continue
		}
		if p.Strm[i] {
			floor[i], set[i] = s.Z[i], true
			continue
		}
		if ds := s.Ds[i]; ds >= 0 && set[ds] && p.Sid[ds] == k {
			floor[i], set[i] = floor[ds], true
			continue
		}
		floor[i], set[i] = zmin[k], true
	}

	rel := make([]float64, s.Nc)
	for i := 0; i < s.Nc; i++ {
		if !set[i] {
			rel[i] = nodata
			continue
		}
		rel[i] = math.Max(0., s.Z[i]-floor[i])
	}
	return &Hand{Rel: rel}
}
