package hydrograph

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Reach is one feature of the drainage network: a directed channel segment
// with its downstream neighbour, used both as vector geometry (conditioning,
// rasterization) and as a node of the unit's reach DAG.
type Reach struct {
	ID     int
	DsID   int // -1 at the unit outlet
	Geom   geom.LineString
	Length float64 // [m]
	Slope  float64 // [m/m]
	b      *geom.Bounds
}

// Bounds satisfies rtree.Spatial.
func (r *Reach) Bounds() *geom.Bounds {
	if r.b == nil {
		r.b = r.Geom.Bounds()
	}
	return r.b
}

// Len, Points, Similar and Transform delegate to the centreline so *Reach
// satisfies geom.Geom and can be indexed directly.
func (r *Reach) Len() int { return r.Geom.Len() }

func (r *Reach) Points() func() geom.Point { return r.Geom.Points() }

func (r *Reach) Similar(g geom.Geom, tol float64) bool { return r.Geom.Similar(g, tol) }

func (r *Reach) Transform(t proj.Transformer) (geom.Geom, error) { return r.Geom.Transform(t) }

func (r *Reach) length() float64 {
	s := 0.
	for i := 1; i < len(r.Geom); i++ {
		s += math.Hypot(r.Geom[i].X-r.Geom[i-1].X, r.Geom[i].Y-r.Geom[i-1].Y)
	}
	return s
}

// DistanceTo returns the planar distance from p to the reach centreline.
func (r *Reach) DistanceTo(p geom.Point) float64 {
	d := math.MaxFloat64
	for i := 1; i < len(r.Geom); i++ {
		if dd := distPointSeg(p, r.Geom[i-1], r.Geom[i]); dd < d {
			d = dd
		}
	}
	return d
}

func distPointSeg(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0. {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0. {
		t = 0.
	} else if t > 1. {
		t = 1.
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
