package fim

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/maseology/goHydro/tem"
)

// Condition hydrologically enforces the drainage network onto the elevation
// surface: stream cells are burned and carved monotonically downstream and
// cells within the buffer are ramped toward the carved line. The raw
// surface held by the Domain is never touched; a conditioned copy is
// returned together with the stream raster (grid cell id → reach id).
// Pit filling along the flow-direction field happens when the surface is
// re-indexed to topo-safe arrays (BuildStructure).
func (d *Domain) Condition() (tem.TEM, map[int]int, error) {
	xr := d.cellIndex()

	reaches := d.Net.Intersecting(d.gridBounds())
	if len(reaches) == 0 {
		return tem.TEM{}, nil, errf(ConditioningError, d.Huc, "no flowline intersects the raster extent")
	}
	onGrid := make(map[int]bool, len(reaches))
	for _, r := range reaches {
		onGrid[r.ID] = true
	}

	zs := make(map[int]float64, len(d.Dem.TEC))
	for c, t := range d.Dem.TEC {
		zs[c] = t.Z
	}

	strm := d.carve(zs, xr, onGrid)
	if len(strm) == 0 {
		return tem.TEM{}, nil, errf(ConditioningError, d.Huc, "flowlines intersect the extent but rasterize to no cells")
	}
	d.smooth(zs, strm, xr)

	cdem := tem.TEM{TEC: make(map[int]tem.TEC, len(d.Dem.TEC)), USlp: d.Dem.USlp}
	for c, t := range d.Dem.TEC {
		t.Z = zs[c]
		cdem.TEC[c] = t
	}
	return cdem, strm, nil
}

// cellIndex keys active cells by column/row for point-to-cell lookup. Cell
// centres sit at half-multiples of the cell width, so floor (not round)
// registers an arbitrary coordinate to the cell containing it.
func (d *Domain) cellIndex() map[[2]int]int {
	cw := d.GD.Cwidth
	xr := make(map[[2]int]int, len(d.GD.Sactives))
	for _, c := range d.GD.Sactives {
		p := d.GD.Coord[c]
		xr[[2]int{int(math.Floor(p.X / cw)), int(math.Floor(p.Y / cw))}] = c
	}
	return xr
}

func (d *Domain) gridBounds() *geom.Bounds {
	cw := d.GD.Cwidth
	var xn, yn, xx, yx float64 = math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
	for _, c := range d.GD.Sactives {
		p := d.GD.Coord[c]
		xn, yn = math.Min(xn, p.X-cw/2), math.Min(yn, p.Y-cw/2)
		xx, yx = math.Max(xx, p.X+cw/2), math.Max(yx, p.Y+cw/2)
	}
	return &geom.Bounds{Min: geom.Point{X: xn, Y: yn}, Max: geom.Point{X: xx, Y: yx}}
}

// carve rasterizes the network and burns the stream cells, walking reaches
// in network topological order so every reach starts no higher than its
// upstream inflows and stream elevations never rise downstream. Where two
// reaches rasterize to the same cell, the lower reach id keeps it.
func (d *Domain) carve(zs map[int]float64, xr map[[2]int]int, onGrid map[int]bool) map[int]int {
	cw := d.GD.Cwidth
	atCell := func(x, y float64) (int, bool) {
		c, ok := xr[[2]int{int(math.Floor(x / cw)), int(math.Floor(y / cw))}]
		return c, ok
	}

	strm := make(map[int]int)
	inflowZ := make(map[int]float64) // reach id → carved elevation carried from upstream
	for _, rid := range d.Net.Order {
		if !onGrid[rid] {
			continue
		}
		r := d.Net.Reaches[rid]
		zmin := math.MaxFloat64
		if z, ok := inflowZ[rid]; ok {
			zmin = z
		}
		for _, c := range traceCells(r.Geom, cw/2., atCell) {
			if id, ok := strm[c]; !ok || r.ID < id {
				strm[c] = r.ID
			}
			z := math.Min(zs[c]-d.Cfg.BurnDepth, zmin)
			zs[c] = z
			zmin = z
		}
		if r.DsID >= 0 {
			if z, ok := inflowZ[r.DsID]; !ok || zmin < z {
				inflowZ[r.DsID] = zmin
			}
		}
	}
	return strm
}

// smooth ramps non-stream cells within the buffer linearly toward the
// carved elevation of their nearest stream cell; cells beyond the buffer
// and cells the ramp would raise are left unchanged.
func (d *Domain) smooth(zs map[int]float64, strm map[int]int, xr map[[2]int]int) {
	cw, buf := d.GD.Cwidth, d.Cfg.BufferDist
	k := int(math.Ceil(buf / cw))
	for _, c := range d.GD.Sactives {
		if _, ok := strm[c]; ok {
			continue
		}
		p := d.GD.Coord[c]
		ci, cj := int(math.Floor(p.X/cw)), int(math.Floor(p.Y/cw))
		dmin, zstrm := math.MaxFloat64, 0.
		for i := ci - k; i <= ci+k; i++ {
			for j := cj - k; j <= cj+k; j++ {
				sc, ok := xr[[2]int{i, j}]
				if !ok {
					continue
				}
				if _, ok := strm[sc]; !ok {
					continue
				}
				sp := d.GD.Coord[sc]
				if dd := math.Hypot(p.X-sp.X, p.Y-sp.Y); dd < dmin {
					dmin, zstrm = dd, zs[sc]
				}
			}
		}
		if dmin > buf {
			continue
		}
		if z := zstrm + dmin/buf*(zs[c]-zstrm); z < zs[c] {
			zs[c] = z
		}
	}
}

// traceCells samples a polyline at the given step and reports the grid
// cells walked, deduplicated, in digitized (upstream to downstream) order.
func traceCells(ls geom.LineString, step float64, atCell func(x, y float64) (int, bool)) []int {
	var out []int
	push := func(x, y float64) {
		if c, ok := atCell(x, y); ok {
			if n := len(out); n == 0 || out[n-1] != c {
				out = append(out, c)
			}
		}
	}
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		n := int(math.Ceil(seg / step))
		if n < 1 {
			n = 1
		}
		for j := 0; j <= n; j++ {
			f := float64(j) / float64(n)
			push(a.X+f*(b.X-a.X), a.Y+f*(b.Y-a.Y))
		}
	}
	return out
}
