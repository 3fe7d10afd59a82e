package hydrograph

import (
	"fmt"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
)

// Fields names the flowline attribute columns. NWM-style hydrofabric layers
// carry feature_id/to_id; HAND-style layers carry HydroID/NextDownID.
type Fields struct {
	ID, DsID, Slope string
}

// DefaultFields matches the hydrofabric layers produced by the acquisition
// tooling.
func DefaultFields() Fields { return Fields{ID: "HydroID", DsID: "NextDownID", Slope: "SLOPE"} }

// LoadShapefile decodes a flowline layer into a Network, reprojecting to
// proj4 when both the target and the layer's spatial reference are known.
func LoadShapefile(fp, proj4 string, flds Fields) (*Network, error) {
	d, err := shp.NewDecoder(fp)
	if err != nil {
		return nil, fmt.Errorf("hydrograph.LoadShapefile %s: %v", fp, err)
	}
	defer d.Close()

	var tr proj.Transformer
	if len(proj4) > 0 {
		if src, err := d.SR(); err == nil {
			dst, err := proj.Parse(proj4)
			if err != nil {
				return nil, fmt.Errorf("hydrograph.LoadShapefile: bad target CRS: %v", err)
			}
			if tr, err = src.NewTransform(dst); err != nil {
				return nil, fmt.Errorf("hydrograph.LoadShapefile: no CRS transform: %v", err)
			}
		}
	}

	var reaches []*Reach
	for {
		g, fields, more := d.DecodeRowFields(flds.ID, flds.DsID, flds.Slope)
		if !more {
			break
		}
		if tr != nil {
			if g, err = g.Transform(tr); err != nil {
				return nil, fmt.Errorf("hydrograph.LoadShapefile: reproject: %v", err)
			}
		}
		ls, err := toLineString(g)
		if err != nil {
			return nil, fmt.Errorf("hydrograph.LoadShapefile: %v", err)
		}
		id, err := strconv.Atoi(fields[flds.ID])
		if err != nil {
			return nil, fmt.Errorf("hydrograph.LoadShapefile: bad %s %q", flds.ID, fields[flds.ID])
		}
		ds := -1
		if v, err := strconv.Atoi(fields[flds.DsID]); err == nil && v > 0 {
			ds = v
		}
		slp := .001 // flowline slope floor, matches the acquisition tooling
		if v, err := strconv.ParseFloat(fields[flds.Slope], 64); err == nil && v > slp {
			slp = v
		}
		reaches = append(reaches, &Reach{ID: id, DsID: ds, Geom: ls, Slope: slp})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("hydrograph.LoadShapefile %s: %v", fp, err)
	}
	if len(reaches) == 0 {
		return nil, fmt.Errorf("hydrograph.LoadShapefile %s: no flowline features", fp)
	}
	return New(reaches)
}

func toLineString(g geom.Geom) (geom.LineString, error) {
	switch t := g.(type) {
	case geom.LineString:
		return t, nil
	case geom.MultiLineString:
		var ls geom.LineString
		for _, part := range t {
			ls = append(ls, part...)
		}
		return ls, nil
	default:
		return nil, fmt.Errorf("unsupported flowline geometry %T", g)
	}
}
