package model

import (
	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
	"github.com/fernando-aristizabal/inundation-mapping/render"
)

// RenderUnit renders one forecast against a processed unit's cached state
// and publishes the depth and extent rasters tagged with the forecast name.
// The render is recomputed in full each call; nothing is retained.
func RenderUnit(cfg fim.Config, huc, tag string, f render.Forecast) (*render.Result, error) {
	pf := prfx(cfg, huc)
	s, err := fim.LoadGobStructure(pf + "structure.gob")
	if err != nil {
		return nil, err
	}
	p, err := fim.LoadGobPartition(pf + "partition.gob")
	if err != nil {
		return nil, err
	}
	h, err := fim.LoadGobHand(pf + "hand.gob")
	if err != nil {
		return nil, err
	}
	curves, err := rating.LoadGobCurves(pf + "curves.gob")
	if err != nil {
		return nil, err
	}

	res := render.Inundate(s, p, h, curves, f, cfg)
	if err := render.WriteDepth(pf+tag+".depth.bil", s, res.Depth); err != nil {
		return nil, err
	}
	if err := render.WriteExtent(pf+tag+".extent.bil", s, res.Depth); err != nil {
		return nil, err
	}
	return res, nil
}
