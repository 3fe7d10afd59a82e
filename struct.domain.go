package fim

import (
	"fmt"

	"github.com/fernando-aristizabal/inundation-mapping/hydrograph"
	"github.com/maseology/goHydro/grid"
	"github.com/maseology/goHydro/tem"
	"github.com/maseology/mmio"
)

// UnitPaths locates the read-only inputs of one hydrologic unit, produced by
// the acquisition tooling.
type UnitPaths struct {
	GDEF      string // grid definition with active cells
	DEM       string // topologic DEM (.uhdem)
	Flowlines string // hydrography flowline shapefile
	ObsDir    string // calibration csv directory, may be empty
}

// Domain carries the raw inputs of one hydrologic unit; derived structures
// (conditioned surface, partition, HAND) are built from it and cached.
type Domain struct {
	Cfg Config
	Huc string
	GD  *grid.Definition
	Dem tem.TEM // raw surface, conditioned copies are derived from it
	Net *hydrograph.Network
}

// LoadDomain loads the unit inputs once. A missing or malformed layer is
// reported as InputMissingOrInvalid so the batch layer can skip the unit.
func LoadDomain(cfg Config, huc string, p UnitPaths) (*Domain, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	for _, fp := range []string{p.GDEF, p.DEM, p.Flowlines} {
		if _, ok := mmio.FileExists(fp); !ok {
			return nil, errf(InputMissingOrInvalid, huc, "input not found: %s", fp)
		}
	}

	gd, err := grid.ReadGDEF(p.GDEF, true)
	if err != nil {
		return nil, errf(InputMissingOrInvalid, huc, "gdef: %v", err)
	}
	if len(gd.Sactives) == 0 {
		return nil, errf(InputMissingOrInvalid, huc, "grid definition has no active cells")
	}

	var dem tem.TEM
	if err := dem.New(p.DEM); err != nil {
		return nil, errf(InputMissingOrInvalid, huc, "dem: %v", err)
	}
	for _, c := range gd.Sactives {
		if _, ok := dem.TEC[c]; !ok {
			return nil, errf(InputMissingOrInvalid, huc, "active cell %d not in %s", c, p.DEM)
		}
	}

	net, err := hydrograph.LoadShapefile(p.Flowlines, cfg.Proj4, hydrograph.DefaultFields())
	if err != nil {
		return nil, errf(InputMissingOrInvalid, huc, "flowlines: %v", err)
	}

	return &Domain{Cfg: cfg, Huc: huc, GD: gd, Dem: dem, Net: net}, nil
}

// NewDomain wraps pre-built inputs, used by the synthetic-unit tests and by
// callers that assemble grids in memory.
func NewDomain(cfg Config, huc string, gd *grid.Definition, dem tem.TEM, net *hydrograph.Network) (*Domain, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if net == nil || len(net.Reaches) == 0 {
		return nil, errf(InputMissingOrInvalid, huc, "empty hydrography network")
	}
	return &Domain{Cfg: cfg, Huc: huc, GD: gd, Dem: dem, Net: net}, nil
}

func (d *Domain) String() string {
	return fmt.Sprintf("unit %s: %d cells, %d reaches", d.Huc, d.Dem.NumCells(), len(d.Net.Reaches))
}

// Derive runs the once-per-unit chain: condition the surface, re-index it,
// partition it into catchments and compute HAND. The results are what gets
// cached and reused across forecast renders.
func (d *Domain) Derive() (*Structure, *Partition, *Hand, error) {
	cdem, strm, err := d.Condition()
	if err != nil {
		return nil, nil, nil, err
	}
	s := d.BuildStructure(cdem)
	p := Delineate(s, strm)
	return s, p, BuildHAND(s, p), nil
}
