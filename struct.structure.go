package fim

import (
	"github.com/maseology/goHydro/grid"
	"github.com/maseology/mmaths"
)

// Structure holds the conditioned unit surface re-indexed to topologically
// safe arrays: every cell appears before its downslope cell, so a forward
// pass walks upstream-first and a reverse pass downstream-first. Arrays are
// 0-based; Cids is the key back to grid cell id.
type Structure struct {
	GD    *grid.Definition
	Huc   string
	Cids  []int          // topologically safe ordered grid cell ids
	Ds    []int          // downslope cell array index, -1 where flow leaves the unit
	Upcnt []int          // count of upslope contributing cells
	Grad  []float64      // cell gradient (radians)
	Z     []float64      // conditioned elevation
	Coord []mmaths.Point // cell centres
	Cw    float64        // uniform cell width
	Nc    int
}

func (s *Structure) CellArea() float64 { return s.Cw * s.Cw }

func (s *Structure) mx() map[int]int {
	m := make(map[int]int, s.Nc)
	for i, c := range s.Cids {
		m[c] = i
	}
	return m
}

func (s *Structure) SaveGob(fp string) error { return saveGob(fp, s) }

func LoadGobStructure(fp string) (*Structure, error) {
	var s Structure
	if err := loadGob(fp, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Checkandprint dumps the structure arrays as check rasters.
func (s *Structure) Checkandprint(chkdirprfx string) {
	if s.GD == nil {
		return
	}
	mx := s.mx()
	aid, ads, upcnt := s.GD.NullInt32(-9999), s.GD.NullInt32(-9999), s.GD.NullInt32(-9999)
	z, grad := s.GD.NullArray(-9999.), s.GD.NullArray(-9999.)
	for _, c := range s.GD.Sactives {
		if i, ok := mx[c]; ok {
			aid[c] = int32(i)
			ads[c] = int32(s.Ds[i])
			upcnt[c] = int32(s.Upcnt[i])
			z[c] = s.Z[i]
			grad[c] = s.Grad[i]
		}
	}
	writeInts(chkdirprfx+"structure.aid.bil", aid)
	writeInts(chkdirprfx+"structure.ads.bil", ads)
	writeInts(chkdirprfx+"structure.upcnt.bil", upcnt)
	writeFloats(chkdirprfx+"structure.z.bil", z)
	writeFloats(chkdirprfx+"structure.grad.bil", grad)
}
