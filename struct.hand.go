package fim

const nodata = -9999.

// Hand is the per-cell height above nearest drainage, relative to the cell's
// own catchment only. Drainage cells are exactly 0; unassigned cells carry
// the nodata value.
type Hand struct {
	Rel []float64
}

func (h *Hand) SaveGob(fp string) error { return saveGob(fp, h) }

func LoadGobHand(fp string) (*Hand, error) {
	var h Hand
	if err := loadGob(fp, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *Hand) Checkandprint(s *Structure, chkdirprfx string) {
	if s.GD == nil {
		return
	}
	mx := s.mx()
	rel := s.GD.NullArray(nodata)
	for _, c := range s.GD.Sactives {
		if i, ok := mx[c]; ok {
			rel[c] = h.Rel[i]
		}
	}
	writeFloats(chkdirprfx+"hand.rel.bil", rel)
}
