package calib

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/im7mortal/UTM"
	"github.com/maseology/mmio"
)

// coefficient sources
const (
	SourceDefault = iota
	SourceManual
	SourceGauge
	SourceReference
)

// Coefficients are the per-reach channel and overbank Manning's n, with the
// provenance and confidence the downstream reporting needs.
type Coefficients struct {
	Nch, Nob      float64
	Source        int
	LowConfidence bool
}

// Obs is one observed rating-curve point in the configured unit system.
type Obs struct{ Stage, Q float64 }

// HighWaterMark is a surveyed flood elevation, projected to grid
// coordinates.
type HighWaterMark struct{ X, Y, Stage float64 }

// Observations collects the read-only calibration reference data of one
// unit, keyed by reach feature id.
type Observations struct {
	Gauges     map[int][]Obs     // observed gauge rating curves
	Recurrence map[int][]float64 // recurrence-interval reference flows
	Bankfull   map[int]float64   // bankfull reference flows
	Manual     map[int]Coefficients
	HWM        []HighWaterMark
}

// LoadObservations reads whichever calibration csvs exist under dir; absent
// files simply leave their reaches uncalibrated.
func LoadObservations(dir string) (*Observations, error) {
	o := &Observations{
		Gauges:     map[int][]Obs{},
		Recurrence: map[int][]float64{},
		Bankfull:   map[int]float64{},
		Manual:     map[int]Coefficients{},
	}
	if len(dir) == 0 {
		return o, nil
	}
	if !mmio.DirExists(dir) {
		return o, nil
	}

	if err := loadCSV(dir+"/usgs_rating_curves.csv", func(rec []string) {
		// feature_id, stage, discharge
		if len(rec) < 3 {
			return
		}
		rid, err0 := strconv.Atoi(rec[0])
		stg, err1 := strconv.ParseFloat(rec[1], 64)
		q, err2 := strconv.ParseFloat(rec[2], 64)
		if err0 == nil && err1 == nil && err2 == nil {
			o.Gauges[rid] = append(o.Gauges[rid], Obs{stg, q})
		}
	}); err != nil {
		return nil, err
	}

	if err := loadCSV(dir+"/recurrence_flows.csv", func(rec []string) {
		rid, err0 := strconv.Atoi(rec[0])
		if err0 != nil {
			return
		}
		for _, s := range rec[1:] {
			if q, err := strconv.ParseFloat(s, 64); err == nil && q > 0. {
				o.Recurrence[rid] = append(o.Recurrence[rid], q)
			}
		}
	}); err != nil {
		return nil, err
	}

	if err := loadCSV(dir+"/bankfull_flows.csv", func(rec []string) {
		rid, err0 := strconv.Atoi(rec[0])
		q, err1 := strconv.ParseFloat(rec[1], 64)
		if err0 == nil && err1 == nil {
			o.Bankfull[rid] = q
		}
	}); err != nil {
		return nil, err
	}

	if err := loadCSV(dir+"/manual_calibration_coefficients.csv", func(rec []string) {
		// feature_id, channel_n, overbank_n
		if len(rec) < 3 {
			return
		}
		rid, err0 := strconv.Atoi(rec[0])
		nch, err1 := strconv.ParseFloat(rec[1], 64)
		nob, err2 := strconv.ParseFloat(rec[2], 64)
		if err0 == nil && err1 == nil && err2 == nil && nch > 0. && nob > 0. {
			o.Manual[rid] = Coefficients{Nch: nch, Nob: nob, Source: SourceManual}
		}
	}); err != nil {
		return nil, err
	}

	if err := loadCSV(dir+"/high_water_marks.csv", func(rec []string) {
		// latitude, longitude, stage
		if len(rec) < 3 {
			return
		}
		lat, err0 := strconv.ParseFloat(rec[0], 64)
		lng, err1 := strconv.ParseFloat(rec[1], 64)
		stg, err2 := strconv.ParseFloat(rec[2], 64)
		if err0 != nil || err1 != nil || err2 != nil {
			return
		}
		e, n, _, _, err := UTM.FromLatLon(lat, lng, lat >= 0.)
		if err != nil {
			return
		}
		o.HWM = append(o.HWM, HighWaterMark{X: e, Y: n, Stage: stg})
	}); err != nil {
		return nil, err
	}

	return o, nil
}

// loadCSV streams fp through fn row by row; a missing file is not an error.
func loadCSV(fp string, fn func(rec []string)) error {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil
	}
	f, err := os.Open(fp)
	if err != nil {
		return fmt.Errorf(" calib.loadCSV %s: %v", fp, err)
	}
	defer f.Close()
	for rec := range mmio.LoadCSV(io.Reader(f)) {
		if len(rec) < 2 {
			continue
		}
		fn(rec)
	}
	return nil
}
