package calib

import (
	"sort"

	"github.com/maseology/mmio"
)

func sourceName(s int) string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceGauge:
		return "gauge"
	case SourceReference:
		return "reference"
	}
	return "default"
}

// WriteCoefsCSV emits the calibrated roughness table with per-reach
// provenance and confidence, id-ascending.
func WriteCoefsCSV(fp string, coefs map[int]Coefficients) error {
	ids := make([]int, 0, len(coefs))
	for rid := range coefs {
		ids = append(ids, rid)
	}
	sort.Ints(ids)

	var rid, nch, nob, src, lc []interface{}
	for _, id := range ids {
		c := coefs[id]
		rid = append(rid, id)
		nch = append(nch, c.Nch)
		nob = append(nob, c.Nob)
		src = append(src, sourceName(c.Source))
		if c.LowConfidence {
			lc = append(lc, 1)
		} else {
			lc = append(lc, 0)
		}
	}
	mmio.WriteCSV(fp, "feature_id,channel_n,overbank_n,source,low_confidence", rid, nch, nob, src, lc)
	return nil
}
