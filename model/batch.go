package model

import (
	"fmt"
	"sync"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
)

// Unit names one hydrologic unit of a batch.
type Unit struct {
	Huc   string
	Paths fim.UnitPaths
}

// Summary aggregates a batch for programmatic consumption: a unit that was
// skipped or failed shows up here, not only in the log.
type Summary struct {
	Nunits, Nok, Nfail       int
	Nuncal, Nlowconf, Ndegen int
	Ngap                     int
	Status                   []UnitStatus
}

// RunBatch processes units on an independent worker pool. Units share no
// mutable state; one unit failing (or panicking) is recorded and the rest
// continue.
func RunBatch(cfg fim.Config, units []Unit) Summary {
	tt := mmio.NewTimer()
	status := make([]UnitStatus, len(units))

	var bar *uiprogress.Bar
	if cfg.Verbose {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(units)).AppendCompleted()
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Workers)
	for i, u := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u Unit) {
			defer wg.Done()
			status[i] = ProcessUnit(cfg, u.Huc, u.Paths)
			if bar != nil {
				bar.Incr()
			}
			<-sem
		}(i, u)
	}
	wg.Wait()
	if cfg.Verbose {
		uiprogress.Stop()
	}

	smry := Summary{Nunits: len(units), Status: status}
	for _, st := range status {
		if st.OK {
			smry.Nok++
			smry.Nuncal += st.Nuncal
			smry.Nlowconf += st.Nlowconf
			smry.Ndegen += st.Ndegen
			smry.Ngap += st.Ngap
		} else {
			smry.Nfail++
			fmt.Printf("  unit %s failed: %s\n", st.Huc, st.Msg)
		}
	}
	tt.Lap(fmt.Sprintf(" batch complete: %d units, %d failed", smry.Nunits, smry.Nfail))
	return smry
}

// WriteCSV emits the per-unit status table.
func (s *Summary) WriteCSV(fp string) error {
	var huc, ok, kind, nreach, ncal, nuncal, nlow, ndeg, ngap []interface{}
	for _, st := range s.Status {
		huc = append(huc, st.Huc)
		if st.OK {
			ok = append(ok, 1)
		} else {
			ok = append(ok, 0)
		}
		kind = append(kind, st.Kind.String())
		nreach = append(nreach, st.Nreach)
		ncal = append(ncal, st.Ncal)
		nuncal = append(nuncal, st.Nuncal)
		nlow = append(nlow, st.Nlowconf)
		ndeg = append(ndeg, st.Ndegen)
		ngap = append(ngap, st.Ngap)
	}
	mmio.WriteCSV(fp, "huc,ok,status,reaches,calibrated,uncalibrated,low_confidence,degenerate,gap_cells",
		huc, ok, kind, nreach, ncal, nuncal, nlow, ndeg, ngap)
	return nil
}
