package model

import (
	"fmt"
	"path/filepath"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/calib"
	"github.com/fernando-aristizabal/inundation-mapping/rating"
	"github.com/maseology/mmio"
)

// UnitStatus is the per-unit outcome handed back to the orchestration
// layer: the failure class when the unit was skipped, and the degraded-
// result counts when it completed.
type UnitStatus struct {
	Huc      string
	Kind     fim.ErrKind
	Msg      string
	Nreach   int
	Ncal     int
	Nuncal   int
	Nlowconf int
	Ndegen   int
	Ngap     int
	OK       bool
}

func prfx(cfg fim.Config, huc string) string {
	return filepath.Join(cfg.OutDir, huc) + "."
}

// ProcessUnit runs one hydrologic unit end to end: load, condition,
// delineate, HAND, synthetic curves, calibration, publish. Derived
// structures are gob-cached under the output directory so an interrupted
// run restarts from the last completed stage, and every artifact is
// published atomically. A panic is caught and reported as a failed unit;
// siblings are unaffected.
func ProcessUnit(cfg fim.Config, huc string, paths fim.UnitPaths) (st UnitStatus) {
	st = UnitStatus{Huc: huc}
	defer func() {
		if r := recover(); r != nil {
			st.OK = false
			st.Kind = fim.InputMissingOrInvalid
			st.Msg = fmt.Sprintf("panic: %v", r)
		}
	}()

	dom, err := fim.LoadDomain(cfg, huc, paths)
	if err != nil {
		st.Kind, st.Msg = fim.KindOf(err), err.Error()
		return
	}
	if cfg.Verbose {
		fmt.Printf(" > %v\n", dom)
	}
	mmio.MakeDir(cfg.OutDir)
	pf := prfx(cfg, huc)

	s, p, h, err := deriveCached(dom, pf)
	if err != nil {
		st.Kind, st.Msg = fim.KindOf(err), err.Error()
		return
	}

	tbls := rating.BuildTables(s, p, h, dom.Net, cfg)
	obs, err := calib.LoadObservations(paths.ObsDir)
	if err != nil {
		st.Kind, st.Msg = fim.InputMissingOrInvalid, err.Error()
		return
	}
	res := calib.Calibrate(tbls, obs, dom.Net, cfg)

	if err := rating.SaveGobCurves(pf+"curves.gob", res.Curves); err != nil {
		st.Kind, st.Msg = fim.InputMissingOrInvalid, err.Error()
		return
	}
	if err := rating.SaveCSV(pf+"rating_curves.csv", res.Curves); err != nil {
		st.Kind, st.Msg = fim.InputMissingOrInvalid, err.Error()
		return
	}
	if err := calib.WriteCoefsCSV(pf+"roughness.csv", res.Coefs); err != nil {
		st.Kind, st.Msg = fim.InputMissingOrInvalid, err.Error()
		return
	}
	if cfg.Verbose {
		chk := filepath.Join(cfg.OutDir, "check", huc) + "."
		mmio.MakeDir(filepath.Join(cfg.OutDir, "check"))
		s.Checkandprint(chk)
		p.Checkandprint(s, chk)
		h.Checkandprint(s, chk)
	}

	st.OK = true
	st.Nreach = p.Ncatch()
	st.Nuncal = res.Nuncal
	st.Nlowconf = res.Nlowconf
	st.Ndegen = res.Ndegen
	st.Ngap = p.Ngap
	st.Ncal = st.Nreach - res.Nuncal - res.Ndegen
	if p.Ngap > 0 {
		st.Kind = fim.DelineationGap // tolerated, surfaced for reporting
	}
	return
}

// deriveCached loads the unit's derived structures when a complete cached
// set exists, otherwise builds and publishes them.
func deriveCached(dom *fim.Domain, pf string) (*fim.Structure, *fim.Partition, *fim.Hand, error) {
	_, okS := mmio.FileExists(pf + "structure.gob")
	_, okP := mmio.FileExists(pf + "partition.gob")
	_, okH := mmio.FileExists(pf + "hand.gob")
	if okS && okP && okH {
		s, err := fim.LoadGobStructure(pf + "structure.gob")
		if err != nil {
			return nil, nil, nil, err
		}
		p, err := fim.LoadGobPartition(pf + "partition.gob")
		if err != nil {
			return nil, nil, nil, err
		}
		h, err := fim.LoadGobHand(pf + "hand.gob")
		if err != nil {
			return nil, nil, nil, err
		}
		return s, p, h, nil
	}

	s, p, h, err := dom.Derive()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.SaveGob(pf + "structure.gob"); err != nil {
		return nil, nil, nil, err
	}
	if err := p.SaveGob(pf + "partition.gob"); err != nil {
		return nil, nil, nil, err
	}
	if err := h.SaveGob(pf + "hand.gob"); err != nil {
		return nil, nil, nil, err
	}
	return s, p, h, nil
}
