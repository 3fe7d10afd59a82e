package main

import (
	"fmt"
	"runtime"

	fim "github.com/fernando-aristizabal/inundation-mapping"
	"github.com/fernando-aristizabal/inundation-mapping/model"
	"github.com/fernando-aristizabal/inundation-mapping/render"
	"github.com/maseology/mmio"
)

func main() {

	const (
		dataPrfx = "S:/FIM/12090301/"
		outDir   = "S:/FIM/out/"
	)

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	cfg := fim.DefaultConfig()
	cfg.OutDir = outDir
	cfg.UnitSystem = fim.Imperial
	cfg.Workers = runtime.GOMAXPROCS(0)
	cfg.Verbose = true

	units := []model.Unit{{
		Huc: "12090301",
		Paths: fim.UnitPaths{
			GDEF:      dataPrfx + "12090301.gdef",
			DEM:       dataPrfx + "12090301.uhdem",
			Flowlines: dataPrfx + "nwm_flows.shp",
			ObsDir:    dataPrfx + "calb",
		},
	}}

	smry := model.RunBatch(cfg, units)
	if err := smry.WriteCSV(outDir + "summary.csv"); err != nil {
		fmt.Println(err)
	}

	// render a forecast against the calibrated unit
	if smry.Nok > 0 {
		f := render.Forecast{5781321: 1250., 5781323: 840.} // [cfs]
		res, err := model.RenderUnit(cfg, "12090301", "t0", f)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf(" rendered: %d cells inundated, %d reaches out of range\n", res.Ninund, len(res.OutOfRange))
	}
}
