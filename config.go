package fim

import "fmt"

// unit systems
const (
	Metric = iota
	Imperial
)

// Config holds every knob the orchestration layer owns; the engine never
// reads environment state directly.
type Config struct {
	OutDir     string  // per-unit rasters, curves and coefficient tables land here
	Proj4      string  // working CRS; vector inputs are transformed to match
	CellWidth  float64 // output raster resolution [m]
	BufferDist float64 // conditioning buffer about the drainage network [m]
	BurnDepth  float64 // vertical enforcement at stream cells [m]
	FlatInc    float64 // minimum downstream drop after depression filling [m]
	UnitSystem int     // Metric or Imperial (stage and discharge units)

	StageStep float64 // rating-curve stage increment [m or ft]
	StageMax  float64 // rating-curve sweep limit [m or ft]
	Bankfull  float64 // default bankfull stage splitting channel/overbank roughness

	NchDefault float64 // default in-channel Manning's n
	NobDefault float64 // default overbank Manning's n

	CalTol    float64 // relative discharge error accepted as converged
	CalBudget int     // roughness-search evaluation budget per reach

	CapOverMax bool // cap forecast stage at the table maximum instead of extrapolating
	Workers    int  // concurrent hydrologic units
	Verbose    bool
}

// DefaultConfig returns the parameter set used for uncalibrated runs.
func DefaultConfig() Config {
	return Config{
		CellWidth:  10.,
		BufferDist: 70.,
		BurnDepth:  10.,
		FlatInc:    .001,
		UnitSystem: Metric,
		StageStep:  .3048, // 1 ft increments, the native resolution of most observed curves
		StageMax:   25. * .3048,
		Bankfull:   1.5,
		NchDefault: .06,
		NobDefault: .12,
		CalTol:     .05,
		CalBudget:  1500,
		CapOverMax: true,
		Workers:    4,
	}
}

func (c *Config) check() error {
	if c.StageStep <= 0. || c.StageMax <= c.StageStep {
		return fmt.Errorf("config.check: invalid stage sweep [%f, %f]", c.StageStep, c.StageMax)
	}
	if c.NchDefault <= 0. || c.NobDefault <= 0. {
		return fmt.Errorf("config.check: roughness defaults must be positive")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
