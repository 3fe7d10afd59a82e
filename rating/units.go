package rating

import fim "github.com/fernando-aristizabal/inundation-mapping"

// geometry is always computed in SI; conversion happens at the table
// boundary so observed data and emitted curves stay in the configured units.
const (
	ft     = .3048
	sqft   = ft * ft
	cuft   = ft * ft * ft
	cfsCms = cuft // 1 cfs in m³/s
)

// StageSI converts a stage in configured units to metres.
func StageSI(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v * ft
	}
	return v
}

// StageOut converts a stage in metres to configured units.
func StageOut(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v / ft
	}
	return v
}

// FlowSI converts a discharge in configured units to m³/s.
func FlowSI(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v * cfsCms
	}
	return v
}

// FlowOut converts a discharge in m³/s to configured units.
func FlowOut(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v / cfsCms
	}
	return v
}

func areaOut(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v / sqft
	}
	return v
}

func volOut(v float64, unitSystem int) float64 {
	if unitSystem == fim.Imperial {
		return v / cuft
	}
	return v
}
