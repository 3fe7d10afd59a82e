package rating

import "math"

// ManningQ evaluates the open-channel flow equation
// Q = k/n · A · R^(2/3) · S^(1/2) with xarea the cross-section area [m²],
// hr the hydraulic radius [m] and slope dimensionless. k is 1 in SI.
func ManningQ(xarea, hr, slope, n, k float64) float64 {
	if xarea <= 0. || hr <= 0. || n <= 0. {
		return 0.
	}
	return k / n * xarea * math.Pow(hr, 2./3.) * math.Sqrt(slope)
}

// CompositeN area-weights the channel and overbank roughness coefficients.
func CompositeN(nch, nob, chfrac float64) float64 {
	if chfrac < 0. {
		chfrac = 0.
	} else if chfrac > 1. {
		chfrac = 1.
	}
	return nch*chfrac + nob*(1.-chfrac)
}
