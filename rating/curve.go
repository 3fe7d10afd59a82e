package rating

import (
	"github.com/maseology/mmio"
	"gonum.org/v1/gonum/interp"
)

// curve flags
const (
	CurveOK = iota
	CurveDegenerate
	CurveUncalibrated
	CurveLowConfidence
)

// Curve is the ordered stage→(discharge, area, volume) table of one reach,
// in the configured unit system. Discharge and area are non-decreasing in
// stage.
type Curve struct {
	RID   int
	Stage []float64
	Q     []float64
	Area  []float64
	Vol   []float64
	Flag  int
}

// QAt linearly interpolates discharge at the given stage; stages beyond the
// table clamp to its ends.
func (c *Curve) QAt(stage float64) float64 {
	n := len(c.Stage)
	if n == 0 {
		return 0.
	}
	if stage <= c.Stage[0] {
		return c.Q[0]
	}
	if stage >= c.Stage[n-1] {
		return c.Q[n-1]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(c.Stage, c.Q); err != nil {
		return 0.
	}
	return pl.Predict(stage)
}

// StageAt inverts the curve at discharge q, interpolating between bracketing
// entries. Discharge below the table minimum yields stage 0; above the
// maximum either caps at the table's last stage or extrapolates the last
// segment, and reports out-of-range either way.
func (c *Curve) StageAt(q float64, capOverMax bool) (stage float64, inRange bool) {
	n := len(c.Stage)
	if n == 0 || c.Flag == CurveDegenerate {
		return 0., q <= 0.
	}
	if q <= c.Q[0] {
		return c.Stage[0], true
	}
	if q > c.Q[n-1] {
		if capOverMax || n < 2 {
			return c.Stage[n-1], false
		}
		// extend the last rising segment
		i := n - 1
		for i > 0 && c.Q[i] <= c.Q[i-1] {
			i--
		}
		if i == 0 {
			return c.Stage[n-1], false
		}
		dq := c.Q[i] - c.Q[i-1]
		return c.Stage[i] + (q-c.Q[i])/dq*(c.Stage[i]-c.Stage[i-1]), false
	}

	// strictly increasing discharge knots; equal entries keep the lowest
	// stage so an exact table discharge round-trips to its table stage
	xs, ys := make([]float64, 0, n), make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if len(xs) > 0 && c.Q[i] <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, c.Q[i])
		ys = append(ys, c.Stage[i])
	}
	if len(xs) < 2 {
		return ys[0], true
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0., false
	}
	return pl.Predict(q), true
}

// SaveCSV writes the per-reach rating-curve tables.
func SaveCSV(fp string, curves []Curve) error {
	var rid, stg, q, a, v, flg []interface{}
	for _, c := range curves {
		for i := range c.Stage {
			rid = append(rid, c.RID)
			stg = append(stg, c.Stage[i])
			q = append(q, c.Q[i])
			a = append(a, c.Area[i])
			v = append(v, c.Vol[i])
			flg = append(flg, c.Flag)
		}
	}
	mmio.WriteCSV(fp, "feature_id,stage,discharge,area,volume,flag", rid, stg, q, a, v, flg)
	return nil
}
