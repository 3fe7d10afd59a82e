package fim

import "fmt"

// ErrKind classifies per-unit and per-reach failures so downstream consumers
// can detect degraded results without parsing log text.
type ErrKind int

const (
	OK ErrKind = iota
	InputMissingOrInvalid
	ConditioningError
	DelineationGap
	DegenerateCurve
	CalibrationNonConvergence
	RenderOutOfRange
)

func (k ErrKind) String() string {
	switch k {
	case OK:
		return "ok"
	case InputMissingOrInvalid:
		return "input-missing-or-invalid"
	case ConditioningError:
		return "conditioning-error"
	case DelineationGap:
		return "delineation-gap"
	case DegenerateCurve:
		return "degenerate-curve"
	case CalibrationNonConvergence:
		return "calibration-non-convergence"
	case RenderOutOfRange:
		return "render-out-of-range"
	}
	return "unknown"
}

// UnitError carries the failure class alongside the hydrologic unit it
// occurred in. A UnitError never aborts sibling units.
type UnitError struct {
	Kind ErrKind
	Huc  string
	msg  string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Huc, e.Kind, e.msg)
}

func errf(kind ErrKind, huc, format string, args ...interface{}) *UnitError {
	return &UnitError{Kind: kind, Huc: huc, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure class from an error chain, OK for nil.
func KindOf(err error) ErrKind {
	if err == nil {
		return OK
	}
	if ue, ok := err.(*UnitError); ok {
		return ue.Kind
	}
	return InputMissingOrInvalid
}
