package emission

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation marks malformed request inputs: bad frequencies, non-unit or
// non-finite directions, negative bounds. Validation failures are fatal for
// the whole request and are never retried or clamped.
var ErrValidation = errors.New("invalid input")

// FreqUnit names the unit a spectral coordinate is expressed in. Frequencies
// and wavelengths are accepted interchangeably and normalized to GHz at the
// boundary; the core only ever sees GHz.
type FreqUnit string

const (
	UnitHz     FreqUnit = "Hz"
	UnitGHz    FreqUnit = "GHz"
	UnitTHz    FreqUnit = "THz"
	UnitMeter  FreqUnit = "m"
	UnitMM     FreqUnit = "mm"
	UnitMicron FreqUnit = "um"
)

// Frequency is a spectral coordinate with an explicit unit.
type Frequency struct {
	Value float64
	Unit  FreqUnit
}

// GHz normalizes the coordinate to GHz, converting wavelengths via nu = c/lambda.
func (f Frequency) GHz() (float64, error) {
	if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) || f.Value <= 0 {
		return 0, fmt.Errorf("frequency %v %s: %w: must be positive and finite", f.Value, f.Unit, ErrValidation)
	}

	switch f.Unit {
	case UnitGHz:
		return f.Value, nil
	case UnitHz:
		return f.Value * 1e-9, nil
	case UnitTHz:
		return f.Value * 1e3, nil
	case UnitMeter:
		return speedOfLight / f.Value * 1e-9, nil
	case UnitMM:
		return speedOfLight / (f.Value * 1e-3) * 1e-9, nil
	case UnitMicron:
		return speedOfLight / (f.Value * 1e-6) * 1e-9, nil
	default:
		return 0, fmt.Errorf("frequency unit %q: %w: want one of Hz, GHz, THz, m, mm, um", f.Unit, ErrValidation)
	}
}
