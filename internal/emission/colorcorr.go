package emission

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// ColorCorrFunc builds a thermal color-correction factor from a tabulated
// (temperature [K], factor) grid. The returned function multiplies the
// blackbody term of the integrand; outside the tabulated temperature span the
// endpoint factors are held constant. A nil or empty table yields a nil
// function, meaning no correction.
func ColorCorrFunc(table [][2]float64) (func(tempK float64) float64, error) {
	if len(table) == 0 {
		return nil, nil
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("color correction table needs at least 2 rows, got %d: %w", len(table), ErrValidation)
	}

	temps := make([]float64, len(table))
	factors := make([]float64, len(table))
	for i, row := range table {
		tk, f := row[0], row[1]
		if math.IsNaN(tk) || math.IsInf(tk, 0) || tk <= 0 {
			return nil, fmt.Errorf("color correction row %d: temperature %v K: %w: must be finite and positive", i, tk, ErrValidation)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return nil, fmt.Errorf("color correction row %d: factor %v: %w: must be finite and positive", i, f, ErrValidation)
		}
		if i > 0 && tk <= temps[i-1] {
			return nil, fmt.Errorf("color correction table not strictly ascending at row %d: %w", i, ErrValidation)
		}
		temps[i] = tk
		factors[i] = f
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(temps, factors); err != nil {
		return nil, fmt.Errorf("color correction table: %w", err)
	}
	lo, hi := temps[0], temps[len(temps)-1]

	return func(tempK float64) float64 {
		if tempK <= lo {
			return factors[0]
		}
		if tempK >= hi {
			return factors[len(factors)-1]
		}
		return pl.Predict(tempK)
	}, nil
}
