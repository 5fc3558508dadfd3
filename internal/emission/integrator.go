package emission

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/ipd"
	"github.com/OpenSciViz/zodipy/internal/spectral"
)

// DefaultSteps is the default Gauss-Legendre quadrature order per component.
const DefaultSteps = 100

// unitTolerance bounds how far a pointing may deviate from unit length
// before it is rejected rather than renormalized.
const unitTolerance = 1e-6

// Integrator evaluates the line-of-sight radiance integral for one component
// with a fixed-order Gauss-Legendre rule. Zero value is not usable; both
// fields must be set.
type Integrator struct {
	Steps  int     // quadrature order, >= 1
	Cutoff float64 // integration stop in AU, >= 0

	// ColorCorr, when non-nil, multiplies the blackbody term by a
	// temperature-dependent bandpass correction factor.
	ColorCorr func(tempK float64) float64
}

// Validate rejects geometric inputs the integrand cannot handle. No input is
// silently clamped.
func (g Integrator) Validate(obs, dir coords.Vec3) error {
	if g.Steps < 1 {
		return fmt.Errorf("integration steps %d: %w: must be >= 1", g.Steps, ErrValidation)
	}
	if math.IsNaN(g.Cutoff) || math.IsInf(g.Cutoff, 0) || g.Cutoff < 0 {
		return fmt.Errorf("distance cutoff %v: %w: must be finite and >= 0", g.Cutoff, ErrValidation)
	}
	if !obs.IsFinite() {
		return fmt.Errorf("observer position %+v: %w: not finite", obs, ErrValidation)
	}
	if !dir.IsFinite() {
		return fmt.Errorf("direction %+v: %w: not finite", dir, ErrValidation)
	}
	if math.Abs(dir.Norm()-1) > unitTolerance {
		return fmt.Errorf("direction %+v: %w: not a unit vector (|v|=%v)", dir, ErrValidation, dir.Norm())
	}
	return nil
}

// Radiance integrates the emission of one component along observer + t*dir
// for t in [0, stop] and returns spectral radiance in MJy/sr.
//
// At each sample the integrand is
//
//	n(x) * [ emissivity * B(T(r), nu) + albedo * Phi(Theta) * F_sun(r) ]
//
// with T(r) = T0 * r^-delta and Theta the angle between the pointing and the
// heliocentric direction of the sample. The scattered term is evaluated only
// when the component has a nonzero albedo at this frequency. A ColorCorr
// function scales the blackbody term by its value at T(r).
func (g Integrator) Radiance(
	comp ipd.Component,
	sp spectral.Params,
	obs, dir coords.Vec3,
	ectx ipd.EvalContext,
	freqGHz, t0, delta float64,
	stop float64,
) (float64, error) {
	if err := g.Validate(obs, dir); err != nil {
		return 0, err
	}
	if stop > g.Cutoff {
		stop = g.Cutoff
	}
	if stop == 0 {
		return 0, nil
	}

	scattering := sp.Albedo > 0
	// Tabulated irradiance is in MJy; the integrand runs in SI.
	solarSI := sp.SolarIrradiance / MJyPerSI

	integrand := func(t float64) float64 {
		pos := obs.Add(dir.Scale(t))
		n := comp.Density(pos, ectx)
		if n == 0 {
			return 0
		}
		r := pos.Norm()

		temp := Temperature(r, t0, delta)
		emv := sp.Emissivity * Blackbody(temp, freqGHz)
		if g.ColorCorr != nil {
			emv *= g.ColorCorr(temp)
		}

		if scattering {
			cosTheta := dir.Dot(pos) / r
			theta := math.Acos(math.Max(-1, math.Min(1, cosTheta)))
			emv += sp.Albedo * PhaseFunction(theta, sp.PhaseCoeffs) * SolarFlux(solarSI, r)
		}

		return n * emv
	}

	si := quad.Fixed(integrand, 0, stop, g.Steps, nil, 0)
	rad := si * MJyPerSI

	if math.IsNaN(rad) || math.IsInf(rad, 0) {
		return 0, fmt.Errorf("component %s: non-finite radiance", comp.Name())
	}
	return rad, nil
}
