package emission

import (
	"math"
	"sync/atomic"
)

// Physical constants (SI, CODATA 2018).
const (
	planckH      = 6.62607015e-34 // J s
	speedOfLight = 2.99792458e8   // m/s
	boltzmannK   = 1.380649e-23   // J/K
)

// MJyPerSI converts W m^-2 Hz^-1 sr^-1 to MJy/sr.
const MJyPerSI = 1e20

// phaseClamps counts scattering-angle evaluations where the fitted phase
// function went negative and was clamped to zero. A handful per batch is
// expected at extreme angles near the spectrum edges; the orchestrator logs
// the count instead of failing the samples.
var phaseClamps atomic.Int64

// PhaseClampCount returns the cumulative number of clamped phase evaluations.
func PhaseClampCount() int64 { return phaseClamps.Load() }

// Blackbody returns the Planck spectral radiance B(T, nu) in
// W m^-2 Hz^-1 sr^-1 for a temperature in kelvin and a frequency in GHz.
func Blackbody(tempK, freqGHz float64) float64 {
	if tempK <= 0 {
		return 0
	}
	nu := freqGHz * 1e9
	num := 2 * planckH * nu * nu * nu / (speedOfLight * speedOfLight)
	return num / math.Expm1(planckH*nu/(boltzmannK*tempK))
}

// Temperature returns the dust temperature T0 * r^-delta at a heliocentric
// distance r in AU.
func Temperature(r, t0, delta float64) float64 {
	return t0 * math.Pow(r, -delta)
}

// PhaseFunction evaluates the normalized scattering phase function
//
//	Phi(Theta) = N * (C0 + C1*Theta + exp(C2*Theta))
//
// at a scattering angle in radians. N is the analytic normalization that
// makes Phi integrate to unity over the sphere, so the scattered term does
// not depend on quadrature resolution. Negative fitted values are clamped
// to zero and counted.
func PhaseFunction(theta float64, c [3]float64) float64 {
	if theta < 0 {
		theta = 0
	} else if theta > math.Pi {
		theta = math.Pi
	}

	v := c[0] + c[1]*theta + math.Exp(c[2]*theta)
	if v < 0 {
		phaseClamps.Add(1)
		return 0
	}
	return phaseNorm(c) * v
}

// phaseNorm returns the closed-form normalization constant:
//
//	1 / (2*pi * [2*C0 + pi*C1 + (exp(C2*pi)+1)/(C2^2+1)])
//
// from integrating each term of the phase function against sin(Theta).
func phaseNorm(c [3]float64) float64 {
	expTerm := (math.Exp(c[2]*math.Pi) + 1) / (c[2]*c[2] + 1)
	return 1 / (2 * math.Pi * (2*c[0] + math.Pi*c[1] + expTerm))
}

// SolarFlux returns the solar spectral flux at a heliocentric distance r in
// AU given the 1 AU irradiance, using the inverse-square law.
func SolarFlux(irradiance1AU, r float64) float64 {
	return irradiance1AU / (r * r)
}
