package emission

import (
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// Options tunes one emission batch. Zero values select defaults.
type Options struct {
	// ReturnComponents adds a per-component breakdown to the result.
	ReturnComponents bool

	// IntegrationSteps is the Gauss-Legendre quadrature order per component
	// (default DefaultSteps).
	IntegrationSteps int

	// DistanceCutoff stops the line-of-sight integral, in AU. Nil selects
	// ipd.DefaultCutoff; an explicit 0 yields zero radiance everywhere.
	// Component-specific stops still apply below it.
	DistanceCutoff *float64

	// Observer is the ephemeris body the sky is seen from (default "earth").
	Observer string

	// ObserverPosition, when set, overrides the ephemeris lookup with a
	// fixed heliocentric ecliptic position in AU. Earth is still resolved
	// from the ephemeris for the trailing feature.
	ObserverPosition *coords.Vec3

	// ColorCorr is an optional bandpass color-correction table of
	// (temperature [K], factor) rows with strictly ascending temperatures.
	// The factor multiplies the thermal term at the local dust temperature;
	// outside the tabulated span the endpoint factors are held.
	ColorCorr [][2]float64
}

// Request is one emission batch: every direction is evaluated at every time.
type Request struct {
	// Directions are unit pointing vectors in ecliptic coordinates.
	Directions []coords.Vec3

	// Times are the observation epochs. At least one is required.
	Times []time.Time

	// Frequency is the frequency or wavelength to evaluate at.
	Frequency Frequency

	Options Options
}

// FailedSample records one sample that could not be evaluated. Its radiance
// slot holds NaN.
type FailedSample struct {
	Index  int
	Reason string
}

// Result holds batch output. Sample index is
// timeIndex*len(Directions) + directionIndex, preserving input ordering
// regardless of worker scheduling.
type Result struct {
	FreqGHz float64

	// Radiance is the total zodiacal radiance per sample in MJy/sr.
	Radiance []float64

	// Components maps component name to its per-sample radiance. Only set
	// when Options.ReturnComponents; the values sum to Radiance.
	Components map[string][]float64

	// Failed lists samples reported as NaN. Empty on a clean batch.
	Failed []FailedSample
}
