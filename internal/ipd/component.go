// Package ipd implements the interplanetary dust model: the geometric number
// density of each dust structure (smooth cloud, asteroidal bands, circumsolar
// ring, Earth-trailing feature) and the model registry that bundles components
// with their spectral parameter tables.
//
// Densities follow the Kelsall et al. (1998, ApJ 508, 44) parameterization.
// All positions are heliocentric mean-ecliptic Cartesian coordinates in AU;
// densities are in AU^-1 so that a line-of-sight integral over AU yields a
// dimensionless optical path weight.
package ipd

import (
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// Canonical component names shared by the component set and spectral tables.
const (
	CompCloud   = "cloud"
	CompBand1   = "band1"
	CompBand2   = "band2"
	CompBand3   = "band3"
	CompRing    = "ring"
	CompFeature = "feature"
)

// Minimum heliocentric distance at which densities are evaluated. Below this
// the r^-alpha fan and the T(r) power law blow up; the density contract
// returns exactly 0 instead.
const minRadius = 1e-4

// EvalContext carries per-evaluation state that is not part of the component
// geometry. The Earth-trailing feature is locked to the instantaneous Earth
// longitude, so it cannot be evaluated from the sample position alone.
type EvalContext struct {
	EarthLon float64 // heliocentric ecliptic longitude of Earth, radians
}

// Component is one dust structure. Density is pure and safe for concurrent
// use: components are immutable after construction.
type Component interface {
	Name() string

	// Density returns the dust number density (AU^-1) at a heliocentric
	// ecliptic position. Never negative; exactly 0 at the r=0 singularity
	// and outside any hard cutoff the component defines.
	Density(p coords.Vec3, ectx EvalContext) float64
}

// geometry holds the tilted, offset mid-plane every component variant shares:
// an inclination i and ascending node Omega relative to the ecliptic, plus a
// Cartesian offset from the Sun. Trig is precomputed once at construction.
type geometry struct {
	offset                               coords.Vec3
	sinOmega, cosOmega, sinIncl, cosIncl float64
}

func newGeometry(inclDeg, omegaDeg float64, offset coords.Vec3) geometry {
	incl := inclDeg * math.Pi / 180
	omega := omegaDeg * math.Pi / 180
	return geometry{
		offset:   offset,
		sinOmega: math.Sin(omega),
		cosOmega: math.Cos(omega),
		sinIncl:  math.Sin(incl),
		cosIncl:  math.Cos(incl),
	}
}

// midplane translates a heliocentric position into the component frame and
// returns the radial distance r from the component center and the height z
// above the tilted mid-plane.
func (g geometry) midplane(p coords.Vec3) (r, z float64) {
	d := p.Sub(g.offset)
	r = d.Norm()
	z = d.X*g.sinOmega*g.sinIncl - d.Y*g.cosOmega*g.sinIncl + d.Z*g.cosIncl
	return r, z
}

// prime returns the full component-frame coordinates. Only the feature needs
// the in-plane azimuth, so midplane is the common fast path.
func (g geometry) prime(p coords.Vec3) coords.Vec3 {
	return p.Sub(g.offset)
}
