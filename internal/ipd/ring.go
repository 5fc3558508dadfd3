package ipd

import (
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// RingParams parameterizes the circumsolar resonance ring (Kelsall et al.
// 1998, eq. 9): dust trapped near 1 AU in mean-motion resonances with Earth.
type RingParams struct {
	N0     float64 // peak density [AU^-1]
	R0     float64 // radius of peak density [AU]
	SigmaR float64 // radial Gaussian width [AU]
	SigmaZ float64 // vertical exponential scale [AU]

	InclDeg  float64
	OmegaDeg float64
	Offset   coords.Vec3
}

// Ring is the circumsolar dust ring.
type Ring struct {
	p   RingParams
	geo geometry
}

// NewRing constructs the circumsolar ring component.
func NewRing(p RingParams) *Ring {
	return &Ring{p: p, geo: newGeometry(p.InclDeg, p.OmegaDeg, p.Offset)}
}

func (r *Ring) Name() string { return CompRing }

// Density is Gaussian in radius about R0 and exponential in height:
//
//	n(r, Z) = n0 * exp(-((r-R0)/sigmaR)^2 - |Z|/sigmaZ)
func (r *Ring) Density(pos coords.Vec3, _ EvalContext) float64 {
	rad, z := r.geo.midplane(pos)
	if rad < minRadius {
		return 0
	}

	dr := (rad - r.p.R0) / r.p.SigmaR
	return r.p.N0 * math.Exp(-dr*dr-math.Abs(z)/r.p.SigmaZ)
}
