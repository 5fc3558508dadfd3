package ipd

import (
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// CloudParams parameterizes the smooth diffuse cloud: a widened fan with a
// modified vertical profile (Kelsall et al. 1998, eq. 4-6).
type CloudParams struct {
	N0    float64 // density at 1 AU [AU^-1]
	Alpha float64 // radial power-law exponent
	Beta  float64 // vertical exponential coefficient
	Gamma float64 // vertical power
	Mu    float64 // widening parameter of the inner fan

	InclDeg  float64 // mid-plane inclination [deg]
	OmegaDeg float64 // ascending node [deg]
	Offset   coords.Vec3
}

// Cloud is the smooth interplanetary dust cloud.
type Cloud struct {
	p   CloudParams
	geo geometry
}

// NewCloud constructs the diffuse cloud component.
func NewCloud(p CloudParams) *Cloud {
	return &Cloud{p: p, geo: newGeometry(p.InclDeg, p.OmegaDeg, p.Offset)}
}

func (c *Cloud) Name() string { return CompCloud }

// Density implements the widened modified fan:
//
//	n(r, Z) = n0 * r^-alpha * exp(-beta * g^gamma)
//
// where g smooths the |Z|/r elevation below the widening parameter mu.
func (c *Cloud) Density(pos coords.Vec3, _ EvalContext) float64 {
	r, z := c.geo.midplane(pos)
	if r < minRadius {
		return 0
	}

	zeta := math.Abs(z) / r
	var g float64
	if zeta < c.p.Mu {
		g = zeta * zeta / (2 * c.p.Mu)
	} else {
		g = zeta - c.p.Mu/2
	}

	return c.p.N0 * math.Pow(r, -c.p.Alpha) * math.Exp(-c.p.Beta*math.Pow(g, c.p.Gamma))
}
