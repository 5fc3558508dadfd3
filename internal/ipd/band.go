package ipd

import (
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// BandParams parameterizes one migrating asteroidal dust band (Kelsall et al.
// 1998, eq. 8): material concentrated near a fixed proper inclination,
// tapered inside a minimum heliocentric distance.
type BandParams struct {
	Name string // band1, band2, band3

	N0           float64 // density at 3 AU [AU^-1]
	DeltaZetaDeg float64 // half-angular width of the band [deg]
	V            float64 // mid-plane depletion
	P            float64 // shape exponent
	DeltaR       float64 // inner radial cutoff [AU]

	InclDeg  float64
	OmegaDeg float64
}

// Band is one asteroidal dust band.
type Band struct {
	p            BandParams
	geo          geometry
	deltaZetaRad float64
}

// NewBand constructs an asteroidal band component.
func NewBand(p BandParams) *Band {
	return &Band{
		p:            p,
		geo:          newGeometry(p.InclDeg, p.OmegaDeg, coords.Vec3{}),
		deltaZetaRad: p.DeltaZetaDeg * math.Pi / 180,
	}
}

func (b *Band) Name() string { return b.p.Name }

// Density evaluates the band profile: a 1/r envelope shaped in elevation by
// exp(-(zeta/deltaZeta)^6) * (v + (zeta/deltaZeta)^p), with a steep
// (r/deltaR)^20 taper that removes material inside the parent-body orbit.
func (b *Band) Density(pos coords.Vec3, _ EvalContext) float64 {
	r, z := b.geo.midplane(pos)
	if r < minRadius {
		return 0
	}

	zdz := math.Abs(z) / r / b.deltaZetaRad
	zdz6 := zdz * zdz * zdz
	zdz6 *= zdz6

	envelope := 3 * b.p.N0 / r
	vertical := math.Exp(-zdz6) * (b.p.V + math.Pow(zdz, b.p.P))
	taper := 1 - math.Exp(-math.Pow(r/b.p.DeltaR, 20))

	return envelope * vertical * taper
}
