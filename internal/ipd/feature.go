package ipd

import (
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// FeatureParams parameterizes the Earth-trailing blob (Kelsall et al. 1998,
// eq. 9): a density enhancement locked at a fixed longitude lag behind Earth.
type FeatureParams struct {
	N0            float64 // peak density [AU^-1]
	R0            float64 // radius of peak density [AU]
	SigmaR        float64 // radial Gaussian width [AU]
	SigmaZ        float64 // vertical exponential scale [AU]
	ThetaDeg      float64 // longitude offset from Earth [deg], negative trails
	SigmaThetaDeg float64 // longitude Gaussian width [deg]

	InclDeg  float64
	OmegaDeg float64
	Offset   coords.Vec3
}

// Feature is the Earth-trailing dust feature. Unlike the other components it
// depends on the instantaneous Earth longitude supplied in the EvalContext.
type Feature struct {
	p             FeatureParams
	geo           geometry
	thetaRad      float64
	sigmaThetaRad float64
}

// NewFeature constructs the Earth-trailing feature component.
func NewFeature(p FeatureParams) *Feature {
	return &Feature{
		p:             p,
		geo:           newGeometry(p.InclDeg, p.OmegaDeg, p.Offset),
		thetaRad:      p.ThetaDeg * math.Pi / 180,
		sigmaThetaRad: p.SigmaThetaDeg * math.Pi / 180,
	}
}

func (f *Feature) Name() string { return CompFeature }

// Density is the ring profile with an extra Gaussian in the longitude lag
// behind the current Earth position:
//
//	n = n0 * exp(-((r-R0)/sigmaR)^2 - |Z|/sigmaZ - (dTheta/sigmaTheta)^2)
func (f *Feature) Density(pos coords.Vec3, ectx EvalContext) float64 {
	d := f.geo.prime(pos)
	rad := d.Norm()
	if rad < minRadius {
		return 0
	}
	z := d.X*f.geo.sinOmega*f.geo.sinIncl - d.Y*f.geo.cosOmega*f.geo.sinIncl + d.Z*f.geo.cosIncl

	dTheta := math.Atan2(d.Y, d.X) - ectx.EarthLon - f.thetaRad
	for dTheta < -math.Pi {
		dTheta += 2 * math.Pi
	}
	for dTheta > math.Pi {
		dTheta -= 2 * math.Pi
	}

	dr := (rad - f.p.R0) / f.p.SigmaR
	dt := dTheta / f.sigmaThetaRad
	return f.p.N0 * math.Exp(-dr*dr-math.Abs(z)/f.p.SigmaZ-dt*dt)
}
