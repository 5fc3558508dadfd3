package ipd

import (
	"math"
	"testing"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// testComponents returns the built-in DIRBE component set keyed by name.
func testComponents(t *testing.T) map[string]Component {
	t.Helper()
	out := make(map[string]Component)
	for _, c := range kelsallComponents() {
		out[c.Name()] = c
	}
	return out
}

// TestDensityNonNegative samples every component over a coarse grid of the
// inner solar system and checks the density contract.
func TestDensityNonNegative(t *testing.T) {
	comps := testComponents(t)
	ectx := EvalContext{EarthLon: 1.3}

	for name, c := range comps {
		for x := -5.0; x <= 5.0; x += 1.25 {
			for y := -5.0; y <= 5.0; y += 1.25 {
				for z := -2.0; z <= 2.0; z += 0.5 {
					n := c.Density(coords.Vec3{X: x, Y: y, Z: z}, ectx)
					if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
						t.Fatalf("%s: density(%v,%v,%v) = %v", name, x, y, z, n)
					}
				}
			}
		}
	}
}

// TestDensityZeroAtOrigin verifies the r=0 singularity guard.
func TestDensityZeroAtOrigin(t *testing.T) {
	ectx := EvalContext{}
	for name, c := range testComponents(t) {
		// Sample at the component center itself, where r underflows the guard.
		var center coords.Vec3
		switch cc := c.(type) {
		case *Cloud:
			center = cc.p.Offset
		case *Ring:
			center = cc.p.Offset
		case *Feature:
			center = cc.p.Offset
		}
		if n := c.Density(center, ectx); n != 0 {
			t.Errorf("%s: density at center = %v, want 0", name, n)
		}
	}
}

// TestCloudProfile verifies the fan falls off with radius and with elevation
// above the mid-plane.
func TestCloudProfile(t *testing.T) {
	cloud := testComponents(t)["cloud"].(*Cloud)
	ectx := EvalContext{}

	inPlane1 := cloud.Density(coords.Vec3{X: 1}, ectx)
	inPlane2 := cloud.Density(coords.Vec3{X: 2}, ectx)
	if !(inPlane1 > inPlane2 && inPlane2 > 0) {
		t.Errorf("radial falloff violated: n(1 AU)=%v n(2 AU)=%v", inPlane1, inPlane2)
	}

	elevated := cloud.Density(coords.Vec3{X: 1, Z: 0.5}, ectx)
	if !(elevated < inPlane1) {
		t.Errorf("vertical falloff violated: mid-plane %v, elevated %v", inPlane1, elevated)
	}
}

// TestBandTaper verifies the inner cutoff removes band material well inside
// the parent-body orbit.
func TestBandTaper(t *testing.T) {
	band := testComponents(t)["band1"].(*Band)
	ectx := EvalContext{}

	inner := band.Density(coords.Vec3{X: 0.5}, ectx)
	outer := band.Density(coords.Vec3{X: 3.0}, ectx)
	if outer <= 0 {
		t.Fatalf("band density at 3 AU = %v, want > 0", outer)
	}
	if inner > outer*1e-6 {
		t.Errorf("inner taper too weak: n(0.5 AU)=%v vs n(3 AU)=%v", inner, outer)
	}
}

// TestRingPeak verifies the ring density peaks near its fitted radius.
func TestRingPeak(t *testing.T) {
	ring := testComponents(t)["ring"].(*Ring)
	ectx := EvalContext{}

	atPeak := ring.Density(coords.Vec3{X: ring.p.R0}, ectx)
	off := ring.Density(coords.Vec3{X: ring.p.R0 + 5*ring.p.SigmaR}, ectx)
	if !(atPeak > 10*off) {
		t.Errorf("ring not peaked: n(R0)=%v n(R0+5sigma)=%v", atPeak, off)
	}
}

// TestFeatureTrailsEarth verifies the blob sits at its longitude lag behind
// Earth and decays away from it.
func TestFeatureTrailsEarth(t *testing.T) {
	feature := testComponents(t)["feature"].(*Feature)
	earthLon := 0.8
	ectx := EvalContext{EarthLon: earthLon}

	at := func(lon float64) float64 {
		return feature.Density(coords.Vec3{
			X: feature.p.R0 * math.Cos(lon),
			Y: feature.p.R0 * math.Sin(lon),
		}, ectx)
	}

	lag := feature.thetaRad
	peak := at(earthLon + lag)
	leading := at(earthLon + lag + 4*feature.sigmaThetaRad)
	trailing := at(earthLon + lag - 4*feature.sigmaThetaRad)
	if !(peak > leading && peak > trailing) {
		t.Errorf("feature not peaked at lag: peak=%v leading=%v trailing=%v", peak, leading, trailing)
	}

	// The lag is measured from the instantaneous Earth longitude, so moving
	// Earth moves the blob with it.
	moved := feature.Density(coords.Vec3{
		X: feature.p.R0 * math.Cos(earthLon + lag),
		Y: feature.p.R0 * math.Sin(earthLon + lag),
	}, EvalContext{EarthLon: earthLon + 1.0})
	if !(moved < peak) {
		t.Errorf("feature did not follow Earth: fixed point %v after Earth moved, peak %v", moved, peak)
	}
}

// TestFeatureLongitudeWrap verifies the lag is evaluated on the circle, not
// the real line: equivalent Earth longitudes give identical densities.
func TestFeatureLongitudeWrap(t *testing.T) {
	feature := testComponents(t)["feature"].(*Feature)
	pos := coords.Vec3{X: feature.p.R0 * math.Cos(6.2), Y: feature.p.R0 * math.Sin(6.2)}

	a := feature.Density(pos, EvalContext{EarthLon: 6.2})
	b := feature.Density(pos, EvalContext{EarthLon: 6.2 - 2*math.Pi})
	if a <= 0 {
		t.Fatalf("density at peak longitude = %v, want > 0", a)
	}
	if math.Abs(a-b) > 1e-12*a {
		t.Errorf("equivalent Earth longitudes gave %v and %v", a, b)
	}
}
