package emission

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/ipd"
	"github.com/OpenSciViz/zodipy/internal/spectral"
)

const (
	testT0    = 286.0
	testDelta = 0.46686260861012945
)

func testCloud() ipd.Component {
	return ipd.NewCloud(ipd.CloudParams{
		N0:       1.1344374e-7,
		Alpha:    1.3370697,
		Beta:     4.1415004,
		Gamma:    0.94206179,
		Mu:       0.18873176,
		InclDeg:  2.0335188,
		OmegaDeg: 77.657956,
	})
}

func TestIntegratorValidate(t *testing.T) {
	obs := coords.Vec3{X: 1}
	dir := coords.Vec3{X: 1}

	tests := []struct {
		name  string
		integ Integrator
		obs   coords.Vec3
		dir   coords.Vec3
	}{
		{"zero steps", Integrator{Steps: 0, Cutoff: 30}, obs, dir},
		{"negative cutoff", Integrator{Steps: 50, Cutoff: -1}, obs, dir},
		{"nan cutoff", Integrator{Steps: 50, Cutoff: math.NaN()}, obs, dir},
		{"inf cutoff", Integrator{Steps: 50, Cutoff: math.Inf(1)}, obs, dir},
		{"nan observer", Integrator{Steps: 50, Cutoff: 30}, coords.Vec3{X: math.NaN()}, dir},
		{"nan direction", Integrator{Steps: 50, Cutoff: 30}, obs, coords.Vec3{X: math.NaN()}},
		{"non-unit direction", Integrator{Steps: 50, Cutoff: 30}, obs, coords.Vec3{X: 2}},
		{"zero direction", Integrator{Steps: 50, Cutoff: 30}, obs, coords.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.integ.Validate(tt.obs, tt.dir); !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	if err := (Integrator{Steps: 50, Cutoff: 30}).Validate(obs, dir); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}

func TestRadianceThermal(t *testing.T) {
	comp := testCloud()
	sp := spectral.Params{Emissivity: 1}
	obs := coords.Vec3{X: 1}
	dir := coords.Vec3{Y: 1} // 90 deg elongation, in-plane
	integ := Integrator{Steps: 100, Cutoff: 30}

	rad, err := integ.Radiance(comp, sp, obs, dir, ipd.EvalContext{}, 857, testT0, testDelta, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !(rad > 0) || math.IsInf(rad, 0) {
		t.Fatalf("radiance = %v, want finite positive", rad)
	}

	// Emissivity scales the thermal term linearly.
	half, err := integ.Radiance(comp, spectral.Params{Emissivity: 0.5}, obs, dir, ipd.EvalContext{}, 857, testT0, testDelta, 30)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(half-rad/2)/rad > 1e-12 {
		t.Errorf("emissivity not linear: %v vs %v/2", half, rad)
	}
}

func TestRadianceStopHandling(t *testing.T) {
	comp := testCloud()
	sp := spectral.Params{Emissivity: 1}
	obs := coords.Vec3{X: 1}
	dir := coords.Vec3{Y: 1}
	integ := Integrator{Steps: 100, Cutoff: 30}
	ectx := ipd.EvalContext{}

	zero, err := integ.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 0)
	if err != nil {
		t.Fatal(err)
	}
	if zero != 0 {
		t.Errorf("radiance with stop=0 is %v, want 0", zero)
	}

	near, err := integ.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 5)
	if err != nil {
		t.Fatal(err)
	}
	far, err := integ.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !(near < far) {
		t.Errorf("radiance not increasing with stop: %v (5 AU) vs %v (30 AU)", near, far)
	}

	// A stop beyond the cutoff is trimmed to the cutoff.
	beyond, err := integ.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 100)
	if err != nil {
		t.Fatal(err)
	}
	if beyond != far {
		t.Errorf("stop beyond cutoff: %v, want %v", beyond, far)
	}
}

// TestRadianceConvergence verifies the quadrature has converged at the
// default order: doubling the steps moves the answer by less than a part
// in 10^4.
func TestRadianceConvergence(t *testing.T) {
	comp := testCloud()
	sp := spectral.Params{Emissivity: 1}
	obs := coords.Vec3{X: 1}
	ectx := ipd.EvalContext{}

	for _, dir := range []coords.Vec3{
		{Y: 1},
		coords.SphToVec(math.Pi/2, math.Pi-0.4), // 23 deg elongation, dense inner dust
		coords.SphToVec(math.Pi/4, 2.0),
	} {
		a, err := Integrator{Steps: DefaultSteps, Cutoff: 30}.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 30)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Integrator{Steps: 2 * DefaultSteps, Cutoff: 30}.Radiance(comp, sp, obs, dir, ectx, 857, testT0, testDelta, 30)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(a-b)/b > 1e-4 {
			t.Errorf("dir %+v: quadrature not converged: %v vs %v", dir, a, b)
		}
	}
}

// TestRadianceScattering verifies the scattered term adds to the thermal one
// when the albedo is nonzero.
func TestRadianceScattering(t *testing.T) {
	comp := testCloud()
	obs := coords.Vec3{X: 1}
	dir := coords.Vec3{Y: 1}
	integ := Integrator{Steps: 100, Cutoff: 30}
	ectx := ipd.EvalContext{}
	freq := 299792.458 / 1.25 // 1.25 um band, where scattering matters

	thermal := spectral.Params{Emissivity: 1}
	scattering := spectral.Params{
		Emissivity:      1,
		Albedo:          0.204,
		PhaseCoeffs:     [3]float64{-0.94209999, 0.12139999, -0.16480000},
		SolarIrradiance: 2.3405606e8,
	}

	a, err := integ.Radiance(comp, thermal, obs, dir, ectx, freq, testT0, testDelta, 30)
	if err != nil {
		t.Fatal(err)
	}
	b, err := integ.Radiance(comp, scattering, obs, dir, ectx, freq, testT0, testDelta, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !(b > a) {
		t.Errorf("scattering did not add radiance: thermal %v, with albedo %v", a, b)
	}
}

// nanComponent fails on demand: NaN density for positions with Y > 0.
type nanComponent struct{}

func (nanComponent) Name() string { return "cloud" }

func (nanComponent) Density(p coords.Vec3, _ ipd.EvalContext) float64 {
	if p.Y > 0 {
		return math.NaN()
	}
	return 1e-8
}

func TestRadianceNonFinite(t *testing.T) {
	integ := Integrator{Steps: 50, Cutoff: 30}
	_, err := integ.Radiance(nanComponent{}, spectral.Params{Emissivity: 1},
		coords.Vec3{X: 1}, coords.Vec3{Y: 1}, ipd.EvalContext{}, 857, testT0, testDelta, 30)
	if err == nil {
		t.Fatal("expected error for non-finite integrand")
	}
}
