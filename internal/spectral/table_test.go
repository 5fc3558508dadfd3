package spectral

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func testSpec() TableSpec {
	return TableSpec{
		FreqsGHz: []float64{100, 1000, 10000},
		Emissivity: map[string][]float64{
			"cloud": {1.0, 0.8, 0.6},
			"ring":  {1.0, 1.0, 1.0},
		},
		Albedo: map[string][]float64{
			"cloud": {0.0, 0.1, 0.2},
			"ring":  {0.0, 0.0, 0.0},
		},
		PhaseCoeffs: [3][]float64{
			{-0.9, -0.9, -0.9},
			{0.1, 0.2, 0.3},
			{-1.0, -2.0, -3.0},
		},
		SolarIrradiance: []float64{2.0, 4.0, 8.0},
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TableSpec)
	}{
		{"too few bins", func(s *TableSpec) { s.FreqsGHz = []float64{100} }},
		{"non-positive frequency", func(s *TableSpec) { s.FreqsGHz[0] = 0 }},
		{"not ascending", func(s *TableSpec) { s.FreqsGHz[1] = 50 }},
		{"length mismatch", func(s *TableSpec) { s.Emissivity["cloud"] = []float64{1, 2} }},
		{"albedo without emissivity", func(s *TableSpec) { s.Albedo["band"] = []float64{0, 0, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)
			if _, err := New(spec); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLookupExactAtGridNodes(t *testing.T) {
	tab, err := New(testSpec())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		freq string
		ghz  float64
		want Params
	}{
		{"low edge", 100, Params{Emissivity: 1.0}},
		{"middle", 1000, Params{
			Emissivity:      0.8,
			Albedo:          0.1,
			PhaseCoeffs:     [3]float64{-0.9, 0.2, -2.0},
			SolarIrradiance: 4.0,
		}},
		{"high edge", 10000, Params{
			Emissivity:      0.6,
			Albedo:          0.2,
			PhaseCoeffs:     [3]float64{-0.9, 0.3, -3.0},
			SolarIrradiance: 8.0,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.freq, func(t *testing.T) {
			got, err := tab.Lookup(tt.ghz, "cloud")
			if err != nil {
				t.Fatal(err)
			}
			if !paramsClose(got, tt.want, 1e-12) {
				t.Errorf("Lookup(%v) = %+v, want %+v", tt.ghz, got, tt.want)
			}
		})
	}
}

// TestLookupInterpolation verifies linearity in log10(freq) between nodes.
func TestLookupInterpolation(t *testing.T) {
	tab, err := New(testSpec())
	if err != nil {
		t.Fatal(err)
	}
	// Geometric midpoint of 100 and 1000 GHz is halfway in log space.
	mid := math.Sqrt(100 * 1000)
	got, err := tab.Lookup(mid, "cloud")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Emissivity-0.9) > 1e-12 {
		t.Errorf("emissivity at log midpoint = %v, want 0.9", got.Emissivity)
	}
	if math.Abs(got.Albedo-0.05) > 1e-12 {
		t.Errorf("albedo at log midpoint = %v, want 0.05", got.Albedo)
	}
}

// TestLookupZeroAlbedo verifies scattering parameters stay zero when the
// interpolated albedo is zero.
func TestLookupZeroAlbedo(t *testing.T) {
	tab, err := New(testSpec())
	if err != nil {
		t.Fatal(err)
	}
	got, err := tab.Lookup(500, "ring")
	if err != nil {
		t.Fatal(err)
	}
	if got.Albedo != 0 || got.PhaseCoeffs != [3]float64{} || got.SolarIrradiance != 0 {
		t.Errorf("zero-albedo lookup carried scattering params: %+v", got)
	}
}

func TestLookupErrors(t *testing.T) {
	tab, err := New(testSpec())
	if err != nil {
		t.Fatal(err)
	}
	for _, ghz := range []float64{99.9, 10000.1, math.NaN()} {
		if _, err := tab.Lookup(ghz, "cloud"); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Lookup(%v) error = %v, want ErrOutOfRange", ghz, err)
		}
	}
	if _, err := tab.Lookup(500, "nope"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("unknown component error = %v, want ErrUnknownComponent", err)
	}
}

func TestComponentsAndBounds(t *testing.T) {
	tab, err := New(testSpec())
	if err != nil {
		t.Fatal(err)
	}
	if got := tab.Components(); !reflect.DeepEqual(got, []string{"cloud", "ring"}) {
		t.Errorf("Components() = %v", got)
	}
	lo, hi := tab.Bounds()
	if lo != 100 || hi != 10000 {
		t.Errorf("Bounds() = (%v, %v), want (100, 10000)", lo, hi)
	}
}

func paramsClose(a, b Params, tol float64) bool {
	if math.Abs(a.Emissivity-b.Emissivity) > tol || math.Abs(a.Albedo-b.Albedo) > tol ||
		math.Abs(a.SolarIrradiance-b.SolarIrradiance) > tol {
		return false
	}
	for i := range a.PhaseCoeffs {
		if math.Abs(a.PhaseCoeffs[i]-b.PhaseCoeffs[i]) > tol {
			return false
		}
	}
	return true
}
