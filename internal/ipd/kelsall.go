package ipd

import (
	"fmt"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/spectral"
)

// Static physical-model data: the Kelsall et al. (1998) geometry fitted to
// DIRBE, and the emissivity fits of the Planck 2013/2015/2018 and Odegard
// analyses layered on the same geometry.

// Dust temperature power law shared by all built-in models.
const (
	kelsallT0    = 286.0 // [K] at 1 AU
	kelsallDelta = 0.46686260861012945
)

// cloudOffset is the center of the smooth cloud; the ring and feature share
// the same offset in the K98 fit.
var cloudOffset = coords.Vec3{X: 0.011886855, Y: 0.0054765160, Z: -0.0021530347}

func kelsallComponents() []Component {
	return []Component{
		NewCloud(CloudParams{
			N0:    1.1344374e-7,
			Alpha: 1.3370697,
			Beta:  4.1415004,
			Gamma: 0.94206179,
			Mu:    0.18873176,

			InclDeg:  2.0335188,
			OmegaDeg: 77.657956,
			Offset:   cloudOffset,
		}),
		NewBand(BandParams{
			Name:         CompBand1,
			N0:           5.5890290e-10,
			DeltaZetaDeg: 8.7850534,
			V:            0.10,
			P:            4.0,
			DeltaR:       1.5,
			InclDeg:      0.56438265,
			OmegaDeg:     80.0,
		}),
		NewBand(BandParams{
			Name:         CompBand2,
			N0:           1.9877609e-9,
			DeltaZetaDeg: 1.9917032,
			V:            0.90,
			P:            4.0,
			DeltaR:       0.94121881,
			InclDeg:      1.2,
			OmegaDeg:     30.347476,
		}),
		NewBand(BandParams{
			Name:         CompBand3,
			N0:           1.4369827e-10,
			DeltaZetaDeg: 15.0,
			V:            0.05,
			P:            4.0,
			DeltaR:       1.5,
			InclDeg:      0.8,
			OmegaDeg:     80.0,
		}),
		NewRing(RingParams{
			N0:       1.8260528e-8,
			R0:       1.0281924,
			SigmaR:   0.025,
			SigmaZ:   0.054068037,
			InclDeg:  0.48707166,
			OmegaDeg: 22.278980,
			Offset:   cloudOffset,
		}),
		NewFeature(FeatureParams{
			N0:            1.9003053e-8,
			R0:            1.0579183,
			SigmaR:        0.10287315,
			SigmaZ:        0.091442964,
			ThetaDeg:      -10.0,
			SigmaThetaDeg: 12.115211,
			InclDeg:       0.48707166,
			OmegaDeg:      22.278980,
			Offset:        cloudOffset,
		}),
	}
}

// planckComponents is the K98 geometry without the ring and feature, which
// the Planck 2015/2018 and Odegard analyses do not fit.
func planckComponents() []Component {
	comps := kelsallComponents()
	return comps[:4]
}

// kelsallLOSStops caps the integration distance of the localized components;
// the ring and feature have vanished within a couple of AU of Earth's orbit.
var kelsallLOSStops = map[string]float64{
	CompRing:    2.25,
	CompFeature: 2.25,
}

// DIRBE photometric band centers, in ascending frequency.
var dirbeWavelensUm = []float64{240, 140, 100, 60, 25, 12, 4.9, 3.5, 2.2, 1.25}

const cMicronGHz = 299792.458 // c in um*GHz

func dirbeFreqsGHz() []float64 {
	out := make([]float64, len(dirbeWavelensUm))
	for i, w := range dirbeWavelensUm {
		out[i] = cMicronGHz / w
	}
	return out
}

// DIRBE spectral fits, ordered like dirbeWavelensUm (ascending frequency,
// i.e. 240 um first, 1.25 um last).
var (
	dirbeEmissivityCloud = []float64{
		0.51912085, 0.67694206, 0.64789882, 0.73338833, 1.0,
		0.95766915, 0.99740908, 1.6598924, 1.0, 1.0,
	}
	dirbeEmissivityBand = []float64{
		1.3996146, 1.1317240, 1.5167023, 1.2539242, 1.0,
		1.0127927, 0.35926452, 1.6598924, 1.0, 1.0,
	}
	dirbeEmissivityRing = []float64{
		1.4771899, 1.5515281, 1.0985347, 0.87266361, 1.0,
		1.0608769, 1.0675117, 1.6598924, 1.0, 1.0,
	}

	// Scattering matters only in the three near-infrared bands.
	dirbeAlbedoCloud = []float64{0, 0, 0, 0, 0, 0, 0, 0.21043660, 0.25521133, 0.20411940}
	dirbeAlbedoBand  = []float64{0, 0, 0, 0, 0, 0, 0, 0.28600498, 0.41715386, 0.33996760}
	dirbeAlbedoRing  = []float64{0, 0, 0, 0, 0, 0, 0, 0.24787504, 0.27373701, 0.23370755}

	dirbePhaseC0 = []float64{0, 0, 0, 0, 0, 0, 0, -0.43120000, -0.52670002, -0.94209999}
	dirbePhaseC1 = []float64{0, 0, 0, 0, 0, 0, 0, 0.17149999, 0.18719999, 0.12139999}
	dirbePhaseC2 = []float64{0, 0, 0, 0, 0, 0, 0, -0.63330001, -0.59829998, -0.16480000}

	// Solar spectral irradiance at 1 AU [MJy/sr].
	dirbeSolarIrradiance = []float64{
		1.5070802e4, 4.4344714e4, 8.6900564e4, 2.4127175e5, 1.3782594e6,
		5.7639036e6, 3.5733824e7, 6.4292872e7, 1.2309874e8, 2.3405606e8,
	}
)

// Planck HFI band centers [GHz].
var planckFreqsGHz = []float64{100, 143, 217, 353, 545, 857}

var (
	planck13Emissivity = map[string][]float64{
		CompCloud:   {0.012, 0.022, 0.051, 0.106, 0.167, 0.256},
		CompBand1:   {0.360, 0.681, 1.083, 1.296, 1.705, 2.282},
		CompBand2:   {0.132, 0.225, 0.281, 0.348, 0.380, 0.530},
		CompBand3:   {0.776, 1.305, 1.697, 1.768, 2.117, 2.520},
		CompRing:    {0.151, 0.243, 0.419, 0.487, 0.565, 0.832},
		CompFeature: {0.151, 0.243, 0.419, 0.487, 0.565, 0.832},
	}
	planck15Emissivity = map[string][]float64{
		CompCloud: {0.041, 0.055, 0.111, 0.195, 0.322, 0.477},
		CompBand1: {0.452, 0.735, 1.127, 1.380, 1.811, 2.400},
		CompBand2: {0.086, 0.137, 0.186, 0.251, 0.306, 0.409},
		CompBand3: {0.382, 0.618, 0.883, 1.011, 1.290, 1.660},
	}
	planck18Emissivity = map[string][]float64{
		CompCloud: {0.019, 0.036, 0.051, 0.106, 0.181, 0.301},
		CompBand1: {0.400, 0.691, 1.092, 1.317, 1.751, 2.350},
		CompBand2: {0.120, 0.199, 0.252, 0.322, 0.360, 0.480},
		CompBand3: {0.600, 0.990, 1.370, 1.520, 1.860, 2.250},
	}
	odegardEmissivity = map[string][]float64{
		CompCloud: {0.023, 0.041, 0.073, 0.133, 0.221, 0.351},
		CompBand1: {0.411, 0.702, 1.100, 1.330, 1.770, 2.370},
		CompBand2: {0.100, 0.170, 0.220, 0.290, 0.330, 0.450},
		CompBand3: {0.550, 0.920, 1.300, 1.460, 1.800, 2.190},
	}
)

func init() {
	dirbeTable, err := spectral.New(spectral.TableSpec{
		FreqsGHz: dirbeFreqsGHz(),
		Emissivity: map[string][]float64{
			CompCloud:   dirbeEmissivityCloud,
			CompBand1:   dirbeEmissivityBand,
			CompBand2:   dirbeEmissivityBand,
			CompBand3:   dirbeEmissivityBand,
			CompRing:    dirbeEmissivityRing,
			CompFeature: dirbeEmissivityRing,
		},
		Albedo: map[string][]float64{
			CompCloud:   dirbeAlbedoCloud,
			CompBand1:   dirbeAlbedoBand,
			CompBand2:   dirbeAlbedoBand,
			CompBand3:   dirbeAlbedoBand,
			CompRing:    dirbeAlbedoRing,
			CompFeature: dirbeAlbedoRing,
		},
		PhaseCoeffs:     [3][]float64{dirbePhaseC0, dirbePhaseC1, dirbePhaseC2},
		SolarIrradiance: dirbeSolarIrradiance,
	})
	if err != nil {
		panic(fmt.Sprintf("ipd: DIRBE table: %v", err))
	}
	mustRegister("DIRBE", kelsallComponents(), dirbeTable, kelsallLOSStops)

	for name, em := range map[string]map[string][]float64{
		"Planck13": planck13Emissivity,
		"Planck15": planck15Emissivity,
		"Planck18": planck18Emissivity,
		"Odegard":  odegardEmissivity,
	} {
		table, err := spectral.New(spectral.TableSpec{FreqsGHz: planckFreqsGHz, Emissivity: em})
		if err != nil {
			panic(fmt.Sprintf("ipd: %s table: %v", name, err))
		}
		comps := planckComponents()
		stops := map[string]float64(nil)
		if len(em) == 6 {
			comps = kelsallComponents()
			stops = kelsallLOSStops
		}
		mustRegister(name, comps, table, stops)
	}
}

func mustRegister(name string, comps []Component, table *spectral.Table, stops map[string]float64) {
	m, err := NewModel(name, comps, table, kelsallT0, kelsallDelta, stops)
	if err != nil {
		panic(fmt.Sprintf("ipd: model %s: %v", name, err))
	}
	if err := Register(m); err != nil {
		panic(fmt.Sprintf("ipd: model %s: %v", name, err))
	}
}
