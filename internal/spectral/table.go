// Package spectral holds the tabulated per-frequency source parameters of an
// interplanetary dust model (emissivity, albedo, phase-function coefficients,
// solar irradiance) and resolves arbitrary frequencies inside the tabulated
// span by interpolation. Tables are immutable after construction and safe for
// concurrent lookups.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// ErrOutOfRange is returned when a frequency falls outside the tabulated
// spectrum. The table never extrapolates: extrapolated DIRBE emissivities go
// negative within a decade of the band edges.
var ErrOutOfRange = errors.New("frequency outside tabulated spectrum")

// ErrUnknownComponent is returned for component names the table does not carry.
var ErrUnknownComponent = errors.New("component not in spectral table")

// Params holds the source parameters of one component at one frequency.
type Params struct {
	Emissivity      float64
	Albedo          float64
	PhaseCoeffs     [3]float64 // C0, C1, C2 of the scattering phase function
	SolarIrradiance float64    // solar spectral irradiance at 1 AU [MJy/sr]
}

// TableSpec is the raw model data a Table is built from. All value slices
// must have the same length as FreqsGHz; Albedo, PhaseCoeffs and
// SolarIrradiance may be omitted for pure-thermal models.
type TableSpec struct {
	FreqsGHz        []float64 // strictly ascending
	Emissivity      map[string][]float64
	Albedo          map[string][]float64
	PhaseCoeffs     [3][]float64
	SolarIrradiance []float64
}

// Table is an immutable spectral parameter table indexed by frequency and
// component name. Interpolation is piecewise linear in log10(frequency).
type Table struct {
	minGHz, maxGHz float64
	names          []string
	emissivity     map[string]interp.PiecewiseLinear
	albedo         map[string]interp.PiecewiseLinear
	phase          [3]interp.PiecewiseLinear
	solar          interp.PiecewiseLinear
	hasScattering  bool
}

// New builds a Table from raw model data. The frequency grid must be strictly
// ascending with at least two bins, and every parameter slice must match its
// length.
func New(spec TableSpec) (*Table, error) {
	n := len(spec.FreqsGHz)
	if n < 2 {
		return nil, fmt.Errorf("spectral table needs at least 2 frequency bins, got %d", n)
	}
	logFreq := make([]float64, n)
	for i, f := range spec.FreqsGHz {
		if f <= 0 {
			return nil, fmt.Errorf("frequency bin %d is %v GHz, must be positive", i, f)
		}
		if i > 0 && f <= spec.FreqsGHz[i-1] {
			return nil, fmt.Errorf("frequency grid not strictly ascending at bin %d", i)
		}
		logFreq[i] = math.Log10(f)
	}

	t := &Table{
		minGHz:     spec.FreqsGHz[0],
		maxGHz:     spec.FreqsGHz[n-1],
		emissivity: make(map[string]interp.PiecewiseLinear, len(spec.Emissivity)),
		albedo:     make(map[string]interp.PiecewiseLinear, len(spec.Albedo)),
	}

	for name, vals := range spec.Emissivity {
		pl, err := fit(logFreq, vals, "emissivity", name)
		if err != nil {
			return nil, err
		}
		t.emissivity[name] = pl
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	for name, vals := range spec.Albedo {
		if _, ok := spec.Emissivity[name]; !ok {
			return nil, fmt.Errorf("albedo given for %q which has no emissivity row", name)
		}
		pl, err := fit(logFreq, vals, "albedo", name)
		if err != nil {
			return nil, err
		}
		t.albedo[name] = pl
		t.hasScattering = true
	}

	if t.hasScattering {
		for i := range spec.PhaseCoeffs {
			pl, err := fit(logFreq, spec.PhaseCoeffs[i], "phase coefficient", fmt.Sprintf("C%d", i))
			if err != nil {
				return nil, err
			}
			t.phase[i] = pl
		}
		pl, err := fit(logFreq, spec.SolarIrradiance, "solar irradiance", "")
		if err != nil {
			return nil, err
		}
		t.solar = pl
	}

	return t, nil
}

func fit(logFreq, vals []float64, what, name string) (interp.PiecewiseLinear, error) {
	var pl interp.PiecewiseLinear
	if len(vals) != len(logFreq) {
		return pl, fmt.Errorf("%s %s: %d values for %d frequency bins", what, name, len(vals), len(logFreq))
	}
	if err := pl.Fit(logFreq, vals); err != nil {
		return pl, fmt.Errorf("%s %s: %w", what, name, err)
	}
	return pl, nil
}

// Components returns the component names the table carries, sorted.
func (t *Table) Components() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Bounds returns the tabulated frequency span in GHz.
func (t *Table) Bounds() (minGHz, maxGHz float64) {
	return t.minGHz, t.maxGHz
}

// Lookup resolves the source parameters of a component at a frequency inside
// the tabulated span. Frequencies outside the span return ErrOutOfRange
// wrapped with the span; unknown components return ErrUnknownComponent.
func (t *Table) Lookup(freqGHz float64, component string) (Params, error) {
	if math.IsNaN(freqGHz) || freqGHz < t.minGHz || freqGHz > t.maxGHz {
		return Params{}, fmt.Errorf("%v GHz: %w [%v, %v] GHz", freqGHz, ErrOutOfRange, t.minGHz, t.maxGHz)
	}
	em, ok := t.emissivity[component]
	if !ok {
		return Params{}, fmt.Errorf("%q: %w", component, ErrUnknownComponent)
	}

	x := math.Log10(freqGHz)
	p := Params{Emissivity: em.Predict(x)}

	if al, ok := t.albedo[component]; ok {
		p.Albedo = al.Predict(x)
		if p.Albedo > 0 {
			for i := range t.phase {
				p.PhaseCoeffs[i] = t.phase[i].Predict(x)
			}
			p.SolarIrradiance = t.solar.Predict(x)
		}
	}
	return p, nil
}
