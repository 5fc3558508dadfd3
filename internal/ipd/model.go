package ipd

import (
	"fmt"

	"github.com/OpenSciViz/zodipy/internal/spectral"
)

// DefaultCutoff is the line-of-sight integration stop used when neither the
// model nor the caller supplies one. Beyond ~30 AU every component density
// has decayed to a negligible level.
const DefaultCutoff = 30.0

// Model bundles an ordered set of dust components with the spectral
// parameter table that describes how they emit and scatter. Models are
// immutable after construction and shared by all computations.
type Model struct {
	name    string
	comps   []Component
	table   *spectral.Table
	t0      float64 // dust temperature at 1 AU [K]
	delta   float64 // temperature power-law exponent
	losStop map[string]float64
}

// NewModel validates and assembles a model. Every component must have a row
// in the spectral table and vice versa; losStop optionally caps the
// integration distance of individual components (the localized ring and
// feature need only a few AU).
func NewModel(name string, comps []Component, table *spectral.Table, t0, delta float64, losStop map[string]float64) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("model name must not be empty")
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("model %s: no components", name)
	}
	if t0 <= 0 || delta <= 0 {
		return nil, fmt.Errorf("model %s: T0=%v delta=%v, both must be positive", name, t0, delta)
	}

	seen := make(map[string]bool, len(comps))
	for _, c := range comps {
		if seen[c.Name()] {
			return nil, fmt.Errorf("model %s: duplicate component %q", name, c.Name())
		}
		seen[c.Name()] = true
	}

	tabled := table.Components()
	if len(tabled) != len(comps) {
		return nil, fmt.Errorf("model %s: %d components but %d spectral rows", name, len(comps), len(tabled))
	}
	for _, n := range tabled {
		if !seen[n] {
			return nil, fmt.Errorf("model %s: spectral table row %q has no component", name, n)
		}
	}
	for n := range losStop {
		if !seen[n] {
			return nil, fmt.Errorf("model %s: losStop for unknown component %q", name, n)
		}
	}

	stops := make(map[string]float64, len(losStop))
	for k, v := range losStop {
		stops[k] = v
	}

	return &Model{
		name:    name,
		comps:   comps,
		table:   table,
		t0:      t0,
		delta:   delta,
		losStop: stops,
	}, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Components returns the ordered component set. The slice is shared;
// callers must not mutate it.
func (m *Model) Components() []Component { return m.comps }

// Table returns the spectral parameter table.
func (m *Model) Table() *spectral.Table { return m.table }

// T0 returns the dust temperature at 1 AU in kelvin.
func (m *Model) T0() float64 { return m.t0 }

// Delta returns the temperature power-law exponent.
func (m *Model) Delta() float64 { return m.delta }

// LOSStop returns the integration stop distance for a component, capped by
// the caller-supplied cutoff.
func (m *Model) LOSStop(component string, cutoff float64) float64 {
	stop := cutoff
	if s, ok := m.losStop[component]; ok && s < stop {
		stop = s
	}
	return stop
}
