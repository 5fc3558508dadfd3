package emission

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/ephem"
	"github.com/OpenSciViz/zodipy/internal/ipd"
	"github.com/OpenSciViz/zodipy/internal/metrics"
	"github.com/OpenSciViz/zodipy/internal/spectral"
)

// Config holds simulator configuration.
type Config struct {
	Workers       int     // worker pool size
	DefaultSteps  int     // quadrature order when the request gives none
	DefaultCutoff float64 // integration stop in AU when the request gives none
}

// Simulator drives emission batches: it resolves observer geometry through
// the ephemeris provider, fans (direction, time) samples out to the worker
// pool, and assembles order-preserving results. The model and spectral table
// are immutable, so a single Simulator serves concurrent batches.
type Simulator struct {
	model    *ipd.Model
	provider ephem.Provider
	pool     *WorkerPool
	config   Config
	logger   *slog.Logger
}

// NewSimulator creates a simulation orchestrator.
func NewSimulator(model *ipd.Model, provider ephem.Provider, config Config, logger *slog.Logger) *Simulator {
	if config.DefaultSteps < 1 {
		config.DefaultSteps = DefaultSteps
	}
	if config.DefaultCutoff <= 0 {
		config.DefaultCutoff = ipd.DefaultCutoff
	}
	return &Simulator{
		model:    model,
		provider: provider,
		pool:     NewWorkerPool(config.Workers, logger),
		config:   config,
		logger:   logger,
	}
}

// Model returns the dust model the simulator evaluates.
func (s *Simulator) Model() *ipd.Model { return s.model }

// Emission evaluates one batch. Request-level problems (bad frequency,
// malformed directions, ephemeris failures) abort with an error;
// per-sample numerical failures are isolated as NaN slots plus Failed
// entries, never failing the rest of the batch.
func (s *Simulator) Emission(ctx context.Context, req Request) (*Result, error) {
	freqGHz, err := req.Frequency.GHz()
	if err != nil {
		return nil, err
	}
	if len(req.Directions) == 0 {
		return nil, fmt.Errorf("no directions given: %w", ErrValidation)
	}
	if len(req.Times) == 0 {
		return nil, fmt.Errorf("no observation times given: %w", ErrValidation)
	}

	opts := req.Options
	if opts.IntegrationSteps == 0 {
		opts.IntegrationSteps = s.config.DefaultSteps
	}
	if opts.IntegrationSteps < 1 {
		return nil, fmt.Errorf("integration steps %d: %w: must be >= 1", opts.IntegrationSteps, ErrValidation)
	}
	cutoff := s.config.DefaultCutoff
	if opts.DistanceCutoff != nil {
		cutoff = *opts.DistanceCutoff
	}
	observer := opts.Observer
	if observer == "" {
		observer = "earth"
	}

	corr, err := ColorCorrFunc(opts.ColorCorr)
	if err != nil {
		return nil, err
	}

	integ := Integrator{Steps: opts.IntegrationSteps, Cutoff: cutoff, ColorCorr: corr}

	// Reject malformed pointings before any ephemeris or integration work.
	for i, dir := range req.Directions {
		if err := integ.Validate(coords.Vec3{}, dir); err != nil {
			return nil, fmt.Errorf("direction %d: %w", i, err)
		}
	}

	// Spectral parameters depend only on the frequency; resolve once.
	comps := s.model.Components()
	params := make([]spectral.Params, len(comps))
	stops := make([]float64, len(comps))
	for i, c := range comps {
		p, err := s.model.Table().Lookup(freqGHz, c.Name())
		if err != nil {
			return nil, err
		}
		params[i] = p
		stops[i] = s.model.LOSStop(c.Name(), cutoff)
	}

	nSamples := len(req.Times) * len(req.Directions)
	res := &Result{
		FreqGHz:  freqGHz,
		Radiance: make([]float64, nSamples),
	}
	if opts.ReturnComponents {
		res.Components = make(map[string][]float64, len(comps))
		for _, c := range comps {
			res.Components[c.Name()] = make([]float64, nSamples)
		}
	}

	jobs := make([]sampleJob, 0, nSamples)
	for ti, t := range req.Times {
		earth, err := s.provider.EarthPosition(t)
		if err != nil {
			return nil, fmt.Errorf("earth position at %s: %w", t.UTC().Format(time.RFC3339), err)
		}
		obs := earth
		if opts.ObserverPosition != nil {
			obs = *opts.ObserverPosition
		} else if observer != "earth" {
			obs, err = s.provider.ObserverPosition(observer, t)
			if err != nil {
				return nil, fmt.Errorf("observer %q at %s: %w", observer, t.UTC().Format(time.RFC3339), err)
			}
		}
		if !obs.IsFinite() {
			return nil, fmt.Errorf("observer position %+v: %w: not finite", obs, ErrValidation)
		}

		ectx := ipd.EvalContext{EarthLon: earth.Lon()}

		for di, dir := range req.Directions {
			index := ti*len(req.Directions) + di
			dir := dir
			jobs = append(jobs, sampleJob{
				index: index,
				eval: func() sampleResult {
					return s.evalSample(index, comps, params, stops, integ, obs, dir, ectx, freqGHz)
				},
			})
		}
	}

	start := time.Now()
	clampsBefore := PhaseClampCount()

	err = s.pool.Run(ctx, jobs, func(r sampleResult) {
		if r.err != nil {
			res.Radiance[r.index] = math.NaN()
			res.Failed = append(res.Failed, FailedSample{Index: r.index, Reason: r.err.Error()})
			if opts.ReturnComponents {
				for _, c := range comps {
					res.Components[c.Name()][r.index] = math.NaN()
				}
			}
			return
		}
		res.Radiance[r.index] = r.total
		if opts.ReturnComponents {
			for i, c := range comps {
				res.Components[c.Name()][r.index] = r.comps[i]
			}
		}
	})
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	metrics.RecordSimulation(duration, nSamples, len(res.Failed))

	if clamped := PhaseClampCount() - clampsBefore; clamped > 0 {
		s.logger.Warn("phase function clamped at extreme scattering angles",
			"clamped_evaluations", clamped,
			"freq_ghz", freqGHz,
		)
	}
	if len(res.Failed) > 0 {
		s.logger.Warn("batch finished with failed samples",
			"failed", len(res.Failed),
			"samples", nSamples,
		)
	}
	s.logger.Debug("emission batch complete",
		"samples", nSamples,
		"directions", len(req.Directions),
		"times", len(req.Times),
		"freq_ghz", freqGHz,
		"steps", opts.IntegrationSteps,
		"duration_ms", duration.Milliseconds(),
	)

	return res, nil
}

// evalSample integrates every component along one line of sight.
func (s *Simulator) evalSample(
	index int,
	comps []ipd.Component,
	params []spectral.Params,
	stops []float64,
	integ Integrator,
	obs, dir coords.Vec3,
	ectx ipd.EvalContext,
	freqGHz float64,
) sampleResult {
	out := sampleResult{index: index, comps: make([]float64, len(comps))}

	for i, c := range comps {
		rad, err := integ.Radiance(c, params[i], obs, dir, ectx, freqGHz, s.model.T0(), s.model.Delta(), stops[i])
		if err != nil {
			out.err = err
			return out
		}
		out.comps[i] = rad
		out.total += rad
	}
	return out
}
