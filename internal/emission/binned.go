package emission

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/healpix"
)

// BinnedRequest asks for emission accumulated into a full HEALPix map instead
// of per-sample values. Pixels may repeat; each repetition counts one hit, and
// every unique pixel is integrated only once per observation time.
type BinnedRequest struct {
	// Nside is the HEALPix resolution of the output map.
	Nside int

	// Pixels are RING-scheme pixel indices at Nside, with repetition.
	Pixels []int

	// Times are the observation epochs. At least one is required.
	Times []time.Time

	// Frequency is the frequency or wavelength to evaluate at.
	Frequency Frequency

	Options Options
}

// BinnedResult holds a binned emission map.
type BinnedResult struct {
	FreqGHz float64
	Nside   int

	// Map has 12*Nside^2 slots in RING order. Each observed pixel holds its
	// radiance in MJy/sr multiplied by its hit count, accumulated over all
	// observation times; unobserved pixels are zero.
	Map []float64

	// Components maps component name to its binned map. Only set when
	// Options.ReturnComponents; the values sum to Map.
	Components map[string][]float64

	// Failed lists pixels whose line of sight could not be evaluated at some
	// time. Index is the HEALPix pixel; its map slot holds NaN.
	Failed []FailedSample
}

// EmissionBinned evaluates one batch in binned-map mode: the requested pixels
// are deduplicated, each unique pointing is integrated once per time, and the
// results are scattered into the map weighted by hit count.
func (s *Simulator) EmissionBinned(ctx context.Context, req BinnedRequest) (*BinnedResult, error) {
	if !healpix.ValidNside(req.Nside) {
		return nil, fmt.Errorf("nside %d: %w: must be a power of two in [1, %d]", req.Nside, ErrValidation, healpix.MaxNside)
	}
	if len(req.Pixels) == 0 {
		return nil, fmt.Errorf("no pixels given: %w", ErrValidation)
	}

	npix := healpix.Npix(req.Nside)
	counts := make(map[int]int, len(req.Pixels))
	for _, pix := range req.Pixels {
		if pix < 0 || pix >= npix {
			return nil, fmt.Errorf("pixel %d out of range for nside %d (npix=%d): %w", pix, req.Nside, npix, ErrValidation)
		}
		counts[pix]++
	}
	unique := make([]int, 0, len(counts))
	for pix := range counts {
		unique = append(unique, pix)
	}
	sort.Ints(unique)

	dirs := make([]coords.Vec3, len(unique))
	for i, pix := range unique {
		v, err := healpix.PixToVec(req.Nside, pix)
		if err != nil {
			return nil, fmt.Errorf("pixel %d: %v: %w", pix, err, ErrValidation)
		}
		dirs[i] = v
	}

	inner, err := s.Emission(ctx, Request{
		Directions: dirs,
		Times:      req.Times,
		Frequency:  req.Frequency,
		Options:    req.Options,
	})
	if err != nil {
		return nil, err
	}

	out := &BinnedResult{
		FreqGHz: inner.FreqGHz,
		Nside:   req.Nside,
		Map:     make([]float64, npix),
	}
	if inner.Components != nil {
		out.Components = make(map[string][]float64, len(inner.Components))
		for name := range inner.Components {
			out.Components[name] = make([]float64, npix)
		}
	}

	failReason := make(map[int]string, len(inner.Failed))
	for _, f := range inner.Failed {
		failReason[f.Index] = f.Reason
	}
	failedPix := make(map[int]bool)

	for ti := range req.Times {
		for ui, pix := range unique {
			idx := ti*len(unique) + ui
			v := inner.Radiance[idx]
			if math.IsNaN(v) && !failedPix[pix] {
				failedPix[pix] = true
				out.Failed = append(out.Failed, FailedSample{Index: pix, Reason: failReason[idx]})
			}
			// NaN propagates through accumulation, so a pixel that fails at
			// any time ends up NaN in the map.
			weight := float64(counts[pix])
			out.Map[pix] += v * weight
			for name, vals := range inner.Components {
				out.Components[name][pix] += vals[idx] * weight
			}
		}
	}

	s.logger.Debug("binned emission batch complete",
		"nside", req.Nside,
		"pixels", len(req.Pixels),
		"unique_pixels", len(unique),
		"times", len(req.Times),
		"freq_ghz", out.FreqGHz,
	)

	return out, nil
}
