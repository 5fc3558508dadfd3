package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/emission"
	"github.com/OpenSciViz/zodipy/internal/ephem"
	"github.com/OpenSciViz/zodipy/internal/healpix"
	"github.com/OpenSciViz/zodipy/internal/ipd"
	"github.com/OpenSciViz/zodipy/internal/spectral"
)

type handlers struct {
	sim    *emission.Simulator
	logger *slog.Logger
}

// pointingSpec carries one of the accepted sky-pointing encodings.
type pointingSpec struct {
	// HEALPix RING pixels at the given nside.
	Pixels []int `json:"pixels,omitempty"`
	Nside  int   `json:"nside,omitempty"`

	// Spherical angles in radians: theta = co-latitude, phi = longitude.
	Theta []float64 `json:"theta,omitempty"`
	Phi   []float64 `json:"phi,omitempty"`
	// When lonlat is true, theta/phi are longitude/latitude in degrees.
	LonLat bool `json:"lonlat,omitempty"`

	// Equatorial coordinates in degrees; implies frame C.
	RA  []float64 `json:"ra,omitempty"`
	Dec []float64 `json:"dec,omitempty"`

	// Raw unit vectors.
	Vectors [][3]float64 `json:"vectors,omitempty"`
}

type emissionRequest struct {
	Frequency float64      `json:"frequency"`
	Unit      string       `json:"unit"`
	Times     []time.Time  `json:"times"`
	Observer  string       `json:"observer,omitempty"`
	Frame     string       `json:"frame,omitempty"` // E (default), G, or C
	Pointing  pointingSpec `json:"pointing"`

	ReturnComponents bool     `json:"return_components,omitempty"`
	IntegrationSteps int      `json:"integration_steps,omitempty"`
	DistanceCutoff   *float64 `json:"distance_cutoff,omitempty"`

	// Binned accumulates results into a full HEALPix map instead of one
	// radiance per sample. Requires pixel pointing.
	Binned bool `json:"binned,omitempty"`

	// ColorCorr is an optional (temperature [K], factor) bandpass
	// color-correction table applied to the thermal term.
	ColorCorr [][2]float64 `json:"color_corr,omitempty"`
}

type emissionResponse struct {
	Model      string                  `json:"model"`
	FreqGHz    float64                 `json:"freq_ghz"`
	Unit       string                  `json:"unit"`
	Nside      int                     `json:"nside,omitempty"`
	Radiance   []float64               `json:"radiance"`
	Components map[string][]float64    `json:"components,omitempty"`
	Failed     []emission.FailedSample `json:"failed,omitempty"`
}

type modelsResponse struct {
	Models []modelInfo `json:"models"`
}

type modelInfo struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
	MinGHz     float64  `json:"min_ghz"`
	MaxGHz     float64  `json:"max_ghz"`
}

func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	resp := modelsResponse{}
	for _, name := range ipd.Names() {
		m, err := ipd.Get(name)
		if err != nil {
			continue
		}
		minGHz, maxGHz := m.Table().Bounds()
		info := modelInfo{Name: m.Name(), MinGHz: minGHz, MaxGHz: maxGHz}
		for _, c := range m.Components() {
			info.Components = append(info.Components, c.Name())
		}
		resp.Models = append(resp.Models, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) emission(w http.ResponseWriter, r *http.Request) {
	var req emissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	unit := emission.FreqUnit(req.Unit)
	if req.Unit == "" {
		unit = emission.UnitGHz
	}
	opts := emission.Options{
		ReturnComponents: req.ReturnComponents,
		IntegrationSteps: req.IntegrationSteps,
		DistanceCutoff:   req.DistanceCutoff,
		Observer:         req.Observer,
		ColorCorr:        req.ColorCorr,
	}
	freq := emission.Frequency{Value: req.Frequency, Unit: unit}

	if req.Binned {
		if len(req.Pointing.Pixels) == 0 {
			writeError(w, http.StatusBadRequest, "binned mode requires pixel pointing")
			return
		}
		result, err := h.sim.EmissionBinned(r.Context(), emission.BinnedRequest{
			Nside:     req.Pointing.Nside,
			Pixels:    req.Pointing.Pixels,
			Times:     req.Times,
			Frequency: freq,
			Options:   opts,
		})
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, emissionResponse{
			Model:      h.sim.Model().Name(),
			FreqGHz:    result.FreqGHz,
			Unit:       "MJy/sr",
			Nside:      result.Nside,
			Radiance:   sanitizeNaN(result.Map),
			Components: sanitizeComponents(result.Components),
			Failed:     result.Failed,
		})
		return
	}

	directions, err := resolvePointing(req.Pointing, coords.Frame(defaultFrame(req.Frame)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sim.Emission(r.Context(), emission.Request{
		Directions: directions,
		Times:      req.Times,
		Frequency:  freq,
		Options:    opts,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, emissionResponse{
		Model:      h.sim.Model().Name(),
		FreqGHz:    result.FreqGHz,
		Unit:       "MJy/sr",
		Radiance:   sanitizeNaN(result.Radiance),
		Components: sanitizeComponents(result.Components),
		Failed:     result.Failed,
	})
}

// defaultFrame maps an empty frame to ecliptic.
func defaultFrame(f string) string {
	if f == "" {
		return string(coords.FrameEcliptic)
	}
	return f
}

// resolvePointing converts whichever pointing encoding the request used into
// ecliptic unit vectors.
func resolvePointing(p pointingSpec, frame coords.Frame) ([]coords.Vec3, error) {
	given := 0
	for _, ok := range []bool{len(p.Pixels) > 0, len(p.Theta) > 0 || len(p.Phi) > 0, len(p.RA) > 0 || len(p.Dec) > 0, len(p.Vectors) > 0} {
		if ok {
			given++
		}
	}
	if given != 1 {
		return nil, fmt.Errorf("exactly one pointing encoding required (pixels, theta/phi, ra/dec, or vectors); got %d", given)
	}

	var raw []coords.Vec3
	switch {
	case len(p.Pixels) > 0:
		for _, pix := range p.Pixels {
			v, err := healpix.PixToVec(p.Nside, pix)
			if err != nil {
				return nil, err
			}
			raw = append(raw, v)
		}

	case len(p.RA) > 0 || len(p.Dec) > 0:
		if len(p.RA) != len(p.Dec) {
			return nil, fmt.Errorf("ra and dec must have the same length (%d vs %d)", len(p.RA), len(p.Dec))
		}
		frame = coords.FrameEquatorial
		for i := range p.RA {
			raw = append(raw, coords.RADecToVec(p.RA[i], p.Dec[i]))
		}

	case len(p.Theta) > 0 || len(p.Phi) > 0:
		if len(p.Theta) != len(p.Phi) {
			return nil, fmt.Errorf("theta and phi must have the same length (%d vs %d)", len(p.Theta), len(p.Phi))
		}
		for i := range p.Theta {
			if p.LonLat {
				raw = append(raw, coords.LonLatToVec(p.Theta[i], p.Phi[i]))
			} else {
				raw = append(raw, coords.SphToVec(p.Theta[i], p.Phi[i]))
			}
		}

	default:
		for _, v := range p.Vectors {
			raw = append(raw, coords.Vec3{X: v[0], Y: v[1], Z: v[2]})
		}
	}

	out := make([]coords.Vec3, len(raw))
	for i, v := range raw {
		ecl, err := coords.ToEcliptic(v, frame)
		if err != nil {
			return nil, err
		}
		out[i] = ecl
	}
	return out, nil
}

// statusFor maps core error kinds onto HTTP statuses: malformed input 400,
// out-of-coverage 422, missing ephemeris data 503.
func statusFor(err error) int {
	switch {
	case errors.Is(err, emission.ErrValidation),
		errors.Is(err, ephem.ErrUnknownObserver),
		errors.Is(err, spectral.ErrUnknownComponent):
		return http.StatusBadRequest
	case errors.Is(err, spectral.ErrOutOfRange),
		errors.Is(err, ephem.ErrTimeOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ephem.ErrNotAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sanitizeNaN zeroes non-finite slots: encoding/json rejects NaN, and the
// failed samples are already identified by index in the Failed list.
func sanitizeNaN(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
			continue
		}
		out[i] = v
	}
	return out
}

func sanitizeComponents(comps map[string][]float64) map[string][]float64 {
	if comps == nil {
		return nil
	}
	out := make(map[string][]float64, len(comps))
	for k, v := range comps {
		out[k] = sanitizeNaN(v)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
