package ephem

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mshafiee/jpleph"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// JPLProvider reads positions from a JPL development ephemeris binary
// (DE405, DE430, ...). The file stores equatorial ICRF coordinates; results
// are rotated into the ecliptic frame the dust model uses.
type JPLProvider struct {
	eph  *jpleph.Ephemeris
	name string
}

var jplBodies = map[string]jpleph.Planet{
	"mercury": jpleph.Mercury,
	"venus":   jpleph.Venus,
	"earth":   jpleph.Earth,
	"mars":    jpleph.Mars,
	"jupiter": jpleph.Jupiter,
	"saturn":  jpleph.Saturn,
	"uranus":  jpleph.Uranus,
	"neptune": jpleph.Neptune,
	"pluto":   jpleph.Pluto,
	"moon":    jpleph.Moon,
	"sun":     jpleph.Sun,
}

// NewJPLProvider opens an ephemeris file. A missing or unreadable file is
// reported as ErrNotAvailable so callers can fall back or fetch the file.
func NewJPLProvider(path string) (*JPLProvider, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrNotAvailable, err)
	}
	return &JPLProvider{eph: eph, name: eph.GetEphemName()}, nil
}

// Name returns the ephemeris designation from the file header (e.g. DE405).
func (p *JPLProvider) Name() string { return p.name }

// Close releases the underlying file.
func (p *JPLProvider) Close() error { return p.eph.Close() }

// EarthPosition implements Provider.
func (p *JPLProvider) EarthPosition(t time.Time) (coords.Vec3, error) {
	return p.heliocentric(jpleph.Earth, t)
}

// ObserverPosition implements Provider.
func (p *JPLProvider) ObserverPosition(name string, t time.Time) (coords.Vec3, error) {
	key := strings.ToLower(name)
	if key == ObserverL2 {
		earth, err := p.EarthPosition(t)
		if err != nil {
			return coords.Vec3{}, err
		}
		return l2FromEarth(earth), nil
	}

	body, ok := jplBodies[key]
	if !ok {
		return coords.Vec3{}, fmt.Errorf("%q: %w", name, ErrUnknownObserver)
	}
	if body == jpleph.Sun {
		return coords.Vec3{}, nil
	}
	return p.heliocentric(body, t)
}

func (p *JPLProvider) heliocentric(body jpleph.Planet, t time.Time) (coords.Vec3, error) {
	jd := julian.TimeToJD(t.UTC())

	pos, _, err := p.eph.CalculatePV(jd, body, jpleph.CenterSun, false)
	if err != nil {
		if errors.Is(err, jpleph.ErrOutsideRange) {
			return coords.Vec3{}, fmt.Errorf("jd %.2f: %w", jd, ErrTimeOutOfRange)
		}
		return coords.Vec3{}, fmt.Errorf("jpl ephemeris: %w: %v", ErrNotAvailable, err)
	}

	eq := coords.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	ecl, err := coords.ToEcliptic(eq, coords.FrameEquatorial)
	if err != nil {
		return coords.Vec3{}, err
	}
	return ecl, nil
}
