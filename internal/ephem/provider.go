// Package ephem resolves heliocentric positions of solar-system observers.
// The emission core only consumes the Provider interface; concrete providers
// wrap a JPL binary ephemeris or an analytic solar theory, and a caching
// decorator memoizes lookups across a batch.
package ephem

import (
	"errors"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// ErrNotAvailable is returned when ephemeris data cannot be loaded or read.
// The caller may retry after fetching data; providers never retry themselves.
var ErrNotAvailable = errors.New("ephemeris data not available")

// ErrTimeOutOfRange is returned when the requested time falls outside the
// ephemeris coverage.
var ErrTimeOutOfRange = errors.New("time outside ephemeris coverage")

// ErrUnknownObserver is returned for observer names the provider does not
// support.
var ErrUnknownObserver = errors.New("unknown observer")

// ObserverL2 is the Sun-Earth-Moon barycenter L2 point, supported by
// approximation: JPL ephemerides do not carry it.
const ObserverL2 = "semb-l2"

// l2DistanceAU is the assumed constant radial distance from Earth to SEMB-L2.
const l2DistanceAU = 0.009896235034000056

// Provider resolves heliocentric mean-ecliptic positions in AU.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ObserverPosition returns the position of a named observer at t.
	ObserverPosition(name string, t time.Time) (coords.Vec3, error)

	// EarthPosition returns the position of Earth at t.
	EarthPosition(t time.Time) (coords.Vec3, error)
}

// l2FromEarth places SEMB-L2 radially outward from the Earth position.
func l2FromEarth(earth coords.Vec3) coords.Vec3 {
	r := earth.Norm()
	if r == 0 {
		return earth
	}
	return earth.Scale((r + l2DistanceAU) / r)
}
