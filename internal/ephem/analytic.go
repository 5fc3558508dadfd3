package ephem

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// AnalyticProvider computes the Earth position from the Meeus solar theory:
// the heliocentric Earth is the antipode of the geocentric Sun, with the
// longitude referred back from the equinox of date to J2000 by the general
// precession. Accuracy is a few 10^-5 AU and well under an arcminute in
// longitude near the present epoch, ample for zodiacal emission work, and it
// needs no data file. Supported observers: earth, sun, semb-l2.
type AnalyticProvider struct{}

// General precession in ecliptic longitude, radians per Julian century
// (5029.0966 arcsec). solar.True is referred to the equinox of date;
// subtracting p*T moves it to the J2000 frame the dust model uses.
const precessionRadPerCentury = 5029.0966 * math.Pi / (180 * 3600)

// NewAnalyticProvider returns the built-in analytic provider.
func NewAnalyticProvider() *AnalyticProvider {
	return &AnalyticProvider{}
}

// EarthPosition implements Provider.
func (p *AnalyticProvider) EarthPosition(t time.Time) (coords.Vec3, error) {
	jde := julian.TimeToJD(t.UTC())
	T := base.J2000Century(jde)

	sunLon, _ := solar.True(T)
	r := solar.Radius(T)

	lon := sunLon.Rad() - precessionRadPerCentury*T + math.Pi
	return coords.Vec3{
		X: r * math.Cos(lon),
		Y: r * math.Sin(lon),
		Z: 0,
	}, nil
}

// ObserverPosition implements Provider.
func (p *AnalyticProvider) ObserverPosition(name string, t time.Time) (coords.Vec3, error) {
	switch strings.ToLower(name) {
	case "sun":
		return coords.Vec3{}, nil
	case "earth":
		return p.EarthPosition(t)
	case ObserverL2:
		earth, err := p.EarthPosition(t)
		if err != nil {
			return coords.Vec3{}, err
		}
		return l2FromEarth(earth), nil
	default:
		return coords.Vec3{}, fmt.Errorf("%q: %w (analytic provider supports sun, earth, %s)", name, ErrUnknownObserver, ObserverL2)
	}
}
