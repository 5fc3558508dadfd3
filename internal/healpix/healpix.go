// Package healpix implements the RING-scheme HEALPix pixelization used to
// address sky maps. Only the conversions the emission API needs are provided:
// pixel index to pointing and back. Algebra follows Górski et al. (2005).
package healpix

import (
	"fmt"
	"math"

	"github.com/OpenSciViz/zodipy/internal/coords"
)

// MaxNside bounds the supported resolution; 8192 is far beyond any zodiacal
// map in practice and keeps all index math well inside int64.
const MaxNside = 8192

// ValidNside reports whether nside is a supported power of two.
func ValidNside(nside int) bool {
	return nside >= 1 && nside <= MaxNside && nside&(nside-1) == 0
}

// Npix returns the number of pixels of an nside map: 12 * nside^2.
func Npix(nside int) int {
	return 12 * nside * nside
}

// PixToAng converts a RING-scheme pixel index to spherical angles
// (theta = co-latitude, phi = longitude, radians).
func PixToAng(nside, ipix int) (theta, phi float64, err error) {
	if !ValidNside(nside) {
		return 0, 0, fmt.Errorf("invalid nside %d: must be a power of two in [1, %d]", nside, MaxNside)
	}
	npix := Npix(nside)
	if ipix < 0 || ipix >= npix {
		return 0, 0, fmt.Errorf("pixel %d out of range for nside %d (npix=%d)", ipix, nside, npix)
	}

	fn := float64(nside)
	ncap := 2 * nside * (nside - 1) // pixels in the north polar cap

	switch {
	case ipix < ncap: // north polar cap
		ip := ipix + 1
		hip := float64(ip) / 2
		iring := int(math.Sqrt(hip-math.Sqrt(math.Floor(hip)))) + 1
		iphi := ip - 2*iring*(iring-1)
		theta = math.Acos(1 - float64(iring*iring)/(3*fn*fn))
		phi = (float64(iphi) - 0.5) * math.Pi / (2 * float64(iring))

	case ipix < npix-ncap: // equatorial belt
		ip := ipix - ncap
		iring := ip/(4*nside) + nside
		iphi := ip%(4*nside) + 1
		// fodd is 1 when the ring is offset by half a pixel.
		fodd := 0.5 * float64(1+(iring+nside)%2)
		theta = math.Acos((2*fn - float64(iring)) * 2 / (3 * fn))
		phi = (float64(iphi) - fodd) * math.Pi / (2 * fn)

	default: // south polar cap
		ip := npix - ipix
		hip := float64(ip) / 2
		iring := int(math.Sqrt(hip-math.Sqrt(math.Floor(hip)))) + 1
		iphi := 4*iring + 1 - (ip - 2*iring*(iring-1))
		theta = math.Acos(-1 + float64(iring*iring)/(3*fn*fn))
		phi = (float64(iphi) - 0.5) * math.Pi / (2 * float64(iring))
	}

	return theta, phi, nil
}

// AngToPix converts spherical angles to the RING-scheme pixel containing them.
func AngToPix(nside int, theta, phi float64) (int, error) {
	if !ValidNside(nside) {
		return 0, fmt.Errorf("invalid nside %d: must be a power of two in [1, %d]", nside, MaxNside)
	}
	if math.IsNaN(theta) || math.IsNaN(phi) || theta < 0 || theta > math.Pi {
		return 0, fmt.Errorf("invalid angles theta=%v phi=%v", theta, phi)
	}

	fn := float64(nside)
	z := math.Cos(theta)
	za := math.Abs(z)
	// tt is phi scaled to [0, 4).
	tt := math.Mod(phi, 2*math.Pi)
	if tt < 0 {
		tt += 2 * math.Pi
	}
	tt /= math.Pi / 2

	if za <= 2.0/3.0 { // equatorial belt
		temp1 := fn * (0.5 + tt)
		temp2 := fn * z * 0.75

		jp := int(math.Floor(temp1 - temp2)) // ascending edge line index
		jm := int(math.Floor(temp1 + temp2)) // descending edge line index

		ir := nside + 1 + jp - jm // ring number counted from z = 2/3
		kshift := 1 - ir&1        // 1 for even rings

		ip := (jp + jm - nside + kshift + 1) / 2
		ip = ip % (4 * nside)
		if ip < 0 {
			ip += 4 * nside
		}

		return 2*nside*(nside-1) + (ir-1)*4*nside + ip, nil
	}

	// polar caps
	tp := tt - math.Floor(tt)
	tmp := fn * math.Sqrt(3*(1-za))

	jp := int(math.Floor(tp * tmp))
	jm := int(math.Floor((1 - tp) * tmp))

	ir := jp + jm + 1 // ring number counted from the closest pole
	ip := int(math.Floor(tt * float64(ir)))
	ip = ip % (4 * ir)
	if ip < 0 {
		ip += 4 * ir
	}

	if z > 0 {
		return 2*ir*(ir-1) + ip, nil
	}
	return Npix(nside) - 2*ir*(ir+1) + ip, nil
}

// PixToVec converts a RING-scheme pixel index to a unit pointing vector.
func PixToVec(nside, ipix int) (coords.Vec3, error) {
	theta, phi, err := PixToAng(nside, ipix)
	if err != nil {
		return coords.Vec3{}, err
	}
	return coords.SphToVec(theta, phi), nil
}
