package coords

import (
	"fmt"
	"math"
)

// Frame identifies the reference frame of a sky pointing.
// The dust model is evaluated in ecliptic coordinates; pointings given in
// other frames are rotated to ecliptic before any density is evaluated.
type Frame string

const (
	FrameEcliptic   Frame = "E"
	FrameGalactic   Frame = "G"
	FrameEquatorial Frame = "C"
)

// Mean obliquity of the ecliptic at J2000.0, radians (IAU 2006 value).
const obliquityJ2000 = 23.439279444444445 * math.Pi / 180

// mat3 is a 3x3 rotation matrix in row-major order.
type mat3 [3][3]float64

func (m mat3) mulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m mat3) mul(n mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

func (m mat3) transpose() mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// equatorialToEcliptic rotates ICRS/equatorial J2000 into mean ecliptic
// J2000: a rotation about the x axis by the obliquity.
var equatorialToEcliptic = mat3{
	{1, 0, 0},
	{0, math.Cos(obliquityJ2000), math.Sin(obliquityJ2000)},
	{0, -math.Sin(obliquityJ2000), math.Cos(obliquityJ2000)},
}

// equatorialToGalactic is the standard J2000 rotation (Hipparcos frame).
var equatorialToGalactic = mat3{
	{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
	{+0.4941094278755837, -0.4448296299600112, +0.7469822444972189},
	{-0.8676661490190047, -0.1980763734312015, +0.4559837761750669},
}

// galacticToEcliptic = equatorialToEcliptic * galacticToEquatorial.
var galacticToEcliptic = equatorialToEcliptic.mul(equatorialToGalactic.transpose())

// ToEcliptic rotates a unit vector from the given frame into the ecliptic
// frame the dust model lives in.
func ToEcliptic(v Vec3, from Frame) (Vec3, error) {
	switch from {
	case FrameEcliptic:
		return v, nil
	case FrameEquatorial:
		return equatorialToEcliptic.mulVec(v), nil
	case FrameGalactic:
		return galacticToEcliptic.mulVec(v), nil
	default:
		return Vec3{}, fmt.Errorf("unknown frame %q (want E, G, or C)", from)
	}
}

// SphToVec converts spherical angles (theta = co-latitude from the north
// pole, phi = longitude, both radians) to a Cartesian unit vector.
func SphToVec(theta, phi float64) Vec3 {
	sinTheta := math.Sin(theta)
	return Vec3{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: math.Cos(theta),
	}
}

// VecToSph is the inverse of SphToVec for a unit vector.
func VecToSph(v Vec3) (theta, phi float64) {
	theta = math.Acos(math.Max(-1, math.Min(1, v.Z)))
	phi = math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return theta, phi
}

// LonLatToVec converts longitude/latitude in degrees to a unit vector.
func LonLatToVec(lonDeg, latDeg float64) Vec3 {
	lon := lonDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180
	return SphToVec(math.Pi/2-lat, lon)
}

// RADecToVec converts equatorial right ascension and declination in degrees
// to a unit vector in the equatorial frame.
func RADecToVec(raDeg, decDeg float64) Vec3 {
	return LonLatToVec(raDeg, decDeg)
}
