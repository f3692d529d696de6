package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// SpeedOfLightAUPerDay is c expressed in AU per day.
const SpeedOfLightAUPerDay = 173.1446326846693

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Spherical returns the longitude (0-360) and latitude (-90..90) in degrees
// and the length of the vector.
func (v Vec3) Spherical() (lonDeg, latDeg, r float64) {
	r = v.Norm()
	if r == 0 {
		return 0, 0, 0
	}
	return EclipticLongitude(v), radToDeg(math.Asin(v.Z / r)), r
}

// FromSpherical builds a vector from longitude and latitude in radians and a length.
func FromSpherical(lon, lat, r float64) Vec3 {
	cosLat := math.Cos(lat)
	return Vec3{
		X: r * cosLat * math.Cos(lon),
		Y: r * cosLat * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// Mat3 is a 3x3 rotation matrix, row major.
type Mat3 [3][3]float64

// Apply returns m·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return r
}

// Transpose returns the transpose, which is the inverse for a rotation.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// RotX returns the frame rotation about the X axis by angle a (radians).
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

// RotY returns the frame rotation about the Y axis by angle a (radians).
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}
}

// RotZ returns the frame rotation about the Z axis by angle a (radians).
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

const arcsecToRad = math.Pi / (180 * 3600)

// PrecessionMatrix returns the IAU 1976 precession matrix that takes J2000
// mean equatorial vectors to the mean equator and equinox of jdTT.
func PrecessionMatrix(jdTT float64) Mat3 {
	T := JulianCenturies(jdTT)
	zeta := (2306.2181*T + 0.30188*T*T + 0.017998*T*T*T) * arcsecToRad
	z := (2306.2181*T + 1.09468*T*T + 0.018203*T*T*T) * arcsecToRad
	theta := (2004.3109*T - 0.42665*T*T - 0.041833*T*T*T) * arcsecToRad
	return RotZ(-z).Mul(RotY(theta)).Mul(RotZ(-zeta))
}

// NutationMatrix returns the matrix that takes mean-of-date equatorial
// vectors to the true equator and equinox of date. All angles in radians.
func NutationMatrix(meanEps, dPsi, dEps float64) Mat3 {
	return RotX(-(meanEps + dEps)).Mul(RotZ(-dPsi)).Mul(RotX(meanEps))
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	lon := radToDeg(math.Atan2(v.Y, v.X))
	if lon < 0 {
		lon += 360
	}
	return lon
}

// ObliquityJ2000 is the Earth's axial tilt (J2000 epoch) in radians.
const ObliquityJ2000 = 23.4392911 * math.Pi / 180

// EquatorialToEcliptic converts J2000 equatorial XYZ to J2000 ecliptic XYZ.
// Input is in any units (km, AU, etc); output is in the same units.
func EquatorialToEcliptic(eq Vec3) Vec3 {
	return EquatorialToEclipticOf(eq, ObliquityJ2000)
}

// EclipticToEquatorial converts J2000 ecliptic XYZ to J2000 equatorial XYZ.
func EclipticToEquatorial(ecl Vec3) Vec3 {
	return EclipticToEquatorialOf(ecl, ObliquityJ2000)
}

// EquatorialToEclipticOf rotates an equatorial vector into the ecliptic
// defined by the obliquity eps (radians).
func EquatorialToEclipticOf(eq Vec3, eps float64) Vec3 {
	return RotX(eps).Apply(eq)
}

// EclipticToEquatorialOf rotates an ecliptic vector into the equator
// defined by the obliquity eps (radians).
func EclipticToEquatorialOf(ecl Vec3, eps float64) Vec3 {
	return RotX(-eps).Apply(ecl)
}

// LightTimeDays returns the one-way light time in days for a distance in AU.
func LightTimeDays(au float64) float64 {
	return au / SpeedOfLightAUPerDay
}
