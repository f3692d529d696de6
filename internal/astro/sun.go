package astro

import (
	"math"
)

// Horizon and twilight altitudes of the Sun's center, in degrees.
const (
	// RefractionAtHorizon is the standard refraction at the horizon (34').
	RefractionAtHorizon = 34.0 / 60.0

	// SunriseAltitude is the conventional geometric altitude of the Sun's
	// center at sunrise and sunset.
	SunriseAltitude = -0.8333

	CivilTwilightAltitude        = -6.0
	NauticalTwilightAltitude     = -12.0
	AstronomicalTwilightAltitude = -18.0
)

// Mean radii in kilometers for bodies whose disc matters at the horizon.
const (
	SunRadiusKm  = 696340.0
	MoonRadiusKm = 1737.1
)

// SemiDiameter returns the apparent angular radius in degrees of a body with
// the given radius seen from distKm.
func SemiDiameter(radiusKm, distKm float64) float64 {
	if distKm <= radiusKm {
		return 90
	}
	return radToDeg(math.Asin(radiusKm / distKm))
}

// HorizonAltitude returns the geometric altitude at which the upper limb of
// a body of the given radius touches the refracted horizon. A zero radius
// gives the point-source threshold.
func HorizonAltitude(radiusKm, distKm float64) float64 {
	if radiusKm == 0 {
		return -RefractionAtHorizon
	}
	return -RefractionAtHorizon - SemiDiameter(radiusKm, distKm)
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	// Convert to radians
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	c := 2 * math.Asin(math.Sqrt(a))

	return radToDeg(c)
}

// NormalizeAngle360 normalizes an angle to [0, 360) degrees.
func NormalizeAngle360(a float64) float64 {
	return normalizeAngle360(a)
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod can return 360 for tiny negative inputs after the correction
	if a >= 360 {
		a -= 360
	}
	return a
}
