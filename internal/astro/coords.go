// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidObserver is returned when an observer's coordinates are out of range.
var ErrInvalidObserver = errors.New("invalid observer")

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (true equator and equinox of date)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	RangeKm float64
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Geodetic latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	AltM   float64 // Height above the WGS84 ellipsoid in meters
	Name   string  // Optional name for the site
}

// Validate checks latitude and longitude ranges.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidObserver, o.LatDeg)
	}
	if math.IsNaN(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidObserver, o.LonDeg)
	}
	return nil
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec of date) to
// horizontal coordinates (Az/El) given the local sidereal time in degrees.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, lstDeg float64) SkyCoord {
	az, el := HourAngleToHorizontal(lstDeg-eq.RAdeg, eq.DecDeg, obs.LatDeg)
	return SkyCoord{
		RAdeg:   eq.RAdeg,
		DecDeg:  eq.DecDeg,
		AzDeg:   az,
		ElDeg:   el,
		RangeKm: eq.RangeKm,
	}
}

// HourAngleToHorizontal converts a local hour angle and declination to
// azimuth and elevation for an observer at the given latitude.
func HourAngleToHorizontal(haDeg, decDeg, latDeg float64) (azDeg, elDeg float64) {
	lat := degToRad(latDeg)
	ha := degToRad(haDeg)
	dec := degToRad(decDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	// Clamp for floating point errors
	sinAlt = math.Max(-1, math.Min(1, sinAlt))
	alt := math.Asin(sinAlt)

	// atan2 form stays well conditioned near the zenith
	y := -math.Cos(dec) * math.Sin(ha)
	x := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Cos(ha)*math.Sin(lat)
	az := math.Atan2(y, x)

	return normalizeAngle360(radToDeg(az)), radToDeg(alt)
}

// LocalSiderealTime returns the Local Mean Sidereal Time in degrees
// for a given UTC time and observer longitude.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(GreenwichMeanSiderealTime(t) + lonDeg)
}

// GreenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU formula based on Julian Date.
func GreenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)

	// Julian centuries since J2000.0
	T := (jd - J2000) / 36525.0

	// GMST in degrees (IAU 1982 formula)
	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// GreenwichApparentSiderealTime adds the equation of the equinoxes to GMST.
// dPsi and trueEps are the nutation in longitude and the true obliquity, in radians.
func GreenwichApparentSiderealTime(t time.Time, dPsi, trueEps float64) float64 {
	return normalizeAngle360(GreenwichMeanSiderealTime(t) + radToDeg(dPsi*math.Cos(trueEps)))
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return degToRad(deg) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return radToDeg(rad) }
