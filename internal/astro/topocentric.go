package astro

import "math"

// WGS84 ellipsoid.
const (
	wgs84RadiusKm   = 6378.137
	wgs84Flattening = 1 / 298.257223563
)

// GeocentricPosition returns the observer's geocentric position in AU in
// the equatorial frame whose X axis points to the equinox used by lstDeg.
// Polar motion is ignored.
func GeocentricPosition(obs Observer, lstDeg float64) Vec3 {
	lat := degToRad(obs.LatDeg)
	lst := degToRad(lstDeg)
	h := obs.AltM / 1000

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	oneMinusF := 1 - wgs84Flattening
	c := 1 / math.Sqrt(cosLat*cosLat+oneMinusF*oneMinusF*sinLat*sinLat)
	s := oneMinusF * oneMinusF * c

	rxy := (wgs84RadiusKm*c + h) * cosLat
	return Vec3{
		X: KmToAU(rxy * math.Cos(lst)),
		Y: KmToAU(rxy * math.Sin(lst)),
		Z: KmToAU((wgs84RadiusKm*s + h) * sinLat),
	}
}

// Horizontal converts a topocentric equatorial vector of date to azimuth
// and elevation for the observer, given the local apparent sidereal time.
func Horizontal(topo Vec3, obs Observer, lstDeg float64) SkyCoord {
	ra, dec, r := topo.Spherical()
	coord := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, lstDeg)
	coord.RangeKm = AUToKm(r)
	return coord
}
