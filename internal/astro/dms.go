package astro

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDMS formats decimal degrees as degrees, arcminutes and arcseconds
// with one decimal, e.g. 48.8566 -> "48°51′23.8″". Negative values get a
// leading minus sign.
func FormatDMS(deg float64) string {
	sign := ""
	if deg < 0 {
		sign = "-"
		deg = -deg
	}

	// Round once in tenths of an arcsecond so carries propagate upward.
	tenths := int64(math.Round(deg * 36000))
	d := tenths / 36000
	tenths -= d * 36000
	m := tenths / 600
	tenths -= m * 600
	s := tenths / 10
	f := tenths % 10

	return fmt.Sprintf("%s%d°%02d′%02d.%d″", sign, d, m, s, f)
}

// FormatLatLon formats a position as "48°51′23.8″N 2°21′07.9″E".
func FormatLatLon(latDeg, lonDeg float64) string {
	return fmt.Sprintf("%s%s %s%s",
		FormatDMS(math.Abs(latDeg)), hemisphere(latDeg, "N", "S"),
		FormatDMS(math.Abs(lonDeg)), hemisphere(lonDeg, "E", "W"))
}

// GoogleMapsURL returns a Google Maps link for the position.
func GoogleMapsURL(latDeg, lonDeg float64) string {
	return fmt.Sprintf("https://www.google.com/maps/place/%s%s+%s%s",
		FormatDMS(math.Abs(latDeg)), hemisphere(latDeg, "N", "S"),
		FormatDMS(math.Abs(lonDeg)), hemisphere(lonDeg, "E", "W"))
}

// BingMapsURL returns a Bing Maps link centred on the position.
func BingMapsURL(latDeg, lonDeg float64) string {
	return "https://www.bing.com/maps?cp=" +
		strconv.FormatFloat(latDeg, 'f', -1, 64) + "~" +
		strconv.FormatFloat(lonDeg, 'f', -1, 64) + "&lvl=17"
}

func hemisphere(v float64, pos, neg string) string {
	if v >= 0 {
		return pos
	}
	return neg
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint returns the 8-point compass direction for an azimuth.
func CompassPoint(azDeg float64) string {
	idx := int(math.Floor(normalizeAngle360(azDeg)/45+0.5)) % len(compassPoints)
	return compassPoints[idx]
}
