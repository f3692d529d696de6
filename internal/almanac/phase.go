package almanac

import (
	"context"
	"math"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// MoonPhase returns the Moon's phase angle at t: the apparent geocentric
// ecliptic longitude of the Moon minus that of the Sun, in [0, 360).
// 0 is new, 90 first quarter, 180 full and 270 last quarter.
func MoonPhase(ctx context.Context, ds ephem.Dataset, t time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f := ephem.NewFrame(t)
	moon, err := ephem.EclipticLongitude(ds, ephem.Moon, f)
	if err != nil {
		return 0, err
	}
	sun, err := ephem.EclipticLongitude(ds, ephem.Sun, f)
	if err != nil {
		return 0, err
	}
	return astro.NormalizeAngle360(moon - sun), nil
}

var phaseNames = [...]string{
	"new moon",
	"waxing crescent",
	"first quarter",
	"waxing gibbous",
	"full moon",
	"waning gibbous",
	"last quarter",
	"waning crescent",
}

// PhaseName names the principal phase nearest to a phase angle.
func PhaseName(deg float64) string {
	idx := int(math.Floor(astro.NormalizeAngle360(deg)/45+0.5)) % len(phaseNames)
	return phaseNames[idx]
}

// Illumination returns the illuminated fraction of the disk for a phase
// angle, ignoring the Moon's ecliptic latitude.
func Illumination(deg float64) float64 {
	return (1 - math.Cos(astro.DegToRad(deg))) / 2
}
