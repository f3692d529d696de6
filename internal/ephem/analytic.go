package ephem

import (
	"fmt"

	"github.com/mooncaker816/learnmeeus/v3/base"
	"github.com/mooncaker816/learnmeeus/v3/moonposition"
	"github.com/mooncaker816/learnmeeus/v3/nutation"
	"github.com/mooncaker816/learnmeeus/v3/solar"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// Julian dates bounding the analytic model, matching the 1550-2650 span
// of the JPL Linux DE files.
const (
	analyticStartJD = 2287184.5
	analyticEndJD   = 2688976.5
)

// AnalyticDataset computes positions from series expansions instead of a
// data file. The Sun and Earth come from the VSOP-derived solar theory,
// the Moon from the ELP-derived lunar theory, and the planets from mean
// Keplerian elements. Positions are heliocentric.
//
// Planet errors grow outside 1800-2050; rise and set stay within a few
// minutes across the covered range.
type AnalyticDataset struct{}

// NewAnalyticDataset returns the builtin analytic model.
func NewAnalyticDataset() *AnalyticDataset {
	return &AnalyticDataset{}
}

// Name implements Dataset.
func (AnalyticDataset) Name() string {
	return AnalyticDatasetName
}

// Coverage implements Dataset.
func (AnalyticDataset) Coverage() (float64, float64) {
	return analyticStartJD, analyticEndJD
}

// Close implements Dataset.
func (AnalyticDataset) Close() error {
	return nil
}

// Position implements Dataset.
func (d AnalyticDataset) Position(b Body, jd float64) (astro.Vec3, error) {
	if err := d.checkRange(jd); err != nil {
		return astro.Vec3{}, err
	}
	switch {
	case b == Sun:
		return astro.Vec3{}, nil
	case b == Moon:
		return heliocentricEarth(jd).Add(geocentricMoon(jd)), nil
	case b.IsPlanet():
		T := base.J2000Century(jd)
		return astro.EclipticToEquatorial(planetElements[b].heliocentric(T)), nil
	default:
		return astro.Vec3{}, fmt.Errorf("%w: %v", ErrInvalidBody, b)
	}
}

// EarthPosition implements Dataset.
func (d AnalyticDataset) EarthPosition(jd float64) (astro.Vec3, error) {
	if err := d.checkRange(jd); err != nil {
		return astro.Vec3{}, err
	}
	return heliocentricEarth(jd), nil
}

func (AnalyticDataset) checkRange(jd float64) error {
	if jd < analyticStartJD || jd > analyticEndJD {
		return fmt.Errorf("%w: JD %.1f not in [%.1f, %.1f]", ErrOutOfRange, jd, analyticStartJD, analyticEndJD)
	}
	return nil
}

// heliocentricEarth is the reverse of the geometric geocentric Sun.
func heliocentricEarth(jd float64) astro.Vec3 {
	T := base.J2000Century(jd)
	lon, _ := solar.True(T)
	sun := astro.FromSpherical(lon.Rad(), 0, solar.Radius(T))
	return meanOfDateEclipticToJ2000(sun, jd).Scale(-1)
}

// geocentricMoon returns the geometric geocentric Moon in AU, J2000.
func geocentricMoon(jd float64) astro.Vec3 {
	lon, lat, distKm := moonposition.Position(jd)
	moon := astro.FromSpherical(lon.Rad(), lat.Rad(), astro.KmToAU(distKm))
	return meanOfDateEclipticToJ2000(moon, jd)
}

// meanOfDateEclipticToJ2000 rotates a vector from the mean ecliptic and
// equinox of jd to the J2000 mean equator.
func meanOfDateEclipticToJ2000(v astro.Vec3, jd float64) astro.Vec3 {
	eq := astro.EclipticToEquatorialOf(v, nutation.MeanObliquity(jd).Rad())
	return astro.PrecessionMatrix(jd).Transpose().Apply(eq)
}
