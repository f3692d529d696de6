package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/nutation"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// Place is an apparent position referred to the true equator and equinox
// of date.
type Place struct {
	Vec    astro.Vec3 // AU
	RAdeg  float64
	DecDeg float64
	DistAU float64
}

// Frame holds the time-dependent quantities shared by every body at one
// instant: the precession-nutation matrix, obliquity and sidereal time.
type Frame struct {
	Time    time.Time
	JDTT    float64 // TT, used as TDB for dataset lookups
	PN      astro.Mat3
	TrueEps float64 // radians
	GAST    float64 // degrees
}

// NewFrame builds the frame of date for t.
func NewFrame(t time.Time) Frame {
	jdTT := astro.TerrestrialJD(t)
	dPsi, dEps := nutation.Nutation(jdTT)
	meanEps := nutation.MeanObliquity(jdTT).Rad()
	trueEps := meanEps + dEps.Rad()

	pn := astro.NutationMatrix(meanEps, dPsi.Rad(), dEps.Rad()).Mul(astro.PrecessionMatrix(jdTT))
	return Frame{
		Time:    t,
		JDTT:    jdTT,
		PN:      pn,
		TrueEps: trueEps,
		GAST:    astro.GreenwichApparentSiderealTime(t, dPsi.Rad(), trueEps),
	}
}

// LAST returns the local apparent sidereal time in degrees.
func (f Frame) LAST(lonDeg float64) float64 {
	return astro.NormalizeAngle360(f.GAST + lonDeg)
}

const (
	lightTimeIterations = 3

	// earthVelocityStep is the half-width, in days, of the central
	// difference used for the Earth's velocity.
	earthVelocityStep = 0.01
)

// Geocentric returns the apparent geocentric place of b: corrected for
// light time and annual aberration, then rotated to the true equator and
// equinox of date.
func Geocentric(ds Dataset, b Body, f Frame) (Place, error) {
	if !b.Valid() {
		return Place{}, fmt.Errorf("%w: %v", ErrInvalidBody, b)
	}

	earth, err := ds.EarthPosition(f.JDTT)
	if err != nil {
		return Place{}, err
	}

	// Light time: the body is seen where it was when the light left it.
	var rel astro.Vec3
	tau := 0.0
	for i := 0; i < lightTimeIterations; i++ {
		pos, err := ds.Position(b, f.JDTT-tau)
		if err != nil {
			return Place{}, err
		}
		rel = pos.Sub(earth)
		tau = astro.LightTimeDays(rel.Norm())
	}

	vel, err := earthVelocity(ds, f.JDTT)
	if err != nil {
		return Place{}, err
	}
	rel = aberrate(rel, vel)

	return newPlace(f.PN.Apply(rel)), nil
}

// Topocentric returns the apparent place of b as seen by obs, and its
// horizontal coordinates. Refraction is not applied.
func Topocentric(ds Dataset, b Body, obs astro.Observer, f Frame) (Place, astro.SkyCoord, error) {
	geo, err := Geocentric(ds, b, f)
	if err != nil {
		return Place{}, astro.SkyCoord{}, err
	}

	last := f.LAST(obs.LonDeg)
	topo := geo.Vec.Sub(astro.GeocentricPosition(obs, last))
	return newPlace(topo), astro.Horizontal(topo, obs, last), nil
}

// EclipticLongitude returns the apparent geocentric ecliptic longitude of
// b in degrees, referred to the true ecliptic and equinox of date.
func EclipticLongitude(ds Dataset, b Body, f Frame) (float64, error) {
	geo, err := Geocentric(ds, b, f)
	if err != nil {
		return 0, err
	}
	return astro.EclipticLongitude(astro.EquatorialToEclipticOf(geo.Vec, f.TrueEps)), nil
}

func newPlace(v astro.Vec3) Place {
	ra, dec, r := v.Spherical()
	return Place{Vec: v, RAdeg: ra, DecDeg: dec, DistAU: r}
}

// earthVelocity returns the Earth's velocity in AU/day.
func earthVelocity(ds Dataset, jd float64) (astro.Vec3, error) {
	start, end := ds.Coverage()
	lo := math.Max(jd-earthVelocityStep, start)
	hi := math.Min(jd+earthVelocityStep, end)

	before, err := ds.EarthPosition(lo)
	if err != nil {
		return astro.Vec3{}, err
	}
	after, err := ds.EarthPosition(hi)
	if err != nil {
		return astro.Vec3{}, err
	}
	return after.Sub(before).Scale(1 / (hi - lo)), nil
}

// aberrate applies first-order annual aberration to the vector rel for an
// observer moving with velocity vel (AU/day). The length is preserved.
func aberrate(rel, vel astro.Vec3) astro.Vec3 {
	r := rel.Norm()
	if r == 0 {
		return rel
	}
	u := rel.Scale(1 / r)
	v := vel.Scale(1 / astro.SpeedOfLightAUPerDay)
	moved := u.Add(v).Sub(u.Scale(u.Dot(v)))
	return moved.Normalized().Scale(r)
}
